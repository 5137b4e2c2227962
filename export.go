package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fmuoria/recruit-agent/internal/config"
	"github.com/fmuoria/recruit-agent/internal/export"
	"github.com/fmuoria/recruit-agent/internal/seed"
)

var exportCommand = &cobra.Command{
	Use:   "export",
	Short: "Write an Excel pipeline report from a seed fixture",
	Long: `Loads a YAML fixture (the embedded demo data by default) and writes the
ranked candidate report without starting the server or calling the AI service.`,
	RunE: runExport,
}

var (
	exportOutput string
	exportSeed   string
	exportJob    string
)

func init() {
	exportCommand.Flags().StringVarP(&exportOutput, "output", "o", "pipeline_report.xlsx", "Output .xlsx path")
	exportCommand.Flags().StringVarP(&exportSeed, "seed", "s", "", "YAML fixture to report on (defaults to seed_file, then the demo data)")
	exportCommand.Flags().StringVarP(&exportJob, "job", "j", "", "Only report on this job id")
	rootCmd.AddCommand(exportCommand)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg := config.DefaultConfig()
	if exportSeed != "" {
		cfg.SeedFile = exportSeed
	} else if configPath != "" {
		loaded, err := config.LoadFrom(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	var (
		data seed.Data
		err  error
	)
	if cfg.SeedFile != "" {
		data, err = seed.LoadFile(cfg.SeedFile, time.Now())
	} else {
		data, err = seed.Default(time.Now())
	}
	if err != nil {
		return fmt.Errorf("failed to load seed data: %w", err)
	}

	report, err := export.NewReport(data.Jobs, data.Candidates, data.Interviewers, data.Interviews, exportJob)
	if err != nil {
		return err
	}
	if err := export.ExportToExcel(report, exportOutput); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s (%d candidates)\n", exportOutput, len(report.Candidates))
	return nil
}
