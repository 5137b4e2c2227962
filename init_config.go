package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fmuoria/recruit-agent/internal/config"
)

var initConfigCommand = &cobra.Command{
	Use:   "init-config",
	Short: "Write a config file with defaults and current environment values",
	Long: `Creates config.json (at --config, or the user config directory) from the
defaults overlaid with any environment overrides, so it can be edited by hand.`,
	RunE: runInitConfig,
}

var initConfigForce bool

func init() {
	initConfigCommand.Flags().BoolVarP(&initConfigForce, "force", "f", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initConfigCommand)
}

func runInitConfig(cmd *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !initConfigForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if err := cfg.SaveTo(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
	return nil
}
