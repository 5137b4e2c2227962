package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fmuoria/recruit-agent/internal/agent"
	"github.com/fmuoria/recruit-agent/internal/api"
	"github.com/fmuoria/recruit-agent/internal/config"
	"github.com/fmuoria/recruit-agent/internal/gateway"
	"github.com/fmuoria/recruit-agent/internal/ingestion"
	"github.com/fmuoria/recruit-agent/internal/llm"
	"github.com/fmuoria/recruit-agent/internal/seed"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the recruiting API. The store is seeded from the embedded demo
fixture unless seed_file (or SEED_FILE) names a YAML fixture of your own.`,
	RunE: runServe,
}

var (
	servePort   int
	serveNoSeed bool
)

func init() {
	serveCommand.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides config and PORT)")
	serveCommand.Flags().BoolVar(&serveNoSeed, "no-seed", false, "Start with an empty store")
	rootCmd.AddCommand(serveCommand)
}

// loadConfig reads the config file, applies the environment and validates
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.ApplyToEnv()
	return cfg, nil
}

// loadSeed resolves the configured fixture against today
func loadSeed(cfg *config.Config) (seed.Data, error) {
	now := time.Now()
	if cfg.SeedFile != "" {
		return seed.LoadFile(cfg.SeedFile, now)
	}
	return seed.Default(now)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	client, err := llm.NewClient(ctx, cfg.LLMOptions())
	if err != nil {
		return fmt.Errorf("failed to create AI client: %w", err)
	}
	defer client.Close()

	var mail agent.MailSource
	if cfg.GmailEnabled() {
		gh, err := ingestion.NewGmailHandler(ctx, cfg.GmailCredentialsPath, cfg.GmailTokenPath, cfg.UploadsDir)
		if err != nil {
			log.Printf("gmail ingestion disabled: %v", err)
		} else {
			mail = gh
		}
	}

	a := agent.New(gateway.NewLLMGateway(client, cfg.RequestsPerSecond), ingestion.NewFileHandler(cfg.UploadsDir), mail)
	a.SetProgressCallback(func(current, total int, message string) {
		log.Printf("[%d/%d] %s", current, total, message)
	})

	if !serveNoSeed {
		data, err := loadSeed(cfg)
		if err != nil {
			return fmt.Errorf("failed to load seed data: %w", err)
		}
		a.Import(agent.Snapshot{
			Jobs:         data.Jobs,
			Candidates:   data.Candidates,
			Interviewers: data.Interviewers,
			Interviews:   data.Interviews,
		})
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.NewServer(a, cfg.GmailSubject).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("starting recruit agent on port %d (ai provider: %s)", cfg.Port, cfg.AIProvider)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Printf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
