package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fmuoria/recruit-agent/internal/config"
	"github.com/fmuoria/recruit-agent/internal/ingestion"
)

var gmailAuthCommand = &cobra.Command{
	Use:   "gmail-auth",
	Short: "Authorize read-only Gmail access for resume ingestion",
	Long: `Prints the Google consent URL, reads the authorization code from stdin
and stores the resulting token at gmail_token_path.`,
	RunE: runGmailAuth,
}

func init() {
	rootCmd.AddCommand(gmailAuthCommand)
}

func runGmailAuth(cmd *cobra.Command, _ []string) error {
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
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if !cfg.GmailEnabled() {
		return fmt.Errorf("gmail_credentials_path (or GMAIL_CREDENTIALS) is not set")
	}

	oauthConfig, err := ingestion.LoadOAuthConfig(cfg.GmailCredentialsPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Go to the following link in your browser:\n%s\n\n", ingestion.AuthCodeURL(oauthConfig))
	fmt.Fprint(out, "Enter authorization code: ")

	code, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && code == "" {
		return fmt.Errorf("unable to read authorization code: %w", err)
	}
	if err := ingestion.ExchangeAndSave(cmd.Context(), oauthConfig, strings.TrimSpace(code), cfg.GmailTokenPath); err != nil {
		return err
	}
	fmt.Fprintf(out, "Token saved to %s\n", cfg.GmailTokenPath)
	return nil
}
