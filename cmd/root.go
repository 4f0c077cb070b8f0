package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/lead-dashboard/internal"
	"github.com/spf13/cobra"
)

var (
	verbose       bool
	apiBase       string
	loginEmail    string
	passwordStdin bool
	version       string = "dev"
	commit        string = "unknown"
	date          string = "unknown"

	// cfg is resolved once per invocation in PersistentPreRunE
	cfg *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lead-dashboard",
	Short: "Browse tracked leads and their journeys from the terminal",
	Long: `A read-only dashboard for the lead tracking API.

Log in with your operator account, review the collected leads in a table,
and drill into a single session's journey.

Features:
  • Interactive dashboard shell (login, leads, journey, logout)
  • One-shot commands for scripts
  • Export leads as JSONL, JSON, YAML, Markdown or SQLite

Quick Start:
  lead-dashboard dashboard                     # Interactive session
  lead-dashboard list --email ops@example.com  # Print the lead table
  lead-dashboard show <session-id>             # Print one journey
  lead-dashboard export --format md -o leads.md

Configuration:
  The API base URL comes from --api-base, then TRACKER_API_BASE
  (a .env file in the working directory is honored), then the default
  ` + internal.DefaultAPIBase,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)
		internal.UserAgent = "lead-dashboard/" + version
		internal.LoadDotEnv()

		loaded, err := internal.LoadConfig(apiBase)
		if err != nil {
			return err
		}
		cfg = loaded
		internal.LogDebug("Using API base %s", cfg.APIBase)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiBase, "api-base", "", "Tracker API base URL (overrides "+internal.APIBaseEnv+")")
	rootCmd.PersistentFlags().StringVar(&loginEmail, "email", "", "Operator username for login")
	rootCmd.PersistentFlags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from the first line of stdin")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
