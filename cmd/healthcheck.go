package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/lead-dashboard/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckTimeout time.Duration
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that the tracker API is configured and reachable",
	Long: `Check the health of lead-dashboard by verifying:
  • The API base URL configuration
  • That the tracker answers HTTP requests

No credentials are needed; an unauthenticated request is expected to be
refused, which still proves the tracker is reachable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, sectionStyle.Render("🔍 Lead Dashboard Health Check"))
		_, _ = fmt.Fprintln(out)

		// Step 1: Configuration
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 1: Checking configuration..."))
		_, _ = fmt.Fprintln(out, successStyle.Render("✅ API base: "+cfg.APIBase))
		_, _ = fmt.Fprintln(out)

		// Step 2: Reachability
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 2: Contacting tracker..."))
		ctx, cancel := context.WithTimeout(cmd.Context(), healthcheckTimeout)
		defer cancel()

		client := internal.NewAPIClient(cfg.APIBase, nil)
		status, err := client.Ping(ctx)
		if err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Tracker unreachable:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Tracker answered with status %d", status)))
		_, _ = fmt.Fprintln(out)

		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().DurationVar(&healthcheckTimeout, "timeout", 10*time.Second, "How long to wait for the tracker")
}
