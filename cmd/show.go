package cmd

import (
	"context"
	"fmt"

	"github.com/iksnae/lead-dashboard/internal"
	"github.com/spf13/cobra"
)

var showFormat string

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:     "show <session-id>",
	Aliases: []string{"journey"},
	Short:   "Show the journey for a specific session",
	Long:    `Log in and print the detailed journey document for one lead session.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]

		creds, err := readCredentials(cmd)
		if err != nil {
			return err
		}

		dashboard, err := loginDashboard(cmd.Context(), creds)
		if err != nil {
			return err
		}

		if !containsSession(dashboard.Leads(), sessionID) {
			internal.PrintWarning(fmt.Sprintf("Session %s is not in the current lead list", sessionID))
		}

		err = internal.ShowProgress(cmd.Context(), "Loading journey...", func(ctx context.Context) error {
			return dashboard.Dispatch(ctx, internal.SessionSelected{SessionID: sessionID})
		})
		if err != nil {
			return fmt.Errorf("failed to load journey: %w", err)
		}

		return renderJourney(cmd.OutOrStdout(), dashboard.Journey(), showFormat)
	},
}

func containsSession(leads []internal.Lead, sessionID string) bool {
	for _, lead := range leads {
		if lead.SessionID == sessionID {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "json", "Output format (json, yaml)")
}
