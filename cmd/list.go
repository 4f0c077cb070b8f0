package cmd

import (
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"leads"},
	Short:   "List leads",
	Long: `Log in and print all leads as a table.

An empty table means either no leads exist or the tracker refused the
request; in the latter case a hint with the response status is printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := readCredentials(cmd)
		if err != nil {
			return err
		}

		dashboard, err := loginDashboard(cmd.Context(), creds)
		if err != nil {
			return err
		}

		renderLeads(cmd.OutOrStdout(), dashboard.LeadsResult())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
