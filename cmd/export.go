package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/iksnae/lead-dashboard/internal"
	"github.com/iksnae/lead-dashboard/internal/export"
	"github.com/spf13/cobra"
)

var (
	format     string
	outputPath string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export leads to a file",
	Long: `Export the current leads to one of: jsonl, json, yaml, md, sqlite.

Without --output the export is written to stdout (except sqlite, which
needs a file unless stdout is redirected).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}
		if outputPath == "" && exporter.Extension() == "db" && internal.IsTerminal(os.Stdout) {
			return fmt.Errorf("refusing to write a SQLite database to the terminal; use --output")
		}

		creds, err := readCredentials(cmd)
		if err != nil {
			return err
		}

		dashboard, err := loginDashboard(cmd.Context(), creds)
		if err != nil {
			return err
		}

		if err := exportLeads(dashboard, exporter, format, outputPath, cmd.OutOrStdout()); err != nil {
			return err
		}
		if outputPath != "" {
			internal.PrintSuccess(fmt.Sprintf("Exported %d lead(s) to %s", len(dashboard.Leads()), outputPath))
		}
		return nil
	},
}

// exportLeads writes the dashboard's leads with exporter to path, or to stdout when path is empty.
// A failed retrieval is not exported as an empty file.
func exportLeads(dashboard *internal.Dashboard, exporter export.Exporter, format, path string, stdout io.Writer) error {
	result := dashboard.LeadsResult()
	if result == nil {
		return internal.ErrNotAuthenticated
	}
	if result.Failed() {
		return fmt.Errorf("leads unavailable, nothing exported: %w", result.Err())
	}

	snapshot := internal.NewSnapshot(dashboard.Session().Identity, result.Leads)

	if path == "" {
		if err := exporter.Export(snapshot, stdout); err != nil {
			return &internal.ExportError{Format: format, Path: "stdout", Err: err}
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	if err := exporter.Export(snapshot, f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}

	internal.LogInfo("Exported %d lead(s) to %s", len(result.Leads), path)
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, json, yaml, md, sqlite)")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: stdout)")
}
