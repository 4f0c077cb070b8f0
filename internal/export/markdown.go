package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iksnae/lead-dashboard/internal"
)

// MarkdownExporter exports snapshots as a Markdown table
type MarkdownExporter struct{}

// Export exports a snapshot to Markdown format
func (e *MarkdownExporter) Export(snapshot *internal.Snapshot, w io.Writer) error {
	// Header
	_, _ = fmt.Fprintf(w, "# Leads\n\n")
	_, _ = fmt.Fprintf(w, "**Generated:** %s  \n", snapshot.GeneratedAt.UTC().Format(time.RFC3339))
	if snapshot.Identity != "" {
		_, _ = fmt.Fprintf(w, "**Operator:** %s  \n", snapshot.Identity)
	}
	_, _ = fmt.Fprintf(w, "**Leads:** %d\n\n", len(snapshot.Leads))

	if len(snapshot.Leads) == 0 {
		_, _ = fmt.Fprintf(w, "_No leads data available._\n")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(internal.LeadColumns, " | "))
	separators := make([]string, len(internal.LeadColumns))
	for i := range separators {
		separators[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(separators, " | "))

	for _, lead := range snapshot.Leads {
		values := lead.Values()
		for i, v := range values {
			values[i] = escapeCell(v)
		}
		if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(values, " | ")); err != nil {
			return err
		}
	}

	return nil
}

// escapeCell keeps a value inside one table cell
func escapeCell(text string) string {
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, "|", "\\|")
	text = strings.ReplaceAll(text, "\r\n", "<br>")
	text = strings.ReplaceAll(text, "\n", "<br>")
	return text
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
