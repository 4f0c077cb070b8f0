package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/iksnae/lead-dashboard/internal"
	"gopkg.in/yaml.v3"
)

const maxCellWidth = 40

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	journeyHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)
)

// renderLeads prints the lead table, or the no-data notice
func renderLeads(w io.Writer, result *internal.LeadsResult) {
	if result == nil || len(result.Leads) == 0 {
		_, _ = fmt.Fprintln(w, warningStyle.Render("No leads data available."))
		if result != nil && result.Failed() {
			_, _ = fmt.Fprintln(w, idStyle.Render(failureHint(result.Outcome, result.Status)))
		}
		return
	}

	_, _ = fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("📊 %d lead(s)", len(result.Leads))))
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, leadsTable(result.Leads))
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, idStyle.Render("💡 Tip: view a journey with `journey <session-id>` or `journey <row#>`"))
}

// leadsTable builds the lipgloss table for a set of leads
func leadsTable(leads []internal.Lead) string {
	rows := make([][]string, 0, len(leads))
	for i, lead := range leads {
		values := lead.Values()
		values[1] = formatCreated(lead.CreatedAt)
		for j := range values {
			values[j] = truncate(values[j], maxCellWidth)
		}
		rows = append(rows, append([]string{fmt.Sprintf("%d", i+1)}, values...))
	}

	headers := append([]string{"#"}, internal.LeadColumns...)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return titleStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	return t.Render()
}

// renderJourney prints one journey document as indented JSON or YAML
func renderJourney(w io.Writer, result *internal.JourneyResult, format string) error {
	_, _ = fmt.Fprintln(w, journeyHeaderStyle.Render("👣 Lead Journey "+result.Journey.SessionID))
	if result.Failed() {
		_, _ = fmt.Fprintln(w, idStyle.Render(failureHint(result.Outcome, result.Status)))
	}

	switch format {
	case "", "json":
		_, _ = fmt.Fprintln(w, result.Journey.Indented())
		return nil
	case "yaml":
		doc, err := result.Journey.Decode()
		if err != nil {
			return fmt.Errorf("failed to decode journey: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unsupported journey format: %s (supported: json, yaml)", format)
	}
}

// failureHint explains why a result is empty without exposing remote details
func failureHint(outcome internal.Outcome, status int) string {
	switch outcome {
	case internal.OutcomeUnauthorized:
		return fmt.Sprintf("The tracker refused the request (status %d). Your session may have expired; log in again.", status)
	case internal.OutcomeUnavailable:
		if status == 0 {
			return "The tracker could not be reached."
		}
		return fmt.Sprintf("The tracker returned status %d.", status)
	default:
		return ""
	}
}

func formatCreated(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

// truncate shortens s to at most width runes, keeping it on one line
func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
