package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/lead-dashboard/internal"
)

// JSONExporter exports snapshots in JSON format (pretty-printed)
type JSONExporter struct{}

// Export exports a snapshot to JSON format
func (e *JSONExporter) Export(snapshot *internal.Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	return enc.Encode(snapshot)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
