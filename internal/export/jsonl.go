package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/lead-dashboard/internal"
)

// JSONLExporter exports snapshots in JSONL format (one lead per line)
type JSONLExporter struct{}

// Export exports a snapshot to JSONL format
func (e *JSONLExporter) Export(snapshot *internal.Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, lead := range snapshot.Leads {
		if err := enc.Encode(lead); err != nil {
			return fmt.Errorf("failed to encode lead %s: %w", lead.SessionID, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
