package export

import (
	"fmt"
	"io"

	"github.com/iksnae/lead-dashboard/internal"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(snapshot *internal.Snapshot, w io.Writer) error
	Extension() string
}

// Formats lists the supported format names
var Formats = []string{"jsonl", "json", "yaml", "md", "sqlite"}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "sqlite", "db":
		return &SQLiteExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json, sqlite)", format)
	}
}
