package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/lead-dashboard/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	tests := []struct {
		name     string
		snapshot *internal.Snapshot
		want     []string
	}{
		{
			name:     "with leads",
			snapshot: internal.CreateTestSnapshot("ops@example.com", "s1"),
			want: []string{
				"identity: ops@example.com",
				"session_id: s1",
				"chat_summary: Asked about pricing",
			},
		},
		{
			name:     "empty",
			snapshot: internal.CreateTestSnapshot(""),
			want:     []string{"leads: []"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &YAMLExporter{}
			if err := exporter.Export(tt.snapshot, &buf); err != nil {
				t.Fatalf("Export() error = %v", err)
			}

			output := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(output, want) {
					t.Errorf("Export() output missing %q:\n%s", want, output)
				}
			}

			var decoded map[string]interface{}
			if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
				t.Errorf("output is not valid YAML: %v", err)
			}
		})
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	if got := (&YAMLExporter{}).Extension(); got != "yaml" {
		t.Errorf("Extension() = %q, want yaml", got)
	}
}
