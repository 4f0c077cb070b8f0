package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/lead-dashboard/internal"
	"github.com/iksnae/lead-dashboard/internal/export"
	"github.com/iksnae/lead-dashboard/testutil"
)

func TestExportCommand_Files(t *testing.T) {
	tests := []struct {
		name   string
		format string
		file   string
		want   []string
	}{
		{"markdown", "md", "leads.md", []string{"# Leads", "**Operator:** " + testutil.OperatorEmail, "**Leads:** 3"}},
		{"json", "json", "leads.json", []string{`"identity": "` + testutil.OperatorEmail + `"`, `"session_id": "s/3"`}},
		{"yaml", "yaml", "leads.yaml", []string{"session_id: s1", "device: tablet"}},
		{"jsonl", "jsonl", "leads.jsonl", []string{`"session_id":"s2"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := testutil.NewTrackerServer(t)
			path := filepath.Join(t.TempDir(), tt.file)

			_, err := runCommand(t, testutil.OperatorPassword+"\n",
				withLogin(ts, "export", "--format", tt.format, "--output", path)...)
			if err != nil {
				t.Fatalf("export error = %v", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read export: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(string(data), want) {
					t.Errorf("export missing %q:\n%s", want, data)
				}
			}
		})
	}
}

func TestExportCommand_Stdout(t *testing.T) {
	ts := testutil.NewTrackerServer(t)

	out, err := runCommand(t, testutil.OperatorPassword+"\n", withLogin(ts, "export")...)
	if err != nil {
		t.Fatalf("export error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Errorf("jsonl export produced %d lines, want 3:\n%s", len(lines), out)
	}
}

func TestExportCommand_SQLite(t *testing.T) {
	ts := testutil.NewTrackerServer(t)
	path := filepath.Join(t.TempDir(), "leads.db")

	_, err := runCommand(t, testutil.OperatorPassword+"\n",
		withLogin(ts, "export", "--format", "sqlite", "-o", path)...)
	if err != nil {
		t.Fatalf("export error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	db := testutil.OpenSQLiteBytes(t, data)
	if got := testutil.CountRows(t, db, "leads"); got != 3 {
		t.Errorf("leads rows = %d, want 3", got)
	}
}

func TestExportCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		setup   func(ts *testutil.TrackerServer)
		wantErr string
		wantReq int
	}{
		{
			name:    "invalid format",
			args:    []string{"export", "--format", "invalid"},
			wantErr: "unsupported format",
			wantReq: 0,
		},
		{
			name:    "leads unavailable",
			args:    []string{"export"},
			setup:   func(ts *testutil.TrackerServer) { ts.SetLeadsStatus(http.StatusInternalServerError) },
			wantErr: "leads unavailable, nothing exported",
			wantReq: 1,
		},
		{
			name:    "unwritable path",
			args:    []string{"export", "-o", filepath.Join(os.TempDir(), "missing-dir-for-export", "x", "leads.jsonl")},
			wantErr: "export error [jsonl]",
			wantReq: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := testutil.NewTrackerServer(t)
			if tt.setup != nil {
				tt.setup(ts)
			}

			_, err := runCommand(t, testutil.OperatorPassword+"\n", withLogin(ts, tt.args...)...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("export error = %v, want %q", err, tt.wantErr)
			}
			if n := ts.Requests("leads"); n != tt.wantReq {
				t.Errorf("leads requests = %d, want %d", n, tt.wantReq)
			}
		})
	}
}

func TestExportLeads_NotLoggedIn(t *testing.T) {
	dashboard := internal.NewDashboardFromConfig(&internal.Config{APIBase: "http://127.0.0.1:1/api"})
	exporter, err := export.NewExporter("json")
	if err != nil {
		t.Fatalf("NewExporter() error = %v", err)
	}

	var buf bytes.Buffer
	err = exportLeads(dashboard, exporter, "json", "", &buf)
	if !errors.Is(err, internal.ErrNotAuthenticated) {
		t.Errorf("exportLeads() error = %v, want ErrNotAuthenticated", err)
	}
	if buf.Len() != 0 {
		t.Errorf("exportLeads() wrote %d bytes, want none", buf.Len())
	}
}

// brokenExporter writes a partial document and then fails
type brokenExporter struct{}

func (brokenExporter) Export(snapshot *internal.Snapshot, w io.Writer) error {
	_, _ = io.WriteString(w, "{\"leads\": [")
	return errors.New("disk full")
}

func (brokenExporter) Extension() string { return "json" }

func TestExportLeads_FailedWriteRemovesFile(t *testing.T) {
	ts := testutil.NewTrackerServer(t)
	dashboard := internal.NewDashboardFromConfig(&internal.Config{APIBase: ts.BaseURL()})
	creds := internal.Credentials{Identity: testutil.OperatorEmail, Secret: testutil.OperatorPassword}
	if err := dashboard.Dispatch(context.Background(), internal.LoginSubmitted{Credentials: creds}); err != nil {
		t.Fatalf("Dispatch(LoginSubmitted) error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "leads.json")
	err := exportLeads(dashboard, brokenExporter{}, "json", path, io.Discard)

	var exportErr *internal.ExportError
	if !errors.As(err, &exportErr) {
		t.Fatalf("exportLeads() error = %v, want *ExportError", err)
	}
	if exportErr.Path != path {
		t.Errorf("ExportError.Path = %q, want %q", exportErr.Path, path)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("partial export left at %s (stat error %v)", path, statErr)
	}
}
