package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iksnae/lead-dashboard/internal"
)

// SQLiteExporter writes a snapshot into a SQLite database file and streams
// the file to the writer.
type SQLiteExporter struct{}

// Export exports a snapshot to a SQLite database
func (e *SQLiteExporter) Export(snapshot *internal.Snapshot, w io.Writer) error {
	dir, err := os.MkdirTemp("", "lead-dashboard-export-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	path := filepath.Join(dir, "leads.db")
	db, err := internal.OpenDatabase(path)
	if err != nil {
		return err
	}

	if err := internal.WriteSnapshot(db, snapshot); err != nil {
		_ = db.Close()
		return err
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, err = io.Copy(w, f)
	return err
}

// Extension returns the file extension for this format
func (e *SQLiteExporter) Extension() string {
	return "db"
}
