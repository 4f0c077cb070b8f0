package internal

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const leadsSchema = `
CREATE TABLE IF NOT EXISTS leads (
	session_id    TEXT PRIMARY KEY,
	created_at    TEXT NOT NULL,
	ip            TEXT,
	device        TEXT,
	utm_source    TEXT,
	utm_medium    TEXT,
	utm_campaign  TEXT,
	referrer      TEXT,
	pages_visited TEXT,
	form_data     TEXT,
	chat_summary  TEXT
);
CREATE TABLE IF NOT EXISTS snapshot (
	generated_at TEXT NOT NULL,
	identity     TEXT
);`

// OpenDatabase opens (creating if needed) a SQLite database for writing
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// WriteSnapshot stores a snapshot's leads in a single transaction
func WriteSnapshot(db *sql.DB, snapshot *Snapshot) error {
	if _, err := db.Exec(leadsSchema); err != nil {
		return fmt.Errorf("create schema failed: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin failed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("INSERT INTO snapshot (generated_at, identity) VALUES (?, ?)",
		snapshot.GeneratedAt.UTC().Format(time.RFC3339), snapshot.Identity); err != nil {
		return fmt.Errorf("insert snapshot failed: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO leads (
		session_id, created_at, ip, device, utm_source, utm_medium,
		utm_campaign, referrer, pages_visited, form_data, chat_summary
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare failed: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, lead := range snapshot.Leads {
		values := lead.Values()
		args := make([]interface{}, len(values))
		for i, v := range values {
			args[i] = v
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert lead %s failed: %w", lead.SessionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}
