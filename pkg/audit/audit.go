// Package audit keeps a sqlite trail of organize, undo, and redo
// runs. The trail is bookkeeping only: it is written best-effort and
// never participates in the undo/redo state machine.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Trail is the audit database.
type Trail struct {
	db *sql.DB
}

// Run is one recorded operation.
type Run struct {
	ID        int64
	Root      string
	Mode      string
	Op        string
	Moved     int
	CreatedAt time.Time
}

// Open opens (creating if needed) the trail database at dbPath.
func Open(dbPath string) (*Trail, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	t := &Trail{db: db}
	if err := t.init(); err != nil {
		db.Close()
		return nil, err
	}
	return t, nil
}

func (t *Trail) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root TEXT NOT NULL,
		mode TEXT NOT NULL,
		op TEXT NOT NULL,
		moved INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_root ON runs(root);
	`
	_, err := t.db.Exec(schema)
	return err
}

// Record inserts one run row.
func (t *Trail) Record(root, mode, op string, moved int) error {
	_, err := t.db.Exec(
		"INSERT INTO runs (root, mode, op, moved, created_at) VALUES (?, ?, ?, ?, ?)",
		root, mode, op, moved, time.Now().UTC(),
	)
	return err
}

// List returns the most recent runs, newest first.
func (t *Trail) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := t.db.Query(
		"SELECT id, root, mode, op, moved, created_at FROM runs ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Root, &r.Mode, &r.Op, &r.Moved, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close closes the database.
func (t *Trail) Close() error {
	return t.db.Close()
}
