// Package catalog persists a history of load attempts in SQLite so the
// per-file report survives restarts. Recording is best-effort diagnostics:
// a catalog failure never fails a load.
package catalog

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/observatorio-cat/observatorio/pkg/loader"
)

// Entry is one row of the load_history table.
type Entry struct {
	ID        int64  `json:"id"`
	File      string `json:"arquivo"`
	Rows      int    `json:"linhas"`
	Cols      int    `json:"colunas"`
	Encoding  string `json:"encoding"`
	Delimiter string `json:"separador"`
	Err       string `json:"erro,omitempty"`
	LoadedAt  int64  `json:"loaded_at"`
}

// LoadLog manages the load_history SQLite table.
type LoadLog struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the
// load_history table exists.
func Open(path string) (*LoadLog, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open load catalog: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS load_history (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		file       TEXT NOT NULL,
		rows       INTEGER NOT NULL DEFAULT 0,
		cols       INTEGER NOT NULL DEFAULT 0,
		encoding   TEXT NOT NULL DEFAULT '',
		delimiter  TEXT NOT NULL DEFAULT '',
		error      TEXT NOT NULL DEFAULT '',
		loaded_at  INTEGER NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create load_history table: %w", err)
	}

	return &LoadLog{db: db}, nil
}

// Close closes the SQLite connection.
func (l *LoadLog) Close() error { return l.db.Close() }

// Record persists one batch of file reports with a single timestamp.
func (l *LoadLog) Record(reports []loader.FileReport) error {
	const q = `INSERT INTO load_history (file, rows, cols, encoding, delimiter, error, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().Unix()
	for _, r := range reports {
		if _, err := l.db.Exec(q, r.File, r.Rows, r.Cols, r.Encoding, r.Delimiter, r.Err, now); err != nil {
			return fmt.Errorf("record %s: %w", r.File, err)
		}
	}
	return nil
}

// Recent returns the latest n entries, newest first.
func (l *LoadLog) Recent(n int) ([]Entry, error) {
	rows, err := l.db.Query(`SELECT id, file, rows, cols, encoding, delimiter, error, loaded_at
		FROM load_history ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("list load history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.File, &e.Rows, &e.Cols, &e.Encoding, &e.Delimiter, &e.Err, &e.LoadedAt); err != nil {
			return nil, fmt.Errorf("scan load history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
