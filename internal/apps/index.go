// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package apps

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// IndexEntry is one tracked application in the sqlite index.
type IndexEntry struct {
	Company string `json:"company"`
	Role    string `json:"role"`
	Status  string `json:"status"`
	Folder  string `json:"folder"`
}

// Index is the sqlite-backed registry of all applications, keyed
// case-insensitively by (company, role).
type Index struct {
	db *sql.DB
}

const indexSchema = `
CREATE TABLE IF NOT EXISTS applications (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	company    TEXT NOT NULL,
	role       TEXT NOT NULL,
	status     TEXT NOT NULL,
	folder     TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_applications_company_role
	ON applications (lower(company), lower(role));
`

// OpenIndex opens (creating if needed) the application index database.
func OpenIndex(path string) (*Index, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating index dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening index %s: %w", path, err)
	}
	if _, err := db.Exec(indexSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing index schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the underlying database handle.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Lookup returns the tracked application for (company, role), matched
// case-insensitively with surrounding whitespace ignored, or nil when the
// pair has never been tracked.
func (ix *Index) Lookup(company, role string) (*IndexEntry, error) {
	row := ix.db.QueryRow(
		`SELECT company, role, status, folder FROM applications
		 WHERE lower(trim(company)) = ? AND lower(trim(role)) = ?
		 ORDER BY id LIMIT 1`,
		normKey(company), normKey(role))

	var e IndexEntry
	err := row.Scan(&e.Company, &e.Role, &e.Status, &e.Folder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Insert records a new application.
func (ix *Index) Insert(e IndexEntry) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := ix.db.Exec(
		`INSERT INTO applications (company, role, status, folder, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Company, e.Role, e.Status, e.Folder, now, now)
	return err
}

// UpdateStatus changes the status of a tracked application by folder name.
func (ix *Index) UpdateStatus(folder, status string) error {
	if !IsValidStatus(status) {
		return fmt.Errorf("unknown application status %q", status)
	}
	res, err := ix.db.Exec(
		`UPDATE applications SET status = ?, updated_at = ? WHERE folder = ?`,
		status, time.Now().UTC().Format(time.RFC3339), folder)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no application with folder %q", folder)
	}
	return nil
}

// Entries returns every tracked application in insertion order.
func (ix *Index) Entries() ([]IndexEntry, error) {
	rows, err := ix.db.Query(`SELECT company, role, status, folder FROM applications ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []IndexEntry
	for rows.Next() {
		var e IndexEntry
		if err := rows.Scan(&e.Company, &e.Role, &e.Status, &e.Folder); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func normKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
