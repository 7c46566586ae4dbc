package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const createDraftsTable = `
CREATE TABLE IF NOT EXISTS drafts (
	slot    TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);`

// SQLiteKV is a durable KV backend for drafts, one row per form slot. It is
// device-local by construction: the database file lives in the user's profile
// directory and is never synced.
type SQLiteKV struct {
	db *sql.DB
}

// OpenSQLite opens (creating if necessary) the draft database at path.
func OpenSQLite(path string) (*SQLiteKV, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("draft: sqlite path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("draft: open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("draft: ping sqlite db: %w", err)
	}
	if _, err := db.Exec(createDraftsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("draft: create drafts table: %w", err)
	}
	return &SQLiteKV{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteKV) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the payload stored for key.
func (s *SQLiteKV) Get(ctx context.Context, key string) (string, bool, error) {
	if s == nil || s.db == nil {
		return "", false, errors.New("draft: sqlite backend is not configured")
	}
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM drafts WHERE slot = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("draft: read slot %q: %w", key, err)
	}
	return payload, true, nil
}

// Set overwrites the payload stored for key.
func (s *SQLiteKV) Set(ctx context.Context, key, value string) error {
	if s == nil || s.db == nil {
		return errors.New("draft: sqlite backend is not configured")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO drafts (slot, payload, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		ON CONFLICT(slot) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("draft: write slot %q: %w", key, err)
	}
	return nil
}

// Remove deletes the payload stored for key; missing keys are a no-op.
func (s *SQLiteKV) Remove(ctx context.Context, key string) error {
	if s == nil || s.db == nil {
		return errors.New("draft: sqlite backend is not configured")
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE slot = ?`, key); err != nil {
		return fmt.Errorf("draft: remove slot %q: %w", key, err)
	}
	return nil
}

var _ KV = (*SQLiteKV)(nil)
