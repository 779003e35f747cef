// Package lookupcache persists author and series name-to-id lookups in
// SQLite.
//
// Remote lookups are slow and rate-limited, so resolved ids are kept across
// runs. The store is an explicit object injected into the remote boundary by
// its constructor; there is no package-level state.
package lookupcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS author_lookup (
    name        TEXT PRIMARY KEY,
    author_id   TEXT NOT NULL,
    recorded_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS series_lookup (
    name        TEXT PRIMARY KEY,
    series_id   TEXT NOT NULL,
    recorded_at TEXT NOT NULL
);
`

// Store manages lookup persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the lookup database.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Author returns the cached id for an author name.
func (s *Store) Author(ctx context.Context, name string) (string, bool, error) {
	return s.get(ctx, "SELECT author_id FROM author_lookup WHERE name = ?", name)
}

// PutAuthor records an author name-to-id mapping.
func (s *Store) PutAuthor(ctx context.Context, name, id string) error {
	return s.put(ctx,
		"INSERT INTO author_lookup (name, author_id, recorded_at) VALUES (?, ?, ?) ON CONFLICT(name) DO UPDATE SET author_id = excluded.author_id, recorded_at = excluded.recorded_at",
		name, id)
}

// Series returns the cached id for a series name.
func (s *Store) Series(ctx context.Context, name string) (string, bool, error) {
	return s.get(ctx, "SELECT series_id FROM series_lookup WHERE name = ?", name)
}

// PutSeries records a series name-to-id mapping.
func (s *Store) PutSeries(ctx context.Context, name, id string) error {
	return s.put(ctx,
		"INSERT INTO series_lookup (name, series_id, recorded_at) VALUES (?, ?, ?) ON CONFLICT(name) DO UPDATE SET series_id = excluded.series_id, recorded_at = excluded.recorded_at",
		name, id)
}

func (s *Store) get(ctx context.Context, query, name string) (string, bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, query, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup %q: %w", name, err)
	}
	return id, true, nil
}

func (s *Store) put(ctx context.Context, query, name, id string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, query, name, id, timestamp); err != nil {
		return fmt.Errorf("record lookup %q: %w", name, err)
	}
	return nil
}
