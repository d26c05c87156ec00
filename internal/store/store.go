// Package store keeps a local SQLite cache of the last case snapshot
// fetched from the server, plus an audit trail of bulk and calendar
// actions. The cache is a convenience for offline browsing; the server
// remains the source of truth.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ecourts-tools/ecourts-console/internal/api"
)

// Store is the SQLite-backed local cache.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the cache database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	// Ensure target directory exists (e.g., ./data)
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open(sqliteDriver, dbPath+"?_journal_mode=WAL&_foreign_keys=off")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS snapshot_cases (
			cino TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS audit_entries (
			id TEXT PRIMARY KEY,
			action TEXT NOT NULL,
			scope TEXT,
			case_count INTEGER NOT NULL DEFAULT 0,
			details TEXT,
			created_at INTEGER NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_audit_created_at ON audit_entries(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_action ON audit_entries(action)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}
	return nil
}

// SaveSnapshot replaces the cached case list with the given one.
func (s *Store) SaveSnapshot(ctx context.Context, cases []api.Case) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshot_cases"); err != nil {
		return fmt.Errorf("clear previous snapshot: %w", err)
	}

	now := time.Now().Unix()
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO snapshot_cases (cino, data, fetched_at) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range cases {
		raw, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode case %s: %w", c.CINO, err)
		}
		if _, err := stmt.ExecContext(ctx, c.CINO, string(raw), now); err != nil {
			return fmt.Errorf("insert case %s: %w", c.CINO, err)
		}
	}

	return tx.Commit()
}

// LoadSnapshot returns the cached case list and when it was fetched. An
// empty cache returns an empty slice and a zero time, not an error.
func (s *Store) LoadSnapshot(ctx context.Context) ([]api.Case, time.Time, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT data, fetched_at FROM snapshot_cases ORDER BY cino")
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	var cases []api.Case
	var fetchedAt int64
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw, &fetchedAt); err != nil {
			return nil, time.Time{}, fmt.Errorf("scan snapshot row: %w", err)
		}
		var c api.Case
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, time.Time{}, fmt.Errorf("decode snapshot row: %w", err)
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("iterate snapshot: %w", err)
	}

	if fetchedAt == 0 {
		return cases, time.Time{}, nil
	}
	return cases, time.Unix(fetchedAt, 0), nil
}

// SnapshotCount returns the number of cached cases.
func (s *Store) SnapshotCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM snapshot_cases").Scan(&n); err != nil {
		return 0, fmt.Errorf("count snapshot: %w", err)
	}
	return n, nil
}
