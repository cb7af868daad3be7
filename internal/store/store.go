// Package store is the persistent side of the engine: profiles, daily
// plans, the append-only quest history, and the completion-request log.
// The production app fronts a hosted document store with the same
// contract; this implementation backs it with SQLite so the engine and
// its CLI run self-contained.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// ErrNotFound reports an absent document. Absence is an expected state,
// not an exception: callers branch on it with errors.Is.
var ErrNotFound = errors.New("not found")

// Store wraps the database and hands out repositories.
type Store struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at dsn, applies pragmas, and
// creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite allows one writer; serialize through a single connection.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Profiles returns the profile repository.
func (s *Store) Profiles() *ProfileRepo { return &ProfileRepo{db: s.db} }

// History returns the quest-history repository.
func (s *Store) History() *HistoryRepo { return &HistoryRepo{db: s.db} }

// Plans returns the daily-plan repository.
func (s *Store) Plans() *PlanRepo { return &PlanRepo{db: s.db} }

// RequestLog returns the completion-request log repository.
func (s *Store) RequestLog() *RequestLogRepo { return &RequestLogRepo{db: s.db} }

func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// CLIMBYOU_DB, then $XDG_DATA_HOME/climbyou/climbyou.db, then
// ~/.local/share/climbyou/climbyou.db.
func DefaultDBPath() (string, error) {
	if p := os.Getenv("CLIMBYOU_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "climbyou", "climbyou.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if missing.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
