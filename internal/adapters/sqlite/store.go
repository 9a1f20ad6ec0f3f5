// Package sqlite implements ports.Store on an embedded SQLite database.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/zerr"
)

//go:embed schema.sql
var schemaSQL string

// Schema versions:
// 1 - identities, id_mappings, entities
// 2 - owner/sort index for latest-first listings
const currentSchemaVersion = 2

var _ ports.Store = (*Store)(nil)

// Store is a SQLite-backed ports.Store. It uses WAL mode with a single
// connection, so statements from concurrent callers are serialized.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for insertion times and age checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open creates or opens the database at path, applying pragmas and migrations.
// The parent directory is created when missing. Use ":memory:" for a
// throwaway database.
func Open(path string, opts ...Option) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrStoreOpenFailed, err.Error()), "path", path)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreOpenFailed, err.Error()), "path", path)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreOpenFailed, err.Error()), "path", path)
	}

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreOpenFailed, err.Error()), "path", path)
	}
	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreOpenFailed, err.Error()), "path", path)
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version < 2 {
		_, err := db.Exec(`
			CREATE INDEX IF NOT EXISTS idx_entities_owner_sort
			ON entities(kind, owner, sort_key DESC)
		`)
		if err != nil {
			return fmt.Errorf("migrate to v2: %w", err)
		}
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

func readErr(err error, table string) error {
	return zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "table", table)
}

func writeErr(err error, table string) error {
	return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "table", table)
}
