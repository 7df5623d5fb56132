// Package store implements the document catalog and issuer directory: a
// SQLite-backed relational store keyed by (source, id) for documents and by
// edinet_code for issuers.
package store

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/komsit37/fast10k/internal/errs"
)

// Store wraps the SQLite connection. SQLite does not handle concurrent
// writers well, so the pool is capped at a single connection — every write
// is serialized through it, matching the single-writer discipline the rest
// of fast10k's concurrency model assumes.
type Store struct {
	db *sql.DB
}

// Open creates the database file's parent directory if needed, opens the
// connection, and applies the schema.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &errs.StoreError{Op: "create database directory", Err: err}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &errs.StoreError{Op: "open database", Err: err}
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, &errs.StoreError{Op: "configure database", Err: err}
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, &errs.StoreError{Op: "initialize schema", Err: err}
	}
	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
