package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/hygload/internal/core"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

func init() {
	Register("sqlite", openSQLite)
}

// SQLiteStore writes stars to a single SQLite file. SQLite cannot hold NaN,
// so absent nullable floats are stored as NULL.
type SQLiteStore struct {
	db     *sql.DB
	table  string
	policy KeyPolicy
	insert string
}

func openSQLite(ctx context.Context, cfg Config) (Store, error) {
	path := cfg.Path
	if path == "" {
		path = "hyg.sqlite"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer, one connection: pragmas stay applied for the whole run.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite %q: %w", pragma, err)
		}
	}

	return &SQLiteStore{
		db:     db,
		table:  cfg.Table,
		policy: cfg.KeyPolicy,
		insert: sqliteDialect.insertSQL(cfg.Table, cfg.KeyPolicy),
	}, nil
}

// EnsureSchema creates the stars table if it does not exist.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteDialect.createTableSQL(s.table, s.policy)); err != nil {
		return core.Fatal("create table "+s.table, err)
	}
	return nil
}

// Append inserts one star.
func (s *SQLiteStore) Append(ctx context.Context, star core.Star) error {
	_, err := s.db.ExecContext(ctx, s.insert, insertArgs(star, true)...)
	return err
}

// Count returns the number of stored rows.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, countSQL(s.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", s.table, err)
	}
	return n, nil
}

// DB exposes the underlying handle for inspection.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
