// Package store persists catalog records in a relational table.
//
// Backends register themselves by driver name; Open picks one from the
// configuration. Every backend owns the same fixed stars table layout,
// derived from core.StarFields.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/hygload/internal/core"
)

// DefaultTable is the destination table name.
const DefaultTable = "stars"

// KeyPolicy decides where the primary key of a stored star comes from.
type KeyPolicy string

const (
	// KeySource stores the catalog id as the primary key. Repeated ids are
	// rejected by the key constraint.
	KeySource KeyPolicy = "source"
	// KeyAuto lets the store assign the primary key and keeps the catalog
	// id in a source_id column.
	KeyAuto KeyPolicy = "auto"
)

// Store is the persistence component for catalog records.
type Store interface {
	core.RecordAppender

	// EnsureSchema creates the destination table if it does not exist.
	EnsureSchema(ctx context.Context) error

	// Count returns the number of stored rows.
	Count(ctx context.Context) (int64, error)

	// Close releases the store handle.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Driver         string        // Registered driver name: "sqlite" or "postgres"
	Path           string        // SQLite database file
	URL            string        // PostgreSQL connection string
	Table          string        // Destination table (default: stars)
	MaxConns       int           // PostgreSQL pool size
	ConnectTimeout time.Duration // Open and ping timeout
	KeyPolicy      KeyPolicy
}

func (c Config) withDefaults() Config {
	if c.Table == "" {
		c.Table = DefaultTable
	}
	if c.KeyPolicy == "" {
		c.KeyPolicy = KeySource
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.MaxConns <= 0 {
		c.MaxConns = 1
	}
	return c
}

// Open acquires a store handle for cfg.Driver. Failures wrap core.ErrFatal.
// The caller must Close the store on every exit path.
func Open(ctx context.Context, cfg Config) (Store, error) {
	cfg = cfg.withDefaults()

	open, ok := lookup(cfg.Driver)
	if !ok {
		return nil, core.Fatal("open store", fmt.Errorf("unknown store driver %q (known: %v)", cfg.Driver, Drivers()))
	}
	if cfg.KeyPolicy != KeySource && cfg.KeyPolicy != KeyAuto {
		return nil, core.Fatal("open store", fmt.Errorf("unknown key policy %q", cfg.KeyPolicy))
	}

	openCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	s, err := open(openCtx, cfg)
	if err != nil {
		return nil, core.Fatal("open store", err)
	}
	return s, nil
}
