// Package config provides centralized configuration for the catalog loader.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strings"
	"time"

	"github.com/JonMunkholm/hygload/internal/store"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Catalog CatalogConfig
	Store   StoreConfig
	Ingest  IngestConfig
	Status  StatusConfig
	Logging LoggingConfig
}

// CatalogConfig locates the input file.
type CatalogConfig struct {
	// Path is the HYG csv file to ingest (default: hygdata_v3.csv)
	Path string `env:"CATALOG_PATH" default:"hygdata_v3.csv"`
}

// StoreConfig holds destination store settings.
type StoreConfig struct {
	// Driver selects the backend: sqlite or postgres (default: sqlite)
	Driver string `env:"STORE_DRIVER" default:"sqlite"`

	// Path is the SQLite database file (default: hyg.sqlite)
	Path string `env:"STORE_PATH" default:"hyg.sqlite"`

	// Table is the destination table (default: stars)
	Table string `env:"STORE_TABLE" default:"stars"`

	// URL is the PostgreSQL connection string (required for postgres)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of pooled PostgreSQL connections (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// ConnectTimeout bounds opening and pinging the store (default: 10s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"10s"`
}

// IngestConfig holds pipeline settings.
type IngestConfig struct {
	// KeyPolicy is source (catalog id is the primary key) or auto (default: source)
	KeyPolicy string `env:"INGEST_KEY_POLICY" default:"source"`

	// ProgressStep is the percentage between progress log lines (default: 5)
	ProgressStep int `env:"INGEST_PROGRESS_STEP" default:"5"`

	// MaxFailedRows is the number of rejected lines kept in the report (default: 1000)
	MaxFailedRows int `env:"INGEST_MAX_FAILED_ROWS" default:"1000"`

	// FailedRowsPath optionally receives rejected lines as csv
	FailedRowsPath string `env:"INGEST_FAILED_ROWS_PATH"`
}

// StatusConfig holds the optional status server settings.
type StatusConfig struct {
	// Addr is the listen address; empty disables the server
	Addr string `env:"STATUS_ADDR"`

	// ShutdownTimeout bounds the server shutdown (default: 5s)
	ShutdownTimeout time.Duration `env:"STATUS_SHUTDOWN_TIMEOUT" default:"5s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// StoreOptions converts the configuration into store.Open settings.
func (c *Config) StoreOptions() store.Config {
	return store.Config{
		Driver:         strings.ToLower(c.Store.Driver),
		Path:           c.Store.Path,
		URL:            c.Store.URL,
		Table:          c.Store.Table,
		MaxConns:       c.Store.MaxConns,
		ConnectTimeout: c.Store.ConnectTimeout,
		KeyPolicy:      store.KeyPolicy(c.Ingest.KeyPolicy),
	}
}
