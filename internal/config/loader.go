package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/hygload/internal/store"
)

// MaxPoolConns caps DB_MAX_CONNS; the pool size is an int32.
const MaxPoolConns = 1000

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		// Get tags
		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		// Apply default if not set
		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		// Set the field value
		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Catalog validation
	if strings.TrimSpace(c.Catalog.Path) == "" {
		errs = append(errs, "CATALOG_PATH must not be empty")
	}

	// Store validation
	switch strings.ToLower(c.Store.Driver) {
	case "sqlite":
		if strings.TrimSpace(c.Store.Path) == "" {
			errs = append(errs, "STORE_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.Store.URL == "" {
			errs = append(errs, "DATABASE_URL is required for the postgres driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("STORE_DRIVER (%q) must be one of: sqlite, postgres", c.Store.Driver))
	}
	if c.Store.MaxConns <= 0 || c.Store.MaxConns > MaxPoolConns {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be 1-%d", c.Store.MaxConns, MaxPoolConns))
	}
	if c.Store.Table == "" {
		errs = append(errs, "STORE_TABLE must not be empty")
	}
	if c.Store.ConnectTimeout <= 0 {
		errs = append(errs, "DB_CONNECT_TIMEOUT must be positive")
	}

	// Ingest validation
	switch store.KeyPolicy(c.Ingest.KeyPolicy) {
	case store.KeySource, store.KeyAuto:
	default:
		errs = append(errs, fmt.Sprintf("INGEST_KEY_POLICY (%q) must be one of: source, auto", c.Ingest.KeyPolicy))
	}
	if c.Ingest.ProgressStep <= 0 || c.Ingest.ProgressStep > 100 {
		errs = append(errs, fmt.Sprintf("INGEST_PROGRESS_STEP (%d) must be 1-100", c.Ingest.ProgressStep))
	}
	if c.Ingest.MaxFailedRows < 0 {
		errs = append(errs, "INGEST_MAX_FAILED_ROWS must be non-negative")
	}

	// Status validation
	if c.Status.Addr != "" && c.Status.ShutdownTimeout <= 0 {
		errs = append(errs, "STATUS_SHUTDOWN_TIMEOUT must be positive")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// The database URL is masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Catalog: {Path: %q}, ", c.Catalog.Path))
	b.WriteString(fmt.Sprintf("Store: {Driver: %q, Path: %q, Table: %q, URL: [MASKED], MaxConns: %d}, ",
		c.Store.Driver, c.Store.Path, c.Store.Table, c.Store.MaxConns))
	b.WriteString(fmt.Sprintf("Ingest: {KeyPolicy: %q, ProgressStep: %d, MaxFailedRows: %d}, ",
		c.Ingest.KeyPolicy, c.Ingest.ProgressStep, c.Ingest.MaxFailedRows))
	b.WriteString(fmt.Sprintf("Status: {Addr: %q}, ", c.Status.Addr))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
