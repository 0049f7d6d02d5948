package store

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/hygload/internal/core"
	"github.com/jackc/pgx/v5/pgxpool"
)

func init() {
	Register("postgres", openPostgres)
}

// PostgresStore writes stars through a pgx connection pool. NaN is stored
// natively in double precision columns.
type PostgresStore struct {
	pool   *pgxpool.Pool
	table  string
	policy KeyPolicy
	insert string
}

func openPostgres(ctx context.Context, cfg Config) (Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("postgres store requires DATABASE_URL")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	// config.Validate bounds MaxConns well inside int32.
	poolConfig.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{
		pool:   pool,
		table:  cfg.Table,
		policy: cfg.KeyPolicy,
		insert: postgresDialect.insertSQL(cfg.Table, cfg.KeyPolicy),
	}, nil
}

// EnsureSchema creates the stars table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresDialect.createTableSQL(s.table, s.policy)); err != nil {
		return core.Fatal("create table "+s.table, err)
	}
	return nil
}

// Append inserts one star.
func (s *PostgresStore) Append(ctx context.Context, star core.Star) error {
	_, err := s.pool.Exec(ctx, s.insert, insertArgs(star, false)...)
	return err
}

// Count returns the number of stored rows.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, countSQL(s.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", s.table, err)
	}
	return n, nil
}

// Pool exposes the underlying pool for inspection.
func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
