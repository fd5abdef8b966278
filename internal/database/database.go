package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationName = "craftopia-api"

// PostgresOptions configures the document pool. Zero durations fall back to
// the package defaults.
type PostgresOptions struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

type DB struct {
	Pool *pgxpool.Pool
}

// PoolStats is the slice of pgxpool statistics logged at startup.
type PoolStats struct {
	Total    int32
	Idle     int32
	Acquired int32
}

// Open creates the pool and fails unless the server answers a ping.
func Open(ctx context.Context, opts PostgresOptions) (*DB, error) {
	cfg, err := poolConfig(opts)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	db := &DB{Pool: pool}
	if err := db.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	slog.Info("postgres connected",
		slog.Group("pool", "max_conns", cfg.MaxConns, "min_conns", cfg.MinConns, "max_conn_lifetime", cfg.MaxConnLifetime))
	return db, nil
}

func poolConfig(opts PostgresOptions) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if opts.MaxConns <= 0 || opts.MinConns < 0 || opts.MinConns > opts.MaxConns {
		return nil, fmt.Errorf("invalid pool bounds: min %d, max %d", opts.MinConns, opts.MaxConns)
	}

	cfg.MaxConns = opts.MaxConns
	cfg.MinConns = opts.MinConns
	cfg.MaxConnLifetime = orDefault(opts.MaxConnLifetime, 30*time.Minute)
	cfg.MaxConnIdleTime = orDefault(opts.MaxConnIdleTime, 5*time.Minute)
	cfg.HealthCheckPeriod = 30 * time.Second

	if _, ok := cfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		cfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	return cfg, nil
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func (db *DB) Stats() PoolStats {
	s := db.Pool.Stat()
	return PoolStats{Total: s.TotalConns(), Idle: s.IdleConns(), Acquired: s.AcquiredConns()}
}

func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
