package app

import (
	"context"
	"fmt"
	"log/slog"

	"craftopia-api/internal/config"
	"craftopia-api/internal/database"
	"craftopia-api/internal/store"
)

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case store.DriverMongo:
		slog.Info("connecting to MongoDB", "database", cfg.MongoDatabase)
		client, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoConnectTimeout)
		if err != nil {
			return nil, err
		}
		return store.NewMongo(client, cfg.MongoDatabase), nil

	case store.DriverPostgres:
		slog.Info("connecting to PostgreSQL")
		db, err := database.Open(ctx, database.PostgresOptions{
			URL:             cfg.DatabaseURL,
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnLifetime: cfg.DBMaxConnLifetime,
		})
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure database schema: %w", err)
		}
		stats := db.Stats()
		slog.Info("database ready", "total_conns", stats.Total, "idle_conns", stats.Idle)
		return store.NewPostgres(db.Pool), nil

	case store.DriverMemory:
		slog.Warn("using in-memory store, data is lost on restart")
		return store.NewMemory(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
