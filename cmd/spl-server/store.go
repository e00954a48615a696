package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ehr/spl/internal/config"
	"github.com/ehr/spl/internal/domain/label"
	"github.com/ehr/spl/internal/platform/db"
)

// store is the opened label backend plus what the health check needs.
type store struct {
	backend string
	repo    label.Repository
	pool    *pgxpool.Pool
	close   func()
}

func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*store, error) {
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := db.NewPool(ctx, db.PoolConfig{
			URL:      cfg.DatabaseURL,
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
			AppName:  "spl-server",
		})
		if err != nil {
			return nil, err
		}
		logger.Info().Msg("connected to database")
		return &store{backend: cfg.Store, repo: label.NewLabelRepoPG(pool), pool: pool, close: pool.Close}, nil

	case config.StoreSQLite:
		repo, err := label.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store %s: %w", cfg.SQLitePath, err)
		}
		logger.Info().Str("path", cfg.SQLitePath).Msg("opened sqlite store")
		return &store{backend: cfg.Store, repo: repo, close: func() { repo.Close() }}, nil

	case config.StoreMemory:
		return &store{backend: cfg.Store, repo: label.NewMemoryRepo(), close: func() {}}, nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}
