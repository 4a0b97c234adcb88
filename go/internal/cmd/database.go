package main

import (
	"context"
	"fmt"

	"github.com/mcdev12/sportsball/go/internal/store"
	"github.com/mcdev12/sportsball/go/internal/store/memory"
	"github.com/mcdev12/sportsball/go/internal/store/postgres"
	"github.com/rs/zerolog/log"
)

// setupStore opens the configured storage driver. The returned func releases it.
func setupStore(ctx context.Context, cfg *Config) (store.UnitOfWork, func(), error) {
	if cfg.Storage.Driver == driverMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return memory.New(), func() {}, nil
	}

	pg, err := postgres.NewStore(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("database", cfg.Database.Database).
		Msg("connected to database")
	return pg, pg.Close, nil
}
