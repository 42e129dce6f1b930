package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/config"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/db"
)

// InitStore selects and returns the configured store backend. The returned
// close func releases the connection pool.
func InitStore(ctx context.Context, cfg *config.Config) (db.Store, func(), error) {
	if cfg.StoreDriver == "memory" {
		log.Warn().Msg("using the in-memory store; data is lost on exit")
		return db.NewMemoryStore(), func() {}, nil
	}

	conn, err := db.Init(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("db init: %w", err)
	}
	if err := db.RunMigrations(ctx, conn, cfg.MigrationsPath); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("db migrate: %w", err)
	}
	log.Info().Str("migrations", cfg.MigrationsPath).Msg("using postgres store")
	return db.NewStore(conn), func() { conn.Close() }, nil
}
