package main

import (
	"context"
	"database/sql"
	"delivery-scenario-service/internal/adapters/repositories"
	"delivery-scenario-service/internal/config"
	"delivery-scenario-service/internal/platform/db"
	"delivery-scenario-service/internal/platform/logging"
	"errors"
	"fmt"
)

func main() {
	config.Load()
	log := logging.Get()

	if err := run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("dbtool failed")
	}
}

func run(ctx context.Context) error {
	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	sqlDB, err := db.Open(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/orders.json")
	return initAndSeed(ctx, sqlDB, seedPath)
}

func initAndSeed(ctx context.Context, sqlDB *sql.DB, seedPath string) error {
	log := logging.Get()

	log.Info().Msg("initializing database schema")
	if err := repositories.InitSchema(ctx, sqlDB); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Info().Msg("schema ready")

	log.Info().Str("path", seedPath).Msg("seeding database")
	if err := repositories.SeedFromJSON(ctx, sqlDB, seedPath); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Info().Msg("seeding complete")

	return nil
}
