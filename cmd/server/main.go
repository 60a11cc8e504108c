package main

import (
	"context"
	"database/sql"
	"delivery-scenario-service/internal/adapters/repositories"
	"delivery-scenario-service/internal/api"
	"delivery-scenario-service/internal/config"
	"delivery-scenario-service/internal/platform/db"
	"delivery-scenario-service/internal/platform/logging"
	"delivery-scenario-service/internal/ports"
	"delivery-scenario-service/internal/services"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, ORS) behind ports and starts the HTTP server.
func main() {
	config.Load()
	log := logging.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defaults, err := config.LoadPlannerDefaults(config.Get("PLANNER_CONFIG", ""))
	if err != nil {
		log.Fatal().Err(err).Msg("load planner config")
	}
	opts, err := defaults.Options()
	if err != nil {
		log.Fatal().Err(err).Msg("planner config")
	}

	// The order store and Postgres matrix cache are optional for local runs.
	var sqlDB *sql.DB
	if databaseURL := config.Get("DATABASE_URL", ""); databaseURL != "" {
		sqlDB, err = db.Open(ctx, databaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("open database")
		}
		defer sqlDB.Close()
	}

	provider, closeProvider, err := buildProvider(sqlDB)
	if err != nil {
		log.Fatal().Err(err).Msg("build travel cost provider")
	}
	defer closeProvider()

	var repo ports.OrderRepository
	if sqlDB != nil {
		repo = repositories.NewPostgresOrderRepository(sqlDB)
	}

	planner := services.NewPlanner(provider, opts)
	router := api.NewRouter(planner, repo)

	port := config.Get("PORT", "8080")

	// Timeouts are tuned for cold-cache matrix fetches (external API latency).
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", srv.Addr).Msg("server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}
