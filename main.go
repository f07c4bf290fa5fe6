package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/exercise-tracker/internal/api"
	"github.com/isdelr/exercise-tracker/internal/config"
	"github.com/isdelr/exercise-tracker/internal/database"
	"github.com/isdelr/exercise-tracker/internal/logger"
	"github.com/isdelr/exercise-tracker/internal/monitoring"
	"github.com/isdelr/exercise-tracker/internal/query"
	"github.com/isdelr/exercise-tracker/internal/services"
	"github.com/isdelr/exercise-tracker/internal/store"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	exerciseStore := store.NewSQLiteStore(db)
	engine := query.NewEngine(query.Options{LimitBeforeFilter: cfg.LimitBeforeFilter}, time.Now)
	exerciseService := services.NewExerciseService(exerciseStore, engine,
		services.WithCreateIfMissing(cfg.AppendCreateMissing))

	// Set up and run the background store maintenance
	maintenance, err := monitoring.NewMaintenance(exerciseStore, cfg.MaintenanceCron)
	if err != nil {
		log.Fatal().Err(err).Str("spec", cfg.MaintenanceCron).Msg("Invalid maintenance schedule")
	}
	go maintenance.Run()

	// Set up router
	router := api.NewRouter(exerciseService, cfg.CORSAllowedOrigins)

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().
			Int("port", cfg.ServerPort).
			Bool("limit_before_filter", cfg.LimitBeforeFilter).
			Bool("append_create_missing", cfg.AppendCreateMissing).
			Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	maintenance.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
