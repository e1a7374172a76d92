package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/transportguide-api/internal/common/alert"
	"github.com/transportguide-api/internal/common/config"
	"github.com/transportguide-api/internal/common/db"
	"github.com/transportguide-api/internal/common/logger"
	"github.com/transportguide-api/internal/engine"
	"github.com/transportguide-api/internal/refresh"
	"github.com/transportguide-api/internal/server"
	"github.com/transportguide-api/internal/store/postgres"
)

func main() {
	// Load .env file if it exists; real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(
		logger.ParseLevel(cfg.Logging.Level),
		logger.ConsoleWriter(),
		logger.FileWriter(cfg.Logging.FilePath),
	)

	log.Info("Transport Guide API starting",
		"version", "1.0.0",
		"log_level", cfg.Logging.Level,
		"refresh_interval", cfg.Routing.RefreshInterval,
	)

	// Validate database configuration
	if err := cfg.Database.Validate(); err != nil {
		log.Fatal("Invalid database configuration", "error", err)
	}

	// Connect to database
	database, err := db.New(cfg.Database.ConnectionString(), log)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	store := postgres.New(database)
	planner := engine.NewPlanner(store, log)
	notifier := alert.NewNotifier(cfg.Routing.AlertWebhookURL)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The service refuses to start without a graph: queries must never run
	// against absent routing data.
	if err := buildWithRetry(ctx, planner, cfg.Routing, log); err != nil {
		log.Fatal("Initial graph build failed", "error", err)
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup

	// Keep the graph in step with route/stop data changes
	scheduler := refresh.NewScheduler(cfg.Routing.RefreshInterval, planner, store, notifier, log)
	wg.Add(1)
	go func(s *refresh.Scheduler) {
		defer wg.Done()
		if err := s.Start(ctx); err != nil {
			log.Error("Graph refresh scheduler error", "error", err)
		}
	}(scheduler)

	// Serve the HTTP API
	srv := server.New(planner, cfg.Server.FrontendURL, log)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.Router(),
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("HTTP server listening", "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	// Cancel context to stop the scheduler
	cancel()
	wg.Wait()

	log.Info("Transport Guide API stopped")
}

// buildWithRetry attempts the initial graph build a few times before giving
// up, covering the case where the database comes up after the service.
func buildWithRetry(ctx context.Context, planner *engine.Planner, cfg config.RoutingConfig, log logger.Logger) error {
	var err error
	for attempt := 1; attempt <= cfg.BuildRetries; attempt++ {
		log.Info("Building transit graph", "attempt", attempt, "max_attempts", cfg.BuildRetries)
		if err = planner.Rebuild(ctx); err == nil {
			return nil
		}
		log.Error("Graph build failed", "attempt", attempt, "error", err)

		if attempt < cfg.BuildRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cfg.BuildRetryWait):
			}
		}
	}
	return err
}
