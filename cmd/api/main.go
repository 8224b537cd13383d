// Command api is the SportSync feed server.
//
// Usage:
//
//	sportsync-api
//	API_PORT=8080 sportsync-api

// @title SportSync Feed API
// @version 1.0.0
// @description Aggregated, deduplicated sports-broadcast schedule feed merged from Swedish TV guide sources.
// @host localhost:8000
// @BasePath /
// @schemes http https
// @contact.name SportSync
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sportsync/sportsync/internal/aggregator"
	"github.com/sportsync/sportsync/internal/api"
	"github.com/sportsync/sportsync/internal/config"
	"github.com/sportsync/sportsync/internal/feed"
	"github.com/sportsync/sportsync/internal/metrics"
	"github.com/sportsync/sportsync/internal/provider"
	"github.com/sportsync/sportsync/internal/provider/tvmatchen"
	"github.com/sportsync/sportsync/internal/provider/tvsporten"
	"github.com/sportsync/sportsync/internal/scheduler"

	_ "github.com/sportsync/sportsync/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Snapshot cache, with optional last-known-good restore
	cache := feed.NewCache(cfg.SnapshotTTL, cfg.SnapshotPath, logger)
	if err := cache.LoadFromDisk(); err != nil {
		logger.Warn("Could not restore snapshot from disk", "error", err)
	}

	// Providers share one throttled HTTP client; priority ranks the primary
	// Swedish guide above the secondary one for conflict resolution.
	client := provider.NewClient(cfg.SourceRequestsPerMinute, cfg.FetchTimeout, logger)
	regs := []provider.Registration{
		{Provider: tvmatchen.New(client, logger), Priority: 1},
		{Provider: tvsporten.New(client, logger), Priority: 2},
	}

	sched := scheduler.New(scheduler.Config{
		MinInterval:            cfg.FetchMinInterval,
		BaseBackoff:            cfg.BackoffBase,
		MaxBackoff:             cfg.BackoffMax,
		MaxConsecutiveFailures: cfg.MaxConsecutiveFailures,
		FetchTimeout:           cfg.FetchTimeout,
	}, logger)

	agg := aggregator.New(regs, sched, cache, aggregator.Options{
		Favorites: cfg.Favorites,
		Metrics:   metrics.New(prometheus.DefaultRegisterer),
		Period:    cfg.RefreshInterval,
		Logger:    logger,
	})

	// Start the refresh loop
	go agg.Run(ctx)

	// Create router
	router := api.NewRouter(agg, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting SportSync Feed API",
			"addr", addr,
			"environment", cfg.Environment,
			"providers", len(regs),
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
