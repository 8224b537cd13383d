// Command fetch is the SportSync ops CLI.
//
// Usage:
//
//	sportsync-fetch run
//	sportsync-fetch run --json
//	sportsync-fetch classify "Sverige - Schweiz, Ishockey-VM"
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/sportsync/sportsync/internal/aggregator"
	"github.com/sportsync/sportsync/internal/config"
	"github.com/sportsync/sportsync/internal/event"
	"github.com/sportsync/sportsync/internal/feed"
	"github.com/sportsync/sportsync/internal/metrics"
	"github.com/sportsync/sportsync/internal/provider"
	"github.com/sportsync/sportsync/internal/provider/tvmatchen"
	"github.com/sportsync/sportsync/internal/provider/tvsporten"
	"github.com/sportsync/sportsync/internal/scheduler"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "sportsync-fetch",
		Short: "SportSync feed ops CLI",
	}

	root.AddCommand(runCmd())
	root.AddCommand(classifyCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// run command
// --------------------------------------------------------------------------

func runCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one refresh cycle against all providers and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSetup(func(ctx context.Context, cfg *config.Config, agg *aggregator.Aggregator, cache *feed.Cache) error {
				start := time.Now()
				result, err := agg.Refresh(ctx)
				if err != nil {
					return fmt.Errorf("refresh: %w", err)
				}
				logger.Info("Cycle finished",
					"fetched", result.Fetched,
					"skipped", result.Skipped,
					"failed", result.Failed,
					"events", result.Events,
					"published", result.Published,
					"duration", time.Since(start).Round(time.Millisecond))

				if !asJSON {
					return nil
				}
				snap := cache.Snapshot()
				if snap == nil {
					return fmt.Errorf("no snapshot available")
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the published snapshot as JSON")
	return cmd
}

// --------------------------------------------------------------------------
// classify command
// --------------------------------------------------------------------------

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [text]",
		Short: "Classify listing text into a sport category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			sport := event.Classify(text)
			home, away := event.ExtractTeams(text)
			fmt.Printf("sport: %s\n", sport)
			if home != "" {
				fmt.Printf("home:  %s\naway:  %s\n", home, away)
			}
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// withSetup handles config loading, component wiring, and context
// cancellation for one-shot commands.
func withSetup(fn func(ctx context.Context, cfg *config.Config, agg *aggregator.Aggregator, cache *feed.Cache) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cache := feed.NewCache(cfg.SnapshotTTL, cfg.SnapshotPath, logger)
	if err := cache.LoadFromDisk(); err != nil {
		logger.Warn("Could not restore snapshot from disk", "error", err)
	}

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
		Metrics:   metrics.New(prometheus.NewRegistry()),
		Logger:    logger,
	})

	return fn(ctx, cfg, agg, cache)
}
