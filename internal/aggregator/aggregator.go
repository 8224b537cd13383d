// Package aggregator drives the refresh cycle: it gates every provider
// through the scheduler concurrently, merges whatever succeeded, and
// publishes the result as an immutable snapshot. It also exposes the read
// API the HTTP layer serves from.
package aggregator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sportsync/sportsync/internal/config"
	"github.com/sportsync/sportsync/internal/feed"
	"github.com/sportsync/sportsync/internal/merge"
	"github.com/sportsync/sportsync/internal/metrics"
	"github.com/sportsync/sportsync/internal/provider"
	"github.com/sportsync/sportsync/internal/scheduler"
)

// ErrRefreshInProgress is returned by Refresh when another cycle holds the
// single-flight lock. The trigger is coalesced, not queued: the caller will
// observe the other cycle's snapshot shortly.
var ErrRefreshInProgress = errors.New("refresh cycle already in progress")

// CycleResult summarizes one refresh cycle.
type CycleResult struct {
	Fetched   int           `json:"fetched"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Events    int           `json:"events"`
	Published bool          `json:"published"`
	Duration  time.Duration `json:"duration"`
}

// Aggregator owns the provider set, the scheduler, and the snapshot cache.
// Construct once at process start and share by reference; only the
// aggregator publishes to the cache.
type Aggregator struct {
	regs      []provider.Registration
	sched     *scheduler.Scheduler
	cache     *feed.Cache
	favorites config.Favorites
	metrics   *metrics.Metrics
	logger    *slog.Logger
	period    time.Duration
	now       func() time.Time

	refreshMu sync.Mutex // single-flight: at most one cycle at a time
}

// Options carries the optional aggregator knobs.
type Options struct {
	Favorites config.Favorites
	Metrics   *metrics.Metrics
	Period    time.Duration // refresh timer period; zero means 30 minutes
	Logger    *slog.Logger
}

// New wires an aggregator. Every registration is declared to the scheduler
// immediately so health records exist before the first cycle.
func New(regs []provider.Registration, sched *scheduler.Scheduler, cache *feed.Cache, opts Options) *Aggregator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	period := opts.Period
	if period <= 0 {
		period = 30 * time.Minute
	}
	for _, reg := range regs {
		sched.Register(reg)
	}
	return &Aggregator{
		regs:      regs,
		sched:     sched,
		cache:     cache,
		favorites: opts.Favorites,
		metrics:   opts.Metrics,
		logger:    logger,
		period:    period,
		now:       time.Now,
	}
}

// Run refreshes immediately, then on every timer tick until ctx is
// cancelled. Intended to be called with `go`.
func (a *Aggregator) Run(ctx context.Context) {
	a.logger.Info("Refresh loop started", "period", a.period, "providers", len(a.regs))

	if _, err := a.Refresh(ctx); err != nil && !errors.Is(err, ErrRefreshInProgress) {
		a.logger.Error("Initial refresh failed", "error", err)
	}

	ticker := time.NewTicker(a.period)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := a.Refresh(ctx); err != nil && !errors.Is(err, ErrRefreshInProgress) {
				a.logger.Error("Scheduled refresh failed", "error", err)
			}
		case <-ctx.Done():
			a.logger.Info("Refresh loop stopped")
			return
		}
	}
}

// Refresh runs one cycle: concurrent gated fetches, merge, publish. One
// failing source never blocks the others; a snapshot is published as long as
// at least one provider fetched. When nothing fetched the previous snapshot
// stays in place and simply ages toward staleness.
func (a *Aggregator) Refresh(ctx context.Context) (CycleResult, error) {
	if !a.refreshMu.TryLock() {
		return CycleResult{}, ErrRefreshInProgress
	}
	defer a.refreshMu.Unlock()

	start := a.now()
	date := start

	type fetchResult struct {
		reg     provider.Registration
		outcome scheduler.Outcome
	}

	// One task per provider; the cycle's cost is bounded by the slowest
	// provider's timeout, not the sum.
	results := make([]fetchResult, len(a.regs))
	var wg sync.WaitGroup
	for i, reg := range a.regs {
		i, reg := i, reg
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = fetchResult{reg: reg, outcome: a.sched.TryFetch(ctx, reg, date)}
		}()
	}
	wg.Wait()

	var (
		result CycleResult
		lists  []merge.SourceEvents
	)
	for _, r := range results {
		a.metrics.RecordFetch(r.reg.Name(), string(r.outcome.Kind))
		switch r.outcome.Kind {
		case scheduler.Fetched:
			result.Fetched++
			lists = append(lists, merge.SourceEvents{
				Source:   r.reg.Name(),
				Priority: r.reg.Priority,
				Events:   r.outcome.Events,
			})
		case scheduler.Skipped:
			result.Skipped++
		case scheduler.Failed:
			result.Failed++
		}
	}

	if result.Fetched > 0 {
		merged := merge.Merge(lists, a.now(), a.logger)
		snap := feed.NewSnapshot(merged, a.sched.Health(), a.now())
		a.cache.Publish(snap)
		result.Events = len(merged)
		result.Published = true
		a.metrics.RecordPublish(len(merged), snap.SourceCounts, snap.ComputedAt)
	} else {
		a.logger.Warn("No provider produced data, keeping previous snapshot",
			"skipped", result.Skipped, "failed", result.Failed)
	}

	result.Duration = a.now().Sub(start)
	a.metrics.ObserveCycle(result.Duration)
	a.logger.Info("Refresh cycle complete",
		"fetched", result.Fetched,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"events", result.Events,
		"published", result.Published,
		"duration", result.Duration.Round(time.Millisecond))
	return result, nil
}
