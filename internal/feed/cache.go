// Package feed holds the latest usable snapshot of the merged schedule and
// answers reads without ever blocking on network activity.
package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/sportsync/sportsync/internal/event"
	"github.com/sportsync/sportsync/internal/scheduler"
)

// DefaultTTL is how old a snapshot may get before reads are flagged stale.
const DefaultTTL = 30 * time.Minute

// Snapshot is one immutable, fully-merged result of a refresh cycle.
// Readers holding a snapshot keep a consistent view even while a newer one
// is published.
type Snapshot struct {
	Events       []event.Event               `json:"events"`
	Sources      map[string]scheduler.Health `json:"sources"`
	SourceCounts map[string]int              `json:"source_counts"`
	ComputedAt   time.Time                   `json:"computed_at"`
}

// NewSnapshot builds a snapshot and derives per-source event counts from
// provenance.
func NewSnapshot(events []event.Event, sources map[string]scheduler.Health, at time.Time) *Snapshot {
	counts := make(map[string]int, len(sources))
	for _, ev := range events {
		for _, src := range ev.Sources {
			counts[src]++
		}
	}
	return &Snapshot{
		Events:       events,
		Sources:      sources,
		SourceCounts: counts,
		ComputedAt:   at,
	}
}

// Cache is the single shared snapshot holder: one writer (the aggregator),
// any number of readers. Publish replaces the snapshot atomically; a previous
// snapshot stays valid for readers that already hold it.
type Cache struct {
	ttl    time.Duration
	path   string // optional last-known-good file; empty disables persistence
	logger *slog.Logger

	mu   sync.RWMutex
	snap *Snapshot
}

// NewCache creates a cache. path, when non-empty, names a JSON file written
// after every publish and loadable at startup via LoadFromDisk.
func NewCache(ttl time.Duration, path string, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{ttl: ttl, path: path, logger: logger}
}

// Snapshot returns the current snapshot, or nil before the first publish.
// Always instant; never triggers a fetch.
func (c *Cache) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// IsStale reports whether the snapshot age exceeds the TTL. A cache that has
// never published is stale by definition.
func (c *Cache) IsStale(now time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return true
	}
	return now.Sub(c.snap.ComputedAt) > c.ttl
}

// Age returns the snapshot age, or zero before the first publish.
func (c *Cache) Age(now time.Time) time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return 0
	}
	return now.Sub(c.snap.ComputedAt)
}

// Publish atomically replaces the snapshot and, when configured, persists it
// as the last-known-good file. Persistence failures are logged, not fatal;
// the in-memory snapshot is already live.
func (c *Cache) Publish(s *Snapshot) {
	c.mu.Lock()
	c.snap = s
	c.mu.Unlock()

	if c.path == "" {
		return
	}
	data, err := json.Marshal(s)
	if err != nil {
		c.logger.Warn("Failed to encode snapshot for disk", "error", err)
		return
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		c.logger.Warn("Failed to persist snapshot", "path", c.path, "error", err)
	}
}

// LoadFromDisk restores the last-known-good snapshot once at startup so the
// feed is not empty before the first cycle completes. The file may be absent
// on a first run; that is not an error. The loaded snapshot is treated like
// any other, in particular it may already be stale.
func (c *Cache) LoadFromDisk() error {
	if c.path == "" {
		return nil
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read snapshot file: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot file: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil {
		c.snap = &snap
		c.logger.Info("Restored snapshot from disk",
			"path", c.path, "events", len(snap.Events), "computed_at", snap.ComputedAt)
	}
	return nil
}
