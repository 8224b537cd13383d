package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sportsync/sportsync/internal/aggregator"
	"github.com/sportsync/sportsync/internal/config"
	"github.com/sportsync/sportsync/internal/event"
	"github.com/sportsync/sportsync/internal/feed"
	"github.com/sportsync/sportsync/internal/provider"
	"github.com/sportsync/sportsync/internal/scheduler"
)

// ctxProvider fails when its context is already dead, like a real HTTP fetch
// would.
type ctxProvider struct {
	name   string
	events []event.Event
}

func (p *ctxProvider) Name() string { return p.name }

func (p *ctxProvider) Fetch(ctx context.Context, date time.Time) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.events, nil
}

func newTestHandler(t *testing.T, cfg *config.Config) (*Handler, *feed.Cache) {
	t.Helper()

	e := event.Event{
		Title:     "Sverige - Schweiz",
		Sport:     event.SportHockey,
		Channel:   "Telia",
		StartTime: time.Now().Add(time.Hour),
	}
	e.ID = e.Identity()

	regs := []provider.Registration{
		{Provider: &ctxProvider{name: "tvmatchen", events: []event.Event{e}}, Priority: 1},
	}
	sched := scheduler.New(scheduler.Config{MinInterval: time.Nanosecond}, nil)
	cache := feed.NewCache(30*time.Minute, "", nil)
	agg := aggregator.New(regs, sched, cache, aggregator.Options{})
	return New(agg, cfg), cache
}

func TestTriggerRefreshSurvivesClientDisconnect(t *testing.T) {
	h, cache := newTestHandler(t, &config.Config{})

	// The client is already gone when the cycle starts.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	h.TriggerRefresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result aggregator.CycleResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Failed != 0 || !result.Published {
		t.Fatalf("result = %+v, want a published cycle despite the dead request context", result)
	}
	if cache.Snapshot() == nil {
		t.Fatal("snapshot not published")
	}
}

func TestRootReportsEnvironment(t *testing.T) {
	h, _ := newTestHandler(t, &config.Config{Environment: "development"})

	rec := httptest.NewRecorder()
	h.Root(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["environment"] != "development" {
		t.Errorf("environment = %v", body["environment"])
	}
	if body["name"] != "SportSync Feed API" {
		t.Errorf("name = %v", body["name"])
	}
}
