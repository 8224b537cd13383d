package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sportsync/sportsync/internal/event"
	"github.com/sportsync/sportsync/internal/provider"
)

type fakeProvider struct {
	name   string
	events []event.Event
	err    error
	calls  int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Fetch(ctx context.Context, date time.Time) ([]event.Event, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func newTestScheduler(t *testing.T, cfg Config) (*Scheduler, *time.Time) {
	t.Helper()
	s := New(cfg, nil)
	clock := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	return s, &clock
}

func TestTryFetchRespectsMinInterval(t *testing.T) {
	s, clock := newTestScheduler(t, Config{MinInterval: 15 * time.Minute})
	p := &fakeProvider{name: "tvmatchen", events: []event.Event{{Title: "Sverige - Schweiz"}}}
	reg := provider.Registration{Provider: p, Priority: 1}
	s.Register(reg)

	if out := s.TryFetch(context.Background(), reg, *clock); out.Kind != Fetched {
		t.Fatalf("first attempt = %s, want fetched", out.Kind)
	}

	// Still inside the cooldown window: skipped, provider untouched.
	*clock = clock.Add(5 * time.Minute)
	if out := s.TryFetch(context.Background(), reg, *clock); out.Kind != Skipped {
		t.Fatalf("early attempt = %s, want skipped", out.Kind)
	}
	if p.calls != 1 {
		t.Fatalf("provider called %d times, want 1", p.calls)
	}

	*clock = clock.Add(11 * time.Minute)
	if out := s.TryFetch(context.Background(), reg, *clock); out.Kind != Fetched {
		t.Fatalf("attempt after interval = %s, want fetched", out.Kind)
	}
	if p.calls != 2 {
		t.Fatalf("provider called %d times, want 2", p.calls)
	}
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	s, _ := newTestScheduler(t, Config{
		BaseBackoff: time.Minute,
		MaxBackoff:  8 * time.Minute,
	})

	want := []time.Duration{
		time.Minute, 2 * time.Minute, 4 * time.Minute,
		8 * time.Minute, 8 * time.Minute,
	}
	for i, w := range want {
		if got := s.backoff(i + 1); got != w {
			t.Errorf("backoff(%d) = %v, want %v", i+1, got, w)
		}
	}
}

func TestConsecutiveFailuresMarkProviderFailed(t *testing.T) {
	s, clock := newTestScheduler(t, Config{
		MinInterval:            15 * time.Minute,
		BaseBackoff:            time.Minute,
		MaxBackoff:             time.Hour,
		MaxConsecutiveFailures: 3,
	})
	p := &fakeProvider{name: "tvsporten", err: provider.Errorf(provider.Unreachable, "connection refused")}
	reg := provider.Registration{Provider: p, Priority: 2}
	s.Register(reg)

	for i := 1; i <= 3; i++ {
		// Jump past whatever backoff is pending so the attempt runs.
		*clock = clock.Add(2 * time.Hour)
		out := s.TryFetch(context.Background(), reg, *clock)
		if out.Kind != Failed {
			t.Fatalf("attempt %d = %s, want failed", i, out.Kind)
		}
		if out.Err == nil || out.Err.Kind != provider.Unreachable {
			t.Fatalf("attempt %d error kind = %v", i, out.Err)
		}

		h := s.Health()["tvsporten"]
		if h.ConsecutiveFailures != i {
			t.Fatalf("after attempt %d: consecutive failures = %d", i, h.ConsecutiveFailures)
		}
		wantStatus := StatusDegraded
		if i >= 3 {
			wantStatus = StatusFailed
		}
		if h.Status != wantStatus {
			t.Fatalf("after attempt %d: status = %s, want %s", i, h.Status, wantStatus)
		}
	}

	// One success resets the record completely.
	p.err = nil
	p.events = []event.Event{{Title: "AIK - Djurgården"}}
	*clock = clock.Add(2 * time.Hour)
	if out := s.TryFetch(context.Background(), reg, *clock); out.Kind != Fetched {
		t.Fatalf("recovery attempt = %s, want fetched", out.Kind)
	}
	h := s.Health()["tvsporten"]
	if h.Status != StatusOK || h.ConsecutiveFailures != 0 || h.LastError != "" {
		t.Fatalf("health not reset after success: %+v", h)
	}
	if h.LastSuccess.IsZero() {
		t.Fatal("last success not recorded")
	}
}

func TestFailedProviderWaitsRegularInterval(t *testing.T) {
	s, clock := newTestScheduler(t, Config{
		MinInterval:            15 * time.Minute,
		BaseBackoff:            time.Minute,
		MaxBackoff:             2 * time.Hour,
		MaxConsecutiveFailures: 1,
	})
	p := &fakeProvider{name: "tvmatchen", err: errors.New("boom")}
	reg := provider.Registration{Provider: p, Priority: 1}
	s.Register(reg)

	if out := s.TryFetch(context.Background(), reg, *clock); out.Kind != Failed {
		t.Fatalf("got %s, want failed", out.Kind)
	}
	// Plain errors get classified as unreachable.
	if h := s.Health()["tvmatchen"]; h.Status != StatusFailed {
		t.Fatalf("status = %s, want failed", h.Status)
	}

	// Failed providers retry at the regular interval, not the backoff cap.
	*clock = clock.Add(14 * time.Minute)
	if out := s.TryFetch(context.Background(), reg, *clock); out.Kind != Skipped {
		t.Fatalf("before interval = %s, want skipped", out.Kind)
	}
	*clock = clock.Add(2 * time.Minute)
	if out := s.TryFetch(context.Background(), reg, *clock); out.Kind != Failed {
		t.Fatalf("after interval = %s, want a real attempt", out.Kind)
	}
	if p.calls != 2 {
		t.Fatalf("provider called %d times, want 2", p.calls)
	}
}

type hangingProvider struct {
	name string
}

func (h *hangingProvider) Name() string { return h.name }

func (h *hangingProvider) Fetch(ctx context.Context, date time.Time) ([]event.Event, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestFetchTimeoutCountsAsUnreachable(t *testing.T) {
	s, _ := newTestScheduler(t, Config{FetchTimeout: 50 * time.Millisecond})
	reg := provider.Registration{Provider: &hangingProvider{name: "tvmatchen"}, Priority: 1}
	s.Register(reg)

	started := time.Now()
	out := s.TryFetch(context.Background(), reg, time.Now())
	if elapsed := time.Since(started); elapsed > 5*time.Second {
		t.Fatalf("attempt not bounded by the fetch timeout, took %v", elapsed)
	}

	if out.Kind != Failed {
		t.Fatalf("outcome = %s, want failed", out.Kind)
	}
	if out.Err == nil || out.Err.Kind != provider.Unreachable {
		t.Fatalf("error = %v, want unreachable", out.Err)
	}
	h := s.Health()["tvmatchen"]
	if h.Status != StatusDegraded || h.ConsecutiveFailures != 1 {
		t.Fatalf("health = %+v, want one degraded failure", h)
	}
}

func TestPerProviderMinIntervalOverride(t *testing.T) {
	s, clock := newTestScheduler(t, Config{MinInterval: 15 * time.Minute})
	p := &fakeProvider{name: "tvmatchen", events: []event.Event{{Title: "x"}}}
	reg := provider.Registration{Provider: p, Priority: 1, MinInterval: 5 * time.Minute}
	s.Register(reg)

	s.TryFetch(context.Background(), reg, *clock)
	*clock = clock.Add(6 * time.Minute)
	if out := s.TryFetch(context.Background(), reg, *clock); out.Kind != Fetched {
		t.Fatalf("override interval not honored: %s", out.Kind)
	}
}
