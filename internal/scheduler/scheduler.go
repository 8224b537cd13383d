// Package scheduler gates access to providers: no provider is called more
// often than its minimum interval, failures back off exponentially, and every
// attempt is bounded by a per-fetch timeout enforced through context
// cancellation.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sportsync/sportsync/internal/event"
	"github.com/sportsync/sportsync/internal/provider"
)

// Status is the health classification of one source.
type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
	StatusFailed   Status = "failed"
)

// Health is the per-provider record mutated after every attempt and read by
// the cache and the health endpoint.
type Health struct {
	Status              Status    `json:"status"`
	LastSuccess         time.Time `json:"last_success,omitzero"`
	LastError           string    `json:"last_error,omitempty"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
}

// OutcomeKind classifies the result of one TryFetch.
type OutcomeKind string

const (
	// Fetched means the provider returned events.
	Fetched OutcomeKind = "fetched"
	// Skipped means the provider was not due yet. Not a failure.
	Skipped OutcomeKind = "skipped"
	// Failed means the attempt ran and the provider failed.
	Failed OutcomeKind = "failed"
)

// Outcome is the value every TryFetch resolves to; provider errors never
// propagate past the scheduler as plain errors.
type Outcome struct {
	Kind   OutcomeKind
	Events []event.Event
	Err    *provider.Error
}

// Config holds the gating knobs. Zero values fall back to the defaults.
type Config struct {
	MinInterval            time.Duration
	BaseBackoff            time.Duration
	MaxBackoff             time.Duration
	MaxConsecutiveFailures int
	FetchTimeout           time.Duration
}

// DefaultConfig returns production defaults: 15 minute spacing, backoff from
// one minute capped at two hours, a provider marked failed after five
// consecutive failures, 30 second fetch deadline.
func DefaultConfig() Config {
	return Config{
		MinInterval:            15 * time.Minute,
		BaseBackoff:            time.Minute,
		MaxBackoff:             2 * time.Hour,
		MaxConsecutiveFailures: 5,
		FetchTimeout:           30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MinInterval <= 0 {
		c.MinInterval = d.MinInterval
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = d.BaseBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = d.MaxBackoff
	}
	if c.MaxConsecutiveFailures <= 0 {
		c.MaxConsecutiveFailures = d.MaxConsecutiveFailures
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = d.FetchTimeout
	}
	return c
}

type phase int

const (
	phaseIdle phase = iota
	phaseFetching
	phaseCooldown
	phaseBackingOff
)

type state struct {
	phase       phase
	minInterval time.Duration
	nextAllowed time.Time
	health      Health
}

// Scheduler tracks per-provider call state. Safe for concurrent use; each
// provider has at most one fetch in flight.
type Scheduler struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	states map[string]*state
}

// New creates a scheduler. Providers must be registered before TryFetch.
func New(cfg Config, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cfg:    cfg.withDefaults(),
		logger: logger,
		now:    time.Now,
		states: make(map[string]*state),
	}
}

// Register creates the health record for a provider. A registration's
// MinInterval overrides the scheduler default for that provider only.
func (s *Scheduler) Register(reg provider.Registration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	interval := s.cfg.MinInterval
	if reg.MinInterval > 0 {
		interval = reg.MinInterval
	}
	s.states[reg.Name()] = &state{
		minInterval: interval,
		health:      Health{Status: StatusOK},
	}
}

// TryFetch runs one gated attempt against the provider. An attempt before
// nextAllowedCall returns Skipped without touching the network. The call is
// bounded by the configured fetch timeout; a timeout counts as Unreachable.
func (s *Scheduler) TryFetch(ctx context.Context, reg provider.Registration, date time.Time) Outcome {
	name := reg.Name()

	s.mu.Lock()
	st, ok := s.states[name]
	if !ok {
		// Unregistered providers get a record on first use.
		interval := s.cfg.MinInterval
		if reg.MinInterval > 0 {
			interval = reg.MinInterval
		}
		st = &state{minInterval: interval, health: Health{Status: StatusOK}}
		s.states[name] = st
	}
	now := s.now()
	if st.phase == phaseFetching || now.Before(st.nextAllowed) {
		s.mu.Unlock()
		return Outcome{Kind: Skipped}
	}
	st.phase = phaseFetching
	s.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	events, err := reg.Provider.Fetch(fetchCtx, date)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	now = s.now()

	if err != nil {
		pe := provider.AsError(err)
		st.health.ConsecutiveFailures++
		st.health.LastError = pe.Error()

		if st.health.ConsecutiveFailures >= s.cfg.MaxConsecutiveFailures {
			// Past the failure cap the backoff math no longer applies; the
			// provider sits out until its next regular interval.
			st.phase = phaseBackingOff
			st.health.Status = StatusFailed
			st.nextAllowed = now.Add(st.minInterval)
		} else {
			st.phase = phaseBackingOff
			st.health.Status = StatusDegraded
			st.nextAllowed = now.Add(s.backoff(st.health.ConsecutiveFailures))
		}
		s.logger.Warn("Provider fetch failed",
			"provider", name,
			"kind", pe.Kind,
			"consecutive_failures", st.health.ConsecutiveFailures,
			"next_allowed", st.nextAllowed,
			"error", pe.Err)
		return Outcome{Kind: Failed, Err: pe}
	}

	st.phase = phaseCooldown
	st.nextAllowed = now.Add(st.minInterval)
	st.health = Health{Status: StatusOK, LastSuccess: now}
	s.logger.Info("Provider fetch succeeded", "provider", name, "events", len(events))
	return Outcome{Kind: Fetched, Events: events}
}

// backoff computes min(maxBackoff, base * 2^(failures-1)).
func (s *Scheduler) backoff(failures int) time.Duration {
	d := s.cfg.BaseBackoff
	for i := 1; i < failures; i++ {
		d *= 2
		if d >= s.cfg.MaxBackoff {
			return s.cfg.MaxBackoff
		}
	}
	if d > s.cfg.MaxBackoff {
		return s.cfg.MaxBackoff
	}
	return d
}

// Health returns a copy of every provider's health record.
func (s *Scheduler) Health() map[string]Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Health, len(s.states))
	for name, st := range s.states {
		out[name] = st.health
	}
	return out
}
