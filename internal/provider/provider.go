// Package provider defines the contract every schedule source implements and
// the shared HTTP infrastructure the site scrapers are built on.
//
// Providers are data, not behavior baked into the aggregator: a new source is
// one more Registration handed to the aggregator at startup. The merge engine
// and the cache never change.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sportsync/sportsync/internal/event"
)

// ErrorKind classifies every way a provider is allowed to fail.
type ErrorKind string

const (
	// Unreachable covers network errors and timeouts.
	Unreachable ErrorKind = "unreachable"
	// ParseFailure means the source responded but its structure was not the
	// expected one.
	ParseFailure ErrorKind = "parse_failure"
	// RateLimited means the source signaled throttling (429/503).
	RateLimited ErrorKind = "rate_limited"
)

// Error is the only error type a Provider may return from Fetch. All failure
// modes are represented as one of the three kinds; providers never panic.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds a provider error of the given kind.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// AsError coerces any error returned by a fetch into a *Error. Context
// deadline and cancellation count as Unreachable; anything unclassified is
// treated as Unreachable too, so a misbehaving provider cannot leak an
// unknown failure mode past the scheduler.
func AsError(err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return &Error{Kind: Unreachable, Err: err}
}

// Provider fetches the raw schedule for one date from one source and yields
// normalized events. Implementations must be safe for concurrent calls with
// different dates; the engine never relies on provider-internal
// serialization.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, date time.Time) ([]event.Event, error)
}

// Registration declares a provider to the aggregator: the implementation,
// its rank in conflict resolution (lower wins), and an optional override of
// the scheduler's minimum inter-call interval.
type Registration struct {
	Provider    Provider
	Priority    int
	MinInterval time.Duration // zero means the scheduler default
}

// Name returns the registered provider's source identifier.
func (r Registration) Name() string { return r.Provider.Name() }
