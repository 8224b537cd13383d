package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitMiddleware(t *testing.T) {
	var handled int
	limited := RateLimitMiddleware(4, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handled++
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule", nil)
	req.RemoteAddr = "192.0.2.1:4242"

	// The burst is half the window allowance.
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("over-burst status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want the window in seconds", got)
	}
	if handled != 2 {
		t.Errorf("handler ran %d times, want 2", handled)
	}
}

func TestRateLimitMiddlewareSeparateBucketsPerIP(t *testing.T) {
	limited := RateLimitMiddleware(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	exhaust := httptest.NewRequest(http.MethodGet, "/health", nil)
	exhaust.RemoteAddr = "192.0.2.1:4242"
	for i := 0; i < 2; i++ {
		limited.ServeHTTP(httptest.NewRecorder(), exhaust)
	}

	other := httptest.NewRequest(http.MethodGet, "/health", nil)
	other.RemoteAddr = "192.0.2.2:4242"
	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Fatalf("fresh IP got %d, want its own bucket", rec.Code)
	}
}
