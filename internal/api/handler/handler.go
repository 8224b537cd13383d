// Package handler provides HTTP handlers for all API endpoints. Handlers are
// pure reads against the aggregator's snapshot cache; no request ever
// triggers network activity, except the explicit refresh trigger.
package handler

import (
	"net/http"
	"time"

	"github.com/sportsync/sportsync/internal/aggregator"
	"github.com/sportsync/sportsync/internal/api/respond"
	"github.com/sportsync/sportsync/internal/config"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	agg *aggregator.Aggregator
	cfg *config.Config
}

// New creates a Handler with shared dependencies.
func New(agg *aggregator.Aggregator, cfg *config.Config) *Handler {
	return &Handler{agg: agg, cfg: cfg}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, and status.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"name":        "SportSync Feed API",
		"version":     "1.0.0",
		"status":      "running",
		"environment": h.cfg.Environment,
		"docs":        "/docs",
	})
}

// Health returns aggregate health: cache freshness and per-source status.
// @Summary Health check
// @Description Returns feed health, cache age, and per-source status.
// @Tags health
// @Produce json
// @Success 200 {object} aggregator.HealthResult
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"health":    h.agg.Health(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
