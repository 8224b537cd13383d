package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sportsync/sportsync/internal/aggregator"
	"github.com/sportsync/sportsync/internal/api/respond"
	"github.com/sportsync/sportsync/internal/event"
)

// GetSchedule serves the merged feed through optional filters.
// @Summary Get the merged broadcast schedule
// @Description Returns the deduplicated event feed from the current snapshot. Never triggers a fetch; a stale snapshot is served flagged, not withheld.
// @Tags schedule
// @Produce json
// @Param sport query string false "Sport category (football, hockey, ...)"
// @Param channel query string false "Channel name substring"
// @Param favorites query bool false "Only events matching configured favorites"
// @Param live query bool false "Only events on air right now"
// @Param upcoming_hours query int false "Only events starting within N hours"
// @Success 200 {object} aggregator.ScheduleResult
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/schedule [get]
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter aggregator.Filter
	if s := q.Get("sport"); s != "" {
		sport, ok := event.ParseSport(s)
		if !ok {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_SPORT", "Unknown sport category: "+s)
			return
		}
		filter.Sport = sport
	}
	filter.Channel = q.Get("channel")
	filter.FavoritesOnly, _ = strconv.ParseBool(q.Get("favorites"))
	filter.LiveOnly, _ = strconv.ParseBool(q.Get("live"))
	if hrs := q.Get("upcoming_hours"); hrs != "" {
		n, err := strconv.Atoi(hrs)
		if err != nil || n <= 0 {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_UPCOMING", "upcoming_hours must be a positive integer")
			return
		}
		filter.UpcomingWithin = time.Duration(n) * time.Hour
	}

	respond.WriteJSON(w, http.StatusOK, h.agg.Schedule(filter))
}

// TriggerRefresh starts an on-demand refresh cycle. A trigger arriving while
// a cycle is already running is coalesced, reported as 202.
// @Summary Trigger an on-demand refresh
// @Description Runs one refresh cycle immediately. Concurrent triggers are coalesced into the in-flight cycle.
// @Tags schedule
// @Produce json
// @Success 200 {object} aggregator.CycleResult
// @Success 202 {object} map[string]interface{}
// @Router /api/v1/refresh [post]
func (h *Handler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	// The cycle mutates shared state; a client hanging up must not cancel
	// in-flight provider fetches or dent their health records.
	result, err := h.agg.Refresh(context.WithoutCancel(r.Context()))
	if err != nil {
		if errors.Is(err, aggregator.ErrRefreshInProgress) {
			respond.WriteJSON(w, http.StatusAccepted, map[string]interface{}{
				"status": "refresh already in progress",
			})
			return
		}
		respond.WriteError(w, http.StatusInternalServerError, "REFRESH_FAILED", err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, result)
}
