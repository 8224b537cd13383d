package aggregator

import (
	"strings"
	"time"

	"github.com/sportsync/sportsync/internal/event"
	"github.com/sportsync/sportsync/internal/scheduler"
)

// Filter narrows a schedule read. Zero value means "everything".
type Filter struct {
	Sport         event.Sport
	Channel       string
	FavoritesOnly bool
	LiveOnly      bool
	// UpcomingWithin, when positive, keeps only events starting between now
	// and now+UpcomingWithin.
	UpcomingWithin time.Duration
}

// SourceMeta is the per-source block of schedule metadata.
type SourceMeta struct {
	Status     scheduler.Status `json:"status"`
	EventCount int              `json:"event_count"`
}

// Meta describes the snapshot a schedule read came from.
type Meta struct {
	TotalCount  int                   `json:"total_count"`
	LastUpdated time.Time             `json:"last_updated,omitzero"`
	Stale       bool                  `json:"stale"`
	Ready       bool                  `json:"ready"`
	Sources     map[string]SourceMeta `json:"sources"`
}

// ScheduleResult is the read API's answer. Always served from memory; never
// triggers network activity.
type ScheduleResult struct {
	Events []event.Event `json:"events"`
	Meta   Meta          `json:"meta"`
}

// HealthResult is the health endpoint's answer.
type HealthResult struct {
	Status          string                      `json:"status"`
	Ready           bool                        `json:"ready"`
	Stale           bool                        `json:"stale"`
	CacheAgeSeconds float64                     `json:"cache_age_seconds"`
	Sources         map[string]scheduler.Status `json:"sources"`
}

// Schedule reads the current snapshot through the filter. Before the first
// publish it returns an explicit empty, not-ready result rather than an
// error; the feed degrades, it does not crash.
func (a *Aggregator) Schedule(f Filter) ScheduleResult {
	now := a.now()
	snap := a.cache.Snapshot()
	if snap == nil {
		return ScheduleResult{
			Events: []event.Event{},
			Meta:   Meta{Stale: true, Sources: map[string]SourceMeta{}},
		}
	}

	events := make([]event.Event, 0, len(snap.Events))
	for _, ev := range snap.Events {
		if !a.matches(ev, f, now) {
			continue
		}
		events = append(events, ev)
	}

	sources := make(map[string]SourceMeta, len(snap.Sources))
	for name, h := range snap.Sources {
		sources[name] = SourceMeta{Status: h.Status, EventCount: snap.SourceCounts[name]}
	}

	return ScheduleResult{
		Events: events,
		Meta: Meta{
			TotalCount:  len(events),
			LastUpdated: snap.ComputedAt,
			Stale:       a.cache.IsStale(now),
			Ready:       true,
			Sources:     sources,
		},
	}
}

// Health summarizes cache freshness and source status. "degraded" means some
// source is unhealthy or the snapshot is stale; "initializing" means nothing
// has ever been published.
func (a *Aggregator) Health() HealthResult {
	now := a.now()
	snap := a.cache.Snapshot()

	sources := make(map[string]scheduler.Status)
	for name, h := range a.sched.Health() {
		sources[name] = h.Status
	}

	if snap == nil {
		return HealthResult{Status: "initializing", Stale: true, Sources: sources}
	}

	status := "healthy"
	stale := a.cache.IsStale(now)
	if stale {
		status = "degraded"
	}
	for _, s := range sources {
		if s != scheduler.StatusOK {
			status = "degraded"
			break
		}
	}

	return HealthResult{
		Status:          status,
		Ready:           true,
		Stale:           stale,
		CacheAgeSeconds: a.cache.Age(now).Seconds(),
		Sources:         sources,
	}
}

func (a *Aggregator) matches(ev event.Event, f Filter, now time.Time) bool {
	if f.Sport != "" && ev.Sport != f.Sport {
		return false
	}
	if f.Channel != "" && !strings.Contains(strings.ToLower(ev.Channel), strings.ToLower(f.Channel)) {
		return false
	}
	if f.LiveOnly && !ev.LiveAt(now) {
		return false
	}
	if f.UpcomingWithin > 0 {
		if ev.StartTime.Before(now) || ev.StartTime.After(now.Add(f.UpcomingWithin)) {
			return false
		}
	}
	if f.FavoritesOnly && !a.matchesFavorites(ev) {
		return false
	}
	return true
}

// matchesFavorites applies the configured favorite lists: any single hit on
// sport, team, league, title keyword, or channel is a match. No configured
// favorites means nothing matches, mirroring an empty favorites feed rather
// than the full schedule.
func (a *Aggregator) matchesFavorites(ev event.Event) bool {
	fav := a.favorites
	if fav.Empty() {
		return false
	}

	titleLower := strings.ToLower(ev.Title)

	for _, sport := range fav.Sports {
		s := strings.ToLower(sport)
		if strings.Contains(string(ev.Sport), s) || strings.Contains(s, string(ev.Sport)) {
			return true
		}
		if strings.Contains(titleLower, s) {
			return true
		}
	}
	for _, team := range fav.Teams {
		t := strings.ToLower(team)
		if strings.Contains(titleLower, t) ||
			(ev.HomeTeam != "" && strings.Contains(strings.ToLower(ev.HomeTeam), t)) ||
			(ev.AwayTeam != "" && strings.Contains(strings.ToLower(ev.AwayTeam), t)) {
			return true
		}
	}
	for _, league := range fav.Leagues {
		l := strings.ToLower(league)
		if (ev.League != "" && strings.Contains(strings.ToLower(ev.League), l)) ||
			strings.Contains(titleLower, l) {
			return true
		}
	}
	for _, title := range fav.Titles {
		if strings.Contains(titleLower, strings.ToLower(title)) {
			return true
		}
	}
	for _, channel := range fav.Channels {
		if strings.Contains(strings.ToLower(ev.Channel), strings.ToLower(channel)) {
			return true
		}
	}
	return false
}
