// Package merge turns per-source event lists into one deduplicated,
// conflict-resolved list. Events sharing an identity key collapse into a
// single event whose fields come from the highest-priority contributing
// source and whose provenance is the union of contributors.
package merge

import (
	"log/slog"
	"sort"
	"time"

	"github.com/sportsync/sportsync/internal/event"
)

// SourceEvents is one successful source's contribution to a cycle.
type SourceEvents struct {
	Source   string
	Priority int // lower wins conflicts
	Events   []event.Event
}

// Merge combines the contributions into the final ordered list.
//
// Events without a start time are dropped and counted, not propagated as
// errors. The live flag of every merged event is recomputed against now;
// whatever the sources claimed is discarded. Output ordering is
// deterministic: start time, then sport, then title.
func Merge(lists []SourceEvents, now time.Time, logger *slog.Logger) []event.Event {
	if logger == nil {
		logger = slog.Default()
	}

	type contribution struct {
		ev       event.Event
		source   string
		priority int
	}

	var (
		groups  = make(map[string][]contribution)
		order   []string
		dropped int
	)
	for _, list := range lists {
		for _, ev := range list.Events {
			if ev.StartTime.IsZero() {
				dropped++
				continue
			}
			key := ev.Identity()
			if _, seen := groups[key]; !seen {
				order = append(order, key)
			}
			groups[key] = append(groups[key], contribution{ev: ev, source: list.Source, priority: list.Priority})
		}
	}
	if dropped > 0 {
		logger.Warn("Dropped events without a parseable start time", "count", dropped)
	}

	merged := make([]event.Event, 0, len(order))
	for _, key := range order {
		group := groups[key]

		winner := group[0]
		for _, c := range group[1:] {
			if c.priority < winner.priority {
				winner = c
			}
		}

		out := winner.ev
		out.ID = key

		// Provenance: union of every contributing source, sorted for
		// deterministic output.
		seen := make(map[string]bool, len(group))
		sources := make([]string, 0, len(group))
		for _, c := range group {
			if !seen[c.source] {
				seen[c.source] = true
				sources = append(sources, c.source)
			}
		}
		sort.Strings(sources)
		out.Sources = sources

		// End time: the winner's when known, else any contributor's. When
		// contributors disagree the priority rule decides; disagreement is
		// logged, never fatal.
		if out.EndTime == nil {
			for _, c := range group {
				if c.ev.EndTime != nil {
					out.EndTime = c.ev.EndTime
					break
				}
			}
		} else {
			for _, c := range group {
				if c.ev.EndTime != nil && !c.ev.EndTime.Equal(*out.EndTime) {
					logger.Debug("Conflicting end times, keeping higher-priority source",
						"event", out.Title, "kept", out.EndTime, "discarded", c.ev.EndTime)
				}
			}
		}

		out.IsLive = out.LiveAt(now)
		merged = append(merged, out)
	}

	sort.Slice(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.Before(b.StartTime)
		}
		if a.Sport != b.Sport {
			return a.Sport < b.Sport
		}
		return a.Title < b.Title
	})
	return merged
}
