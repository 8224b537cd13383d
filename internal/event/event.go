// Package event defines the canonical broadcast event that all providers
// normalize into. These values are the contract between provider scrapers and
// the merge engine: providers output them, the aggregator serves them.
//
// Adding a new provider means producing these values. The merge engine and
// the snapshot cache never change.
package event

import (
	"crypto/md5"
	"fmt"
	"strings"
	"time"
)

// Sport is one of the fixed broadcast categories. Source text that maps to
// nothing in the taxonomy falls back to SportOther.
type Sport string

const (
	SportFootball     Sport = "football"
	SportHockey       Sport = "hockey"
	SportBasketball   Sport = "basketball"
	SportTennis       Sport = "tennis"
	SportGolf         Sport = "golf"
	SportWinterSports Sport = "winter_sports"
	SportMotorsport   Sport = "motorsport"
	SportPadel        Sport = "padel"
	SportSnooker      Sport = "snooker"
	SportHorseRacing  Sport = "horse_racing"
	SportOther        Sport = "other"
)

// Sports lists every valid category, in taxonomy order.
var Sports = []Sport{
	SportFootball,
	SportHockey,
	SportBasketball,
	SportTennis,
	SportGolf,
	SportWinterSports,
	SportMotorsport,
	SportPadel,
	SportSnooker,
	SportHorseRacing,
	SportOther,
}

// ParseSport maps free text to a category, accepting only exact taxonomy
// names. Use Classify for keyword-based detection from titles.
func ParseSport(s string) (Sport, bool) {
	candidate := Sport(strings.ToLower(strings.TrimSpace(s)))
	for _, sport := range Sports {
		if sport == candidate {
			return sport, true
		}
	}
	return SportOther, false
}

// Event is one broadcast listing. Providers emit events with a single entry
// in Sources; after merging, Sources holds every provider that reported the
// same underlying broadcast.
type Event struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Sport     Sport      `json:"sport"`
	League    string     `json:"league,omitempty"`
	Channel   string     `json:"channel"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	HomeTeam  string     `json:"home_team,omitempty"`
	AwayTeam  string     `json:"away_team,omitempty"`
	IsLive    bool       `json:"is_live"`
	Sources   []string   `json:"sources"`
}

// Identity returns the deterministic fingerprint used to recognize the same
// broadcast across sources. Sources do not share ids, so the key is derived
// from (normalized title, sport, start rounded to the minute, channel).
func (e Event) Identity() string {
	start := e.StartTime.UTC().Truncate(time.Minute).Format("200601021504")
	content := strings.Join([]string{
		NormalizeTitle(e.Title),
		string(e.Sport),
		start,
		strings.ToLower(strings.TrimSpace(e.Channel)),
	}, "|")
	sum := md5.Sum([]byte(content))
	return fmt.Sprintf("%x", sum)[:12]
}

// LiveAt reports whether the broadcast is on air at the given instant.
// Computed, never trusted from the source: live means the start has passed
// and the end is unknown or still ahead.
func (e Event) LiveAt(now time.Time) bool {
	if e.StartTime.After(now) {
		return false
	}
	return e.EndTime == nil || !e.EndTime.Before(now)
}

// NormalizeTitle collapses casing, whitespace, and dash variants so that
// "Sverige - Schweiz" and "Sverige-Schweiz" produce the same identity key.
func NormalizeTitle(title string) string {
	s := strings.ToLower(title)
	s = strings.NewReplacer("–", "-", "—", "-").Replace(s)
	return strings.Join(strings.Fields(s), "")
}
