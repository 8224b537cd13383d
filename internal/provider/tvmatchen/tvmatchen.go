// Package tvmatchen scrapes the tvmatchen.nu TV guide. The page is organized
// as sport sections with match listings; parsing walks sections first and
// falls back to a flat scan when the layout shifts.
package tvmatchen

import (
	"bytes"
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/sportsync/sportsync/internal/event"
	"github.com/sportsync/sportsync/internal/provider"
)

const (
	// Name is the source identifier recorded in event provenance.
	Name    = "tvmatchen"
	baseURL = "https://www.tvmatchen.nu"
)

// Provider implements provider.Provider for tvmatchen.nu.
type Provider struct {
	client *provider.Client
	logger *slog.Logger
}

// New creates the tvmatchen provider on a shared throttled client.
func New(client *provider.Client, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{client: client, logger: logger}
}

func (p *Provider) Name() string { return Name }

// Fetch downloads today's guide page and parses it. The site serves the
// requested date's schedule at the base URL.
func (p *Provider) Fetch(ctx context.Context, date time.Time) ([]event.Event, error) {
	body, err := p.client.GetHTML(ctx, baseURL)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, provider.Errorf(provider.ParseFailure, "parse html: %w", err)
	}

	events := p.parseSections(doc, date)
	if len(events) == 0 {
		events = p.parseFlat(doc, date)
	}
	if len(events) == 0 {
		return nil, provider.Errorf(provider.ParseFailure, "no listings recognized in %d bytes", len(body))
	}

	p.logger.Debug("tvmatchen parsed", "events", len(events))
	return events, nil
}

// parseSections walks sport sections and parses listings inside each, using
// the section header as the sport hint.
func (p *Provider) parseSections(doc *html.Node, date time.Time) []event.Event {
	sections := provider.FindAll(doc, func(n *html.Node) bool {
		return provider.IsElement(n, "section") || provider.ClassLike(n, "sport", "category")
	})

	var events []event.Event
	for _, section := range sections {
		hint := sectionSport(section)
		items := provider.FindAll(section, func(n *html.Node) bool {
			return provider.ClassLike(n, "match", "event", "game", "broadcast") ||
				provider.IsElement(n, "li", "tr")
		})
		for _, item := range items {
			if ev, ok := p.parseListing(item, date, hint); ok {
				events = append(events, ev)
			}
		}
	}
	return events
}

// parseFlat scans the whole document for listing-shaped containers.
func (p *Provider) parseFlat(doc *html.Node, date time.Time) []event.Event {
	containers := provider.FindAll(doc, func(n *html.Node) bool {
		return provider.ClassLike(n, "match", "event", "broadcast", "listing-item", "schedule-item") ||
			provider.IsElement(n, "article", "tr")
	})

	var events []event.Event
	for _, c := range containers {
		if ev, ok := p.parseListing(c, date, ""); ok {
			events = append(events, ev)
		}
	}
	return events
}

var (
	timePrefix  = regexp.MustCompile(`^\s*\d{1,2}[.:]\d{2}\s*`)
	channelTail = regexp.MustCompile(`(?i)\s*(TV4|SVT|Eurosport|Viasat|V Sport|C More|Telia|Kanal).*$`)
)

// parseListing turns one container into an event. Listings without a clock
// or a usable title are skipped, never errors: a single broken row must not
// fail the whole page.
func (p *Provider) parseListing(n *html.Node, date time.Time, sportHint event.Sport) (event.Event, bool) {
	text := provider.Text(n)
	if len(text) < 10 {
		return event.Event{}, false
	}

	start := provider.ParseClock(text, date)
	if start.IsZero() {
		return event.Event{}, false
	}

	title := p.listingTitle(n, text)
	if len(title) < 3 {
		return event.Event{}, false
	}

	channel := elementChannel(n)
	if channel == "" {
		channel = provider.GuessChannel(text)
	}
	if channel == "" {
		channel = "Unknown channel"
	}

	home, away := event.ExtractTeams(title)
	title = event.FormatMatchTitle(title, home, away)

	sport := sportHint
	if sport == "" {
		sport = elementSport(n)
	}
	if sport == "" {
		sport = event.Classify(text)
	}

	ev := event.Event{
		Title:     title,
		Sport:     sport,
		League:    elementLeague(n, text),
		Channel:   channel,
		StartTime: start,
		HomeTeam:  home,
		AwayTeam:  away,
		IsLive:    provider.LooksLive(text),
		Sources:   []string{Name},
	}
	ev.ID = ev.Identity()
	return ev, true
}

// listingTitle extracts the match title, preferring marked-up team elements
// over flattened text.
func (p *Provider) listingTitle(n *html.Node, text string) string {
	if teams := provider.FindFirst(n, func(c *html.Node) bool {
		return provider.ClassLike(c, "teams", "match-teams", "home-away")
	}); teams != nil {
		if t := provider.Text(teams); len(t) > 3 {
			return t
		}
	}

	home := provider.FindFirst(n, func(c *html.Node) bool {
		return provider.ClassLike(c, "home", "team1")
	})
	away := provider.FindFirst(n, func(c *html.Node) bool {
		return provider.ClassLike(c, "away", "team2")
	})
	if home != nil && away != nil {
		return provider.Text(home) + " - " + provider.Text(away)
	}

	if title := provider.FindFirst(n, func(c *html.Node) bool {
		return provider.ClassLike(c, "title", "name") || provider.IsElement(c, "h3", "h4", "strong")
	}); title != nil {
		if t := provider.Text(title); len(t) > 3 {
			return t
		}
	}

	// Fall back to the flattened text minus the clock and channel fragments.
	title := timePrefix.ReplaceAllString(text, "")
	title = channelTail.ReplaceAllString(title, "")
	title = strings.Join(strings.Fields(title), " ")
	if len(title) > 80 {
		title = strings.TrimSpace(title[:80])
	}
	return strings.TrimSpace(title)
}

// sectionSport reads the sport from a section header or its class list.
func sectionSport(section *html.Node) event.Sport {
	if header := provider.FindFirst(section, func(n *html.Node) bool {
		return provider.IsElement(n, "h1", "h2", "h3", "h4") ||
			provider.ClassLike(n, "section-title", "sport-title", "category-title")
	}); header != nil {
		if sport := event.Classify(provider.Text(header)); sport != event.SportOther {
			return sport
		}
	}
	return elementSport(section)
}

// elementSport reads the sport from class names or data attributes.
func elementSport(n *html.Node) event.Sport {
	for _, attr := range []string{"class", "data-sport", "data-category", "data-type"} {
		if v := provider.Attr(n, attr); v != "" {
			if sport := event.Classify(v); sport != event.SportOther {
				return sport
			}
		}
	}
	return ""
}

func elementChannel(n *html.Node) string {
	ch := provider.FindFirst(n, func(c *html.Node) bool {
		return provider.ClassLike(c, "channel", "broadcaster", "kanal")
	})
	if ch == nil {
		return ""
	}
	return provider.Text(ch)
}

func elementLeague(n *html.Node, text string) string {
	if el := provider.FindFirst(n, func(c *html.Node) bool {
		return provider.ClassLike(c, "league", "competition", "tournament")
	}); el != nil {
		name := provider.Text(el)
		lower := strings.ToLower(name)
		// Bare VM/EM/OS headers are too ambiguous to trust.
		if name != "" && lower != "os" && lower != "vm" && lower != "em" {
			return name
		}
	}
	return provider.GuessLeague(text)
}
