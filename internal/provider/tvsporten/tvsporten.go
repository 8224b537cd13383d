// Package tvsporten scrapes the tvsporten.nu TV guide. Unlike tvmatchen the
// page is mostly a flat chronological list, so parsing scans listing
// containers directly and only uses section headers as a sport hint when
// they exist.
package tvsporten

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/sportsync/sportsync/internal/event"
	"github.com/sportsync/sportsync/internal/provider"
)

const (
	// Name is the source identifier recorded in event provenance.
	Name    = "tvsporten"
	baseURL = "https://www.tvsporten.nu"
)

// Provider implements provider.Provider for tvsporten.nu.
type Provider struct {
	client *provider.Client
	logger *slog.Logger
}

// New creates the tvsporten provider on a shared throttled client.
func New(client *provider.Client, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{client: client, logger: logger}
}

func (p *Provider) Name() string { return Name }

// Fetch downloads the guide page and parses its listings.
func (p *Provider) Fetch(ctx context.Context, date time.Time) ([]event.Event, error) {
	body, err := p.client.GetHTML(ctx, baseURL)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, provider.Errorf(provider.ParseFailure, "parse html: %w", err)
	}

	events := p.parse(doc, date)
	if len(events) == 0 {
		return nil, provider.Errorf(provider.ParseFailure, "no listings recognized in %d bytes", len(body))
	}

	p.logger.Debug("tvsporten parsed", "events", len(events))
	return events, nil
}

func (p *Provider) parse(doc *html.Node, date time.Time) []event.Event {
	containers := provider.FindAll(doc, func(n *html.Node) bool {
		return provider.ClassLike(n, "event", "match", "broadcast", "schedule-item", "listing-item") ||
			provider.IsElement(n, "article")
	})

	var events []event.Event
	for _, c := range containers {
		if ev, ok := p.parseListing(c, date); ok {
			events = append(events, ev)
		}
	}
	if len(events) > 0 {
		return events
	}

	// Table layout fallback: every row with at least two cells is a
	// candidate listing.
	for _, row := range provider.FindAll(doc, func(n *html.Node) bool {
		return provider.IsElement(n, "tr")
	}) {
		cells := provider.FindAll(row, func(n *html.Node) bool {
			return provider.IsElement(n, "td")
		})
		if len(cells) < 2 {
			continue
		}
		if ev, ok := p.parseListing(row, date); ok {
			events = append(events, ev)
		}
	}
	return events
}

// parseListing turns one container into an event; unusable rows are skipped.
func (p *Provider) parseListing(n *html.Node, date time.Time) (event.Event, bool) {
	text := provider.Text(n)
	if len(text) < 10 {
		return event.Event{}, false
	}

	start := provider.ParseClock(text, date)
	if start.IsZero() {
		return event.Event{}, false
	}

	title := listingTitle(n, text)
	if len(title) < 3 {
		return event.Event{}, false
	}

	channel := provider.GuessChannel(text)
	if ch := provider.FindFirst(n, func(c *html.Node) bool {
		return provider.ClassLike(c, "channel", "kanal", "broadcaster")
	}); ch != nil {
		if t := provider.Text(ch); t != "" {
			channel = t
		}
	}
	if channel == "" {
		channel = "Unknown channel"
	}

	home, away := event.ExtractTeams(title)
	title = event.FormatMatchTitle(title, home, away)

	sport := event.Classify(provider.Attr(n, "class") + " " + text)

	ev := event.Event{
		Title:     title,
		Sport:     sport,
		League:    provider.GuessLeague(text),
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

func listingTitle(n *html.Node, text string) string {
	if el := provider.FindFirst(n, func(c *html.Node) bool {
		return provider.ClassLike(c, "title", "name", "teams") || provider.IsElement(c, "h3", "h4", "strong")
	}); el != nil {
		if t := provider.Text(el); len(t) > 3 {
			return t
		}
	}

	// Strip the clock and trailing broadcaster names from the flat text.
	title := text
	if idx := strings.IndexAny(title, "0123456789"); idx == 0 {
		if sp := strings.IndexByte(title, ' '); sp > 0 {
			title = title[sp+1:]
		}
	}
	if ch := provider.GuessChannel(title); ch != "" {
		if idx := strings.Index(strings.ToLower(title), strings.ToLower(ch)); idx > 0 {
			title = title[:idx]
		}
	}
	title = strings.Join(strings.Fields(title), " ")
	if len(title) > 80 {
		title = strings.TrimSpace(title[:80])
	}
	return strings.TrimSpace(title)
}
