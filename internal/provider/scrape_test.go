package provider

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"
)

func parse(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestParseClock(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		text string
		want time.Time
	}{
		{"19:45 Sverige - Schweiz", time.Date(2026, 3, 14, 19, 45, 0, 0, time.UTC)},
		{"Sverige - Schweiz kl 19.45", time.Date(2026, 3, 14, 19, 45, 0, 0, time.UTC)},
		{"9:05 morgonsport", time.Date(2026, 3, 14, 9, 5, 0, 0, time.UTC)},
		{"ingen tid här", time.Time{}},
		{"99:99 trasigt", time.Time{}},
	}
	for _, tt := range tests {
		if got := ParseClock(tt.text, date); !got.Equal(tt.want) {
			t.Errorf("ParseClock(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestFindAllDoesNotDescendIntoMatches(t *testing.T) {
	doc := parse(t, `<div class="match"><div class="match">inner</div></div><div class="match">second</div>`)

	matches := FindAll(doc, func(n *html.Node) bool { return ClassLike(n, "match") })
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2 (nested hit must not duplicate)", len(matches))
	}
}

func TestTextFlattensWithSpaces(t *testing.T) {
	doc := parse(t, `<div><span>19:45</span><strong> Sverige </strong>-<em>Schweiz</em></div>`)
	if got := Text(doc); got != "19:45 Sverige - Schweiz" {
		t.Errorf("Text = %q", got)
	}
}

func TestClassLike(t *testing.T) {
	doc := parse(t, `<div class="Match-Row highlight"></div>`)
	n := FindFirst(doc, func(n *html.Node) bool { return IsElement(n, "div") })
	if n == nil {
		t.Fatal("div not found")
	}
	if !ClassLike(n, "match") {
		t.Error("class matching must be case-insensitive")
	}
	if ClassLike(n, "channel") {
		t.Error("unrelated class must not match")
	}
}

func TestGuessChannel(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"19:45 Sverige - Schweiz TV4 Sport", "TV4 Sport"},
		{"sänds på svt1 ikväll", "SVT1"},
		{"Viasat Hockey visar matchen", "Viasat Hockey"},
		{"ingen kanal nämnd", ""},
	}
	for _, tt := range tests {
		if got := GuessChannel(tt.text); got != tt.want {
			t.Errorf("GuessChannel(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestGuessLeague(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Champions League: Real Madrid - Bayern", "Champions League"},
		{"Hockeyallsvenskan: BIK Karlskoga - AIK", "Hockeyallsvenskan"},
		{"SHL-premiär ikväll", "SHL"},
		{"Sverige möter Schweiz i VM", ""},
	}
	for _, tt := range tests {
		if got := GuessLeague(tt.text); got != tt.want {
			t.Errorf("GuessLeague(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestLooksLive(t *testing.T) {
	if !LooksLive("LIVE: Sverige - Schweiz") {
		t.Error("live marker missed")
	}
	if !LooksLive("Matchen pågår") {
		t.Error("Swedish live marker missed")
	}
	if LooksLive("Sverige - Schweiz 19:45") {
		t.Error("false positive")
	}
}
