package event

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want Sport
	}{
		{"Sverige - Schweiz, Ishockey-VM", SportHockey},
		{"Premier League: Arsenal - Chelsea", SportFootball},
		{"PGA Tour: BMW Championship", SportGolf},
		{"Skidskytte: Sprint damer", SportWinterSports},
		{"Formel 1: Monacos GP", SportMotorsport},
		{"Premier Padel: Milano", SportPadel},
		{"V75 från Solvalla", SportHorseRacing},
		{"Snooker: UK Championship", SportSnooker},
		{"NBA: Lakers - Celtics", SportBasketball},
		{"ATP Stockholm Open", SportTennis},
		{"Melodifestivalen", SportOther},
	}
	for _, tt := range tests {
		if got := Classify(tt.text); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestClassifyLongestKeywordWins(t *testing.T) {
	// "champions league" must match before the shorter hockey "shl" could
	// ever be probed, and multi-word keywords before their fragments.
	if got := Classify("Champions League: Real Madrid - Bayern"); got != SportFootball {
		t.Fatalf("got %s, want football", got)
	}
}

func TestExtractTeams(t *testing.T) {
	tests := []struct {
		title      string
		home, away string
	}{
		{"Sverige - Schweiz", "Sverige", "Schweiz"},
		{"Arsenal vs Chelsea", "Arsenal", "Chelsea"},
		{"AIK mot Djurgården", "AIK", "Djurgården"},
		{"Sverige - Schweiz (VM)", "Sverige", "Schweiz"},
		{"SverigeTjeckien", "Sverige", "Tjeckien"},
		{"BMW Championship, runda 2", "", ""},
	}
	for _, tt := range tests {
		home, away := ExtractTeams(tt.title)
		if home != tt.home || away != tt.away {
			t.Errorf("ExtractTeams(%q) = (%q, %q), want (%q, %q)",
				tt.title, home, away, tt.home, tt.away)
		}
	}
}

func TestFormatMatchTitle(t *testing.T) {
	if got := FormatMatchTitle("SverigeTjeckien", "Sverige", "Tjeckien"); got != "Sverige - Tjeckien" {
		t.Errorf("got %q", got)
	}
	// Titles that already carry a separator stay untouched.
	if got := FormatMatchTitle("Sverige - Tjeckien", "Sverige", "Tjeckien"); got != "Sverige - Tjeckien" {
		t.Errorf("got %q", got)
	}
	if got := FormatMatchTitle("BMW Championship", "", ""); got != "BMW Championship" {
		t.Errorf("got %q", got)
	}
}

func TestIdentityStableAcrossCasingAndWhitespace(t *testing.T) {
	start := time.Date(2026, 3, 14, 19, 45, 0, 0, time.UTC)
	a := Event{Title: "Sverige-Schweiz", Sport: SportHockey, StartTime: start, Channel: "Telia"}
	b := Event{Title: "Sverige - Schweiz", Sport: SportHockey, StartTime: start.Add(20 * time.Second), Channel: "telia"}

	if a.Identity() != b.Identity() {
		t.Errorf("identities differ: %s vs %s", a.Identity(), b.Identity())
	}

	c := b
	c.Channel = "SVT1"
	if a.Identity() == c.Identity() {
		t.Error("different channels must not share an identity")
	}

	d := a
	d.StartTime = start.Add(time.Minute)
	if a.Identity() == d.Identity() {
		t.Error("different start minutes must not share an identity")
	}
}

func TestLiveAt(t *testing.T) {
	now := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	end := now.Add(10 * time.Minute)

	running := Event{StartTime: now.Add(-10 * time.Minute), EndTime: &end}
	if !running.LiveAt(now) {
		t.Error("event spanning now must be live")
	}

	future := Event{StartTime: now.Add(5 * time.Minute)}
	if future.LiveAt(now) {
		t.Error("future event must not be live")
	}

	openEnded := Event{StartTime: now.Add(-time.Hour)}
	if !openEnded.LiveAt(now) {
		t.Error("started event with unknown end must be live")
	}

	past := now.Add(-time.Minute)
	finished := Event{StartTime: now.Add(-2 * time.Hour), EndTime: &past}
	if finished.LiveAt(now) {
		t.Error("finished event must not be live")
	}
}

func TestParseSport(t *testing.T) {
	if sport, ok := ParseSport("Hockey"); !ok || sport != SportHockey {
		t.Errorf("got (%s, %v)", sport, ok)
	}
	if _, ok := ParseSport("cricket"); ok {
		t.Error("cricket is not in the taxonomy")
	}
}
