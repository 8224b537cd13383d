package provider

import (
	"strings"
)

// Channel and league extraction shared by the Swedish guide scrapers. Both
// sites mark these up inconsistently, so element lookups fall back to
// matching known names in the flattened listing text.

// knownChannels lists Swedish sports broadcasters, most specific first so
// "TV4 Sport" is preferred over "TV4".
var knownChannels = []string{
	"TV4 Sport", "TV4+", "TV4",
	"SVT1", "SVT2", "SVT",
	"Eurosport 1", "Eurosport 2", "Eurosport",
	"Viasat Sport", "Viasat Hockey", "Viasat Fotboll", "Viasat",
	"V Sport Premium", "V Sport 1", "V Sport 2", "V Sport",
	"C More Live", "C More Fotboll", "C More Hockey", "C More",
	"Telia", "Kanal 5", "Kanal 9", "TV3", "TV6",
	"Discovery+", "Max",
}

// GuessChannel finds a known broadcaster name in listing text, or "".
func GuessChannel(text string) string {
	lower := strings.ToLower(text)
	for _, ch := range knownChannels {
		if strings.Contains(lower, strings.ToLower(ch)) {
			return ch
		}
	}
	return ""
}

// leaguePatterns maps lowercase listing fragments to display league names,
// checked in order so the more specific entries win.
var leaguePatterns = []struct {
	pattern string
	name    string
}{
	{"champions league", "Champions League"},
	{"europa league", "Europa League"},
	{"conference league", "Conference League"},
	{"premier league", "Premier League"},
	{"premier padel", "Premier Padel Tour"},
	{"la liga", "La Liga"},
	{"serie a", "Serie A"},
	{"bundesliga", "Bundesliga"},
	{"ligue 1", "Ligue 1"},
	{"eredivisie", "Eredivisie"},
	{"hockeyallsvenskan", "Hockeyallsvenskan"},
	{"allsvenskan", "Allsvenskan"},
	{"superettan", "Superettan"},
	{"shl", "SHL"},
	{"nhl", "NHL"},
	{"nba", "NBA"},
	{"atp", "ATP"},
	{"wta", "WTA"},
	{"världscupen", "Världscupen"},
	{"world cup", "World Cup"},
	{"fotbolls-vm", "Fotbolls-VM"},
	{"fotbolls-em", "Fotbolls-EM"},
	{"ishockey-vm", "Ishockey-VM"},
	{"hockey-vm", "Hockey-VM"},
}

// GuessLeague finds a competition name in listing text, or "". Bare "VM",
// "EM" and "OS" are deliberately not matched, they are too often wrong.
func GuessLeague(text string) string {
	lower := strings.ToLower(text)
	for _, lp := range leaguePatterns {
		if strings.Contains(lower, lp.pattern) {
			return lp.name
		}
	}
	return ""
}

// LooksLive reports whether listing text carries a live marker.
func LooksLive(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "live") || strings.Contains(lower, "pågår")
}
