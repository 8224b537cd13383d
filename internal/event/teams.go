package event

import (
	"regexp"
	"strings"
)

// Title separators the Swedish guides use between home and away teams.
var teamSeparators = []string{" - ", " – ", " — ", " vs ", " mot ", " v "}

var (
	trailingParens = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	// Concatenated team names with no separator, e.g. "SverigeTjeckien" or
	// "PortoMalmö FF": split on the lower-to-upper camel boundary.
	concatTeams = regexp.MustCompile(`^([A-ZÅÄÖ][a-zåäöé]+(?:\s+[A-ZÅÄÖ][a-zåäöé.]+)*)([A-ZÅÄÖ][a-zåäöé]+.*)$`)
)

// ExtractTeams pulls (home, away) out of a match title. Returns empty strings
// for non-match listings such as golf rounds or race broadcasts.
func ExtractTeams(title string) (home, away string) {
	for _, sep := range teamSeparators {
		if !strings.Contains(title, sep) {
			continue
		}
		parts := strings.SplitN(title, sep, 2)
		home = strings.TrimSpace(trailingParens.ReplaceAllString(parts[0], ""))
		away = strings.TrimSpace(trailingParens.ReplaceAllString(parts[1], ""))
		return home, away
	}

	if m := concatTeams.FindStringSubmatch(title); m != nil {
		home = strings.TrimSpace(m[1])
		away = strings.TrimSpace(m[2])
		if len(home) >= 2 && len(away) >= 2 {
			return home, away
		}
	}

	return "", ""
}

// FormatMatchTitle rewrites a concatenated title as "Home - Away" when teams
// were extracted but the title carries no separator. Titles that already read
// well are returned unchanged.
func FormatMatchTitle(title, home, away string) string {
	if home == "" || away == "" {
		return title
	}
	for _, sep := range teamSeparators {
		if strings.Contains(title, sep) {
			return title
		}
	}
	return home + " - " + away
}
