package event

import (
	"sort"
	"strings"
)

// sportKeywords maps lowercase source text fragments to categories. Matching
// is longest-keyword-first so "champions league" wins over "league" and
// "skidskytte" over "vm".
var sportKeywords = map[string]Sport{
	// Football
	"fotboll":           SportFootball,
	"soccer":            SportFootball,
	"premier league":    SportFootball,
	"la liga":           SportFootball,
	"serie a":           SportFootball,
	"bundesliga":        SportFootball,
	"ligue 1":           SportFootball,
	"allsvenskan":       SportFootball,
	"superettan":        SportFootball,
	"champions league":  SportFootball,
	"europa league":     SportFootball,
	"conference league": SportFootball,
	"nations league":    SportFootball,
	"fotbolls-vm":       SportFootball,
	"fotbolls-em":       SportFootball,
	"vm-kval fotboll":   SportFootball,
	"em-kval fotboll":   SportFootball,

	// Hockey
	"ishockey":          SportHockey,
	"hockey":            SportHockey,
	"nhl":               SportHockey,
	"shl":               SportHockey,
	"hockeyallsvenskan": SportHockey,
	"hockeyettan":       SportHockey,
	"tre kronor":        SportHockey,
	"khl":               SportHockey,

	// Basketball
	"basket":     SportBasketball,
	"nba":        SportBasketball,
	"euroleague": SportBasketball,

	// Tennis
	"tennis":          SportTennis,
	"wimbledon":       SportTennis,
	"us open tennis":  SportTennis,
	"australian open": SportTennis,
	"roland garros":   SportTennis,
	"atp":             SportTennis,
	"wta":             SportTennis,

	// Golf
	"golf":      SportGolf,
	"pga":       SportGolf,
	"lpga":      SportGolf,
	"ryder cup": SportGolf,

	// Motorsport
	"formel 1":   SportMotorsport,
	"formel 2":   SportMotorsport,
	"formel 3":   SportMotorsport,
	"formel e":   SportMotorsport,
	"f1":         SportMotorsport,
	"motogp":     SportMotorsport,
	"moto2":      SportMotorsport,
	"moto3":      SportMotorsport,
	"rally":      SportMotorsport,
	"rallycross": SportMotorsport,
	"nascar":     SportMotorsport,
	"indycar":    SportMotorsport,
	"dtm":        SportMotorsport,
	"wrc":        SportMotorsport,

	// Winter sports. The Swedish guides split these into skiing, biathlon,
	// alpine and curling; the feed taxonomy keeps one category.
	"skidor":          SportWinterSports,
	"längdskidor":     SportWinterSports,
	"längdskidåkning": SportWinterSports,
	"skidskytte":      SportWinterSports,
	"biathlon":        SportWinterSports,
	"alpint":          SportWinterSports,
	"slalom":          SportWinterSports,
	"storslalom":      SportWinterSports,
	"störtlopp":       SportWinterSports,
	"super-g":         SportWinterSports,
	"curling":         SportWinterSports,
	"vintersport":     SportWinterSports,

	// Padel
	"padel":         SportPadel,
	"premier padel": SportPadel,

	// Snooker / billiards
	"snooker": SportSnooker,
	"biljard": SportSnooker,

	// Horse racing
	"trav":   SportHorseRacing,
	"galopp": SportHorseRacing,
	"v75":    SportHorseRacing,
}

// sortedKeywords caches the keywords longest-first.
var sortedKeywords = func() []string {
	keys := make([]string, 0, len(sportKeywords))
	for k := range sportKeywords {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// Classify detects the sport category from free text (a title, a section
// header, a CSS class list). Unmapped text falls back to SportOther.
func Classify(text string) Sport {
	lower := strings.ToLower(text)
	for _, keyword := range sortedKeywords {
		if strings.Contains(lower, keyword) {
			return sportKeywords[keyword]
		}
	}
	return SportOther
}
