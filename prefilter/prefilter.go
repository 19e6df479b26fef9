package prefilter

import (
	"regexp"
	"sort"
	"strings"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/types"
)

const (
	// warrantThreshold bounds how many posts reach the paid
	// classification stage.
	warrantThreshold = 15

	magnitudeBonus = 10
	locationBonus  = 5
	maxConfidence  = 95
)

// categoryWeights is the fixed per-category score added once per distinct
// keyword matched in that category.
var categoryWeights = map[string]int{
	"seismic":    8,
	"water":      7,
	"weather":    6,
	"fire":       7,
	"winter":     6,
	"geological": 7,
	"impact":     5,
	"emergency":  4,
	"alerts":     3,
}

var categoryKeywords = map[string][]string{
	"seismic": {
		"earthquake", "quake", "tremor", "aftershock", "seismic",
		"epicenter", "richter",
	},
	"water": {
		"flood", "flooding", "flash flood", "tsunami", "storm surge",
		"levee", "inundated", "submerged",
	},
	"weather": {
		"hurricane", "tornado", "cyclone", "typhoon", "thunderstorm",
		"hail", "lightning", "severe weather", "high winds",
	},
	"fire": {
		"wildfire", "forest fire", "brush fire", "bushfire", "flames",
		"burning", "smoke plume", "containment",
	},
	"winter": {
		"blizzard", "snowstorm", "whiteout", "ice storm", "avalanche",
		"freezing rain",
	},
	"geological": {
		"landslide", "mudslide", "rockslide", "sinkhole", "volcanic",
		"eruption", "lava", "ash cloud",
	},
	"impact": {
		"collapsed", "destroyed", "casualties", "injured", "trapped",
		"victims", "death toll", "damage",
	},
	"emergency": {
		"emergency", "evacuate", "evacuation", "rescue", "shelter",
		"first responders", "sos",
	},
	"alerts": {
		"warning", "alert", "watch issued", "advisory", "declared",
	},
}

// magnitudePattern matches numeric magnitude mentions in either order,
// e.g. "magnitude 6.2", "7.2 magnitude", "richter 7".
var magnitudePattern = regexp.MustCompile(`(?i)(?:magnitude|richter)\s*\d+(?:\.\d+)?|\d+(?:\.\d+)?\s*(?:magnitude|richter)`)

// Capitalized-phrase heuristics for candidate locations.
var (
	prepositionLocation = regexp.MustCompile(`\b(?:in|near|at)\s+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)`)
	suffixLocation      = regexp.MustCompile(`\b((?:[A-Z][a-zA-Z]+\s+)+(?:County|City|State|Province))\b`)
)

// Score runs the keyword pre-filter over a post's text. It never fails:
// text with no matches yields score 0 and warrants=false.
func Score(text string) types.KeywordSignal {
	var signal types.KeywordSignal
	lower := strings.ToLower(text)

	categoryScores := make(map[string]int)
	for category, keywords := range categoryKeywords {
		weight := categoryWeights[category]
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				categoryScores[category] += weight
				signal.MatchedKeywords = append(signal.MatchedKeywords, keyword)
			}
		}
	}

	for category, score := range categoryScores {
		signal.Score += score
		signal.MatchedCategories = append(signal.MatchedCategories, category)
	}

	// Dominant category first; ties broken alphabetically so the
	// classifier fallback is deterministic.
	sort.Slice(signal.MatchedCategories, func(i, j int) bool {
		a, b := signal.MatchedCategories[i], signal.MatchedCategories[j]
		if categoryScores[a] != categoryScores[b] {
			return categoryScores[a] > categoryScores[b]
		}
		return a < b
	})
	sort.Strings(signal.MatchedKeywords)

	if magnitudePattern.MatchString(text) {
		signal.Score += magnitudeBonus
	}

	if loc := ExtractLocation(text); loc != "" {
		signal.Location = loc
		signal.Score += locationBonus
	}

	signal.Warrants = signal.Score >= warrantThreshold
	signal.Confidence = signal.Score * 5
	if signal.Confidence > maxConfidence {
		signal.Confidence = maxConfidence
	}

	return signal
}

// ExtractLocation pulls a candidate location string out of free text using
// capitalized-phrase heuristics. Returns "" when nothing plausible is found.
func ExtractLocation(text string) string {
	if m := suffixLocation.FindStringSubmatch(text); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	if m := prepositionLocation.FindStringSubmatch(text); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}
