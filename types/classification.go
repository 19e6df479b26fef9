package types

type DisasterType string

const (
	Earthquake  DisasterType = "earthquake"
	Tsunami     DisasterType = "tsunami"
	Flood       DisasterType = "flood"
	Hurricane   DisasterType = "hurricane"
	Tornado     DisasterType = "tornado"
	Storm       DisasterType = "storm"
	Wildfire    DisasterType = "wildfire"
	Volcano     DisasterType = "volcano"
	Landslide   DisasterType = "landslide"
	Blizzard    DisasterType = "blizzard"
	Drought     DisasterType = "drought"
	Other       DisasterType = "other"
	NonDisaster DisasterType = "none"
)

type Severity string

const (
	Low      Severity = "low"
	Medium   Severity = "medium"
	High     Severity = "high"
	Critical Severity = "critical"
)

type Urgency string

const (
	UrgencyLow       Urgency = "low"
	UrgencyMedium    Urgency = "medium"
	UrgencyHigh      Urgency = "high"
	UrgencyImmediate Urgency = "immediate"
)

// KeywordSignal is the pre-filter's cheap verdict on a post. It is created
// fresh per post, handed to the classifier, and never persisted.
type KeywordSignal struct {
	Score             int      `json:"score"`
	MatchedCategories []string `json:"matchedCategories"`
	MatchedKeywords   []string `json:"matchedKeywords"`
	Location          string   `json:"location"`
	Warrants          bool     `json:"warrants"`
	Confidence        int      `json:"confidence"`
}

// DominantCategory returns the first matched category, which the scorer
// orders by descending contribution.
func (s KeywordSignal) DominantCategory() string {
	if len(s.MatchedCategories) == 0 {
		return ""
	}
	return s.MatchedCategories[0]
}

// ClassificationResult holds the structured output of the classifier stage.
// Immutable once attached to an event; re-classification never overwrites it.
type ClassificationResult struct {
	IsDisaster         bool         `firestore:"isDisaster" json:"isDisaster"`
	DisasterType       DisasterType `firestore:"disasterType" json:"disasterType"`
	Severity           Severity     `firestore:"severity" json:"severity"`
	Confidence         int          `firestore:"confidence" json:"confidence"`
	Location           string       `firestore:"location" json:"location"`
	Urgency            Urgency      `firestore:"urgency" json:"urgency"`
	AffectedPopulation string       `firestore:"affectedPopulation,omitempty" json:"affectedPopulation,omitempty"`
	Timeframe          string       `firestore:"timeframe,omitempty" json:"timeframe,omitempty"`
	Summary            string       `firestore:"summary" json:"summary"`
	KeyIndicators      []string     `firestore:"keyIndicators" json:"keyIndicators"`
	Recommendations    []string     `firestore:"recommendations" json:"recommendations"`
	FromFallback       bool         `firestore:"fromFallback" json:"fromFallback"`
}
