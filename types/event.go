package types

// EventState is the lifecycle state of a DisasterEvent.
type EventState string

const (
	StateIngested   EventState = "ingested"
	StateClassified EventState = "classified"
	StateValidated  EventState = "validated"
	StateAlerted    EventState = "alerted"
)

const (
	// ConfidenceFloor and ConfidenceCeiling bound the event-level
	// confidence adjustments made after validation.
	ConfidenceFloor   = 10
	ConfidenceCeiling = 95
)

// DisasterEvent is the aggregate tracked through the pipeline: one post,
// its classification, and (if it got that far) its validation outcome.
type DisasterEvent struct {
	ID             string                `firestore:"-" json:"id"`
	Post           RawPost               `firestore:"post" json:"post"`
	Classification *ClassificationResult `firestore:"classification,omitempty" json:"classification,omitempty"`
	Validation     *ValidationResult     `firestore:"validation,omitempty" json:"validation,omitempty"`
	State          EventState            `firestore:"state" json:"state"`
	Coordinate     *GeoPoint             `firestore:"coordinate,omitempty" json:"coordinate,omitempty"`
	Confidence     int                   `firestore:"confidence" json:"confidence"`
	Severity       Severity              `firestore:"severity" json:"severity"`
	IngestedAt     string                `firestore:"ingestedAt" json:"ingestedAt"`
	ClassifiedAt   string                `firestore:"classifiedAt,omitempty" json:"classifiedAt,omitempty"`
	ValidatedAt    string                `firestore:"validatedAt,omitempty" json:"validatedAt,omitempty"`
	AlertedAt      string                `firestore:"alertedAt,omitempty" json:"alertedAt,omitempty"`
}

// DisasterType returns the classified type, or NonDisaster before
// classification has run.
func (e *DisasterEvent) DisasterType() DisasterType {
	if e.Classification == nil {
		return NonDisaster
	}
	return e.Classification.DisasterType
}

// Confirmed reports whether validation confirmed the event.
func (e *DisasterEvent) Confirmed() bool {
	return e.Validation != nil && e.Validation.DisasterConfirmed
}

// ClampConfidence bounds a confidence value to [0,100].
func ClampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
