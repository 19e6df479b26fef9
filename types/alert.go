package types

import (
	"fmt"
	"time"
)

// Alert is the public artifact produced when a validated event clears
// the alert gate. Alerts expire after the type's active duration.
type Alert struct {
	ID              string       `firestore:"id" json:"id"`
	EventID         string       `firestore:"eventId" json:"eventId"`
	DisasterType    DisasterType `firestore:"disasterType" json:"disasterType"`
	Severity        Severity     `firestore:"severity" json:"severity"`
	Confidence      int          `firestore:"confidence" json:"confidence"`
	Location        string       `firestore:"location" json:"location"`
	Coordinate      *GeoPoint    `firestore:"coordinate,omitempty" json:"coordinate,omitempty"`
	Headline        string       `firestore:"headline" json:"headline"`
	Recommendations []string     `firestore:"recommendations" json:"recommendations"`
	IssuedAt        string       `firestore:"issuedAt" json:"issuedAt"`
	ExpiresAt       string       `firestore:"expiresAt" json:"expiresAt"`
}

// NewAlert derives an alert from an alerted event. The expiry comes
// from the disaster profile's active duration.
func NewAlert(event *DisasterEvent) Alert {
	profile := ProfileFor(event.DisasterType())
	issued := time.Now().UTC()

	location := ""
	if event.Classification != nil {
		location = event.Classification.Location
	}
	var recommendations []string
	if event.Validation != nil {
		recommendations = event.Validation.Recommendations
	}

	headline := fmt.Sprintf("%s %s alert", event.Severity, event.DisasterType())
	if location != "" {
		headline = fmt.Sprintf("%s near %s", headline, location)
	}

	return Alert{
		ID:              event.ID,
		EventID:         event.ID,
		DisasterType:    event.DisasterType(),
		Severity:        event.Severity,
		Confidence:      event.Confidence,
		Location:        location,
		Coordinate:      event.Coordinate,
		Headline:        headline,
		Recommendations: recommendations,
		IssuedAt:        issued.Format(time.RFC3339),
		ExpiresAt:       issued.Add(profile.ActiveDuration).Format(time.RFC3339),
	}
}
