// Package fusion combines independent source votes into one overall
// confidence score, a discrete severity, and the confirmed/unconfirmed
// decision. It never rejects an event on its own initiative; its only
// authority is drawing that line from the votes it is given.
package fusion

import (
	"strings"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/types"
)

const (
	// ConfirmationThreshold is the single most important tunable in the
	// system: overall confidence must exceed it for disasterConfirmed.
	ConfirmationThreshold = 70

	agreementBoost = 10
	boostCeiling   = 95

	criticalMagnitude = 7.0
)

var genericConfirmedGuidance = []string{
	"Follow guidance from local emergency services",
	"Monitor official channels for updates",
}

var genericMonitoringGuidance = []string{
	"Keep monitoring official sources; this report is not yet confirmed",
}

// Fuse fills in the derived fields of a ValidationResult: overall
// confidence, severity, disasterConfirmed, and recommendations.
func Fuse(result types.ValidationResult, disasterType types.DisasterType) types.ValidationResult {
	confirmed := result.ConfirmedSources()

	result.Confidence = overallConfidence(confirmed)
	result.DisasterConfirmed = result.Confidence > ConfirmationThreshold
	result.Severity = deriveSeverity(result)
	result.Recommendations = append(result.Recommendations, recommendations(disasterType, result.DisasterConfirmed)...)

	return result
}

// overallConfidence averages the confirmed votes and boosts for source
// agreement. With more than one confirmed source the result never drops
// below the strongest single vote: agreement must not weaken evidence.
func overallConfidence(confirmed []types.ValidationSource) int {
	if len(confirmed) == 0 {
		return 0
	}

	sum := 0
	maxVote := 0
	for _, vote := range confirmed {
		sum += vote.Confidence
		if vote.Confidence > maxVote {
			maxVote = vote.Confidence
		}
	}
	confidence := sum / len(confirmed)

	if len(confirmed) > 1 {
		confidence += (len(confirmed) - 1) * agreementBoost
		if confidence > boostCeiling {
			confidence = boostCeiling
		}
		if floor := types.ClampConfidence(maxVote); confidence < floor {
			confidence = floor
		}
	}

	return types.ClampConfidence(confidence)
}

// deriveSeverity applies the severity ladder in priority order.
func deriveSeverity(result types.ValidationResult) types.Severity {
	if result.Confidence < 50 {
		return types.Low
	}

	for _, alert := range result.OfficialAlerts {
		if strings.Contains(strings.ToLower(alert.Severity), "extreme") ||
			strings.Contains(strings.ToLower(alert.AlertType), "warning") {
			return types.Critical
		}
	}
	for _, reading := range result.SeismicData {
		if reading.Magnitude > criticalMagnitude {
			return types.Critical
		}
	}

	switch {
	case result.Confidence > 85:
		return types.High
	case result.Confidence > ConfirmationThreshold:
		return types.Medium
	default:
		return types.Low
	}
}

// recommendations returns the per-type action list plus generic guidance
// when confirmed, or monitoring guidance otherwise.
func recommendations(disasterType types.DisasterType, confirmed bool) []string {
	if !confirmed {
		return genericMonitoringGuidance
	}
	profile := types.ProfileFor(disasterType)
	recs := make([]string, 0, len(profile.Actions)+len(genericConfirmedGuidance))
	recs = append(recs, profile.Actions...)
	recs = append(recs, genericConfirmedGuidance...)
	return recs
}
