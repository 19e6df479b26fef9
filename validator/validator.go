// Package validator cross-checks a disaster classification against
// independent authoritative sources. Source queries fan out concurrently;
// any single failure degrades to an absent vote and never aborts the rest.
package validator

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/fusion"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/geo"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/geocode"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/sources"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/types"
)

const (
	// Seismic catalog search bounds.
	seismicWindow   = 2 * time.Hour // centered on the event time
	seismicRadiusKM = 500.0
	minMagnitude    = 4.0

	// Seismic vote scoring.
	seismicBaseConfidence = 90
	nearDistanceKM        = 100.0
	strongMagnitude       = 5.0

	// Wildfire detection bounds.
	fireRadiusKM          = 50.0
	minDetectionConf      = 30
	maxFireVoteConfidence = 90

	// Types without a dedicated integration get one provisional vote.
	provisionalConfidence = 50

	fanOutBudget = 15 * time.Second
)

// errSkipped marks a source with no configuration; skipped sources are not
// logged as failures.
var errSkipped = errors.New("source not configured")

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

// Validator dispatches to a disaster-type-specific strategy and gathers
// every source's vote into a fused ValidationResult.
type Validator struct {
	geocoder   geocode.Geocoder
	seismic    []sources.SeismicCatalog
	alerts     sources.AlertFeed
	conditions sources.ConditionsSource
	fire       sources.FireDetector
}

func New(
	geocoder geocode.Geocoder,
	seismic []sources.SeismicCatalog,
	alerts sources.AlertFeed,
	conditions sources.ConditionsSource,
	fire sources.FireDetector,
) *Validator {
	return &Validator{
		geocoder:   geocoder,
		seismic:    seismic,
		alerts:     alerts,
		conditions: conditions,
		fire:       fire,
	}
}

// Validate cross-checks a claimed disaster at a free-text location around
// the given event time. A missing or un-geocodable location is a
// data-quality outcome, not an error: it short-circuits to an unconfirmed
// zero-confidence result without touching any source.
func (v *Validator) Validate(ctx context.Context, disasterType types.DisasterType, location string, eventTime time.Time) (types.ValidationResult, *types.GeoPoint) {
	result := types.ValidationResult{
		ValidatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	point, ok := v.resolveLocation(ctx, location)
	if !ok {
		result.Recommendations = append(result.Recommendations,
			"Location could not be determined; unable to verify against official sources")
		return fusion.Fuse(result, disasterType), nil
	}

	ctx, cancel := context.WithTimeout(ctx, fanOutBudget)
	defer cancel()

	switch disasterType {
	case types.Earthquake:
		v.validateSeismic(ctx, point, eventTime, &result)
	case types.Flood, types.Hurricane, types.Tornado, types.Storm, types.Blizzard:
		v.validateWeather(ctx, disasterType, point, &result)
	case types.Wildfire:
		v.validateWildfire(ctx, point, &result)
	default:
		// Provisional until a dedicated integration exists for the type.
		result.Sources = append(result.Sources, types.ValidationSource{
			Name:       "Provisional",
			Confirmed:  true,
			Confidence: provisionalConfidence,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		})
	}

	profile := types.ProfileFor(disasterType)
	result.AffectedArea = &types.AffectedArea{
		Center:   point,
		RadiusKM: profile.AffectedRadiusKM,
	}

	return fusion.Fuse(result, disasterType), &point
}

func (v *Validator) resolveLocation(ctx context.Context, location string) (types.GeoPoint, bool) {
	if location == "" || v.geocoder == nil {
		return types.GeoPoint{}, false
	}
	resolved, found, err := v.geocoder.Geocode(ctx, location)
	if err != nil {
		log.Printf("Validator: geocoding %q failed: %v", location, err)
		return types.GeoPoint{}, false
	}
	if !found {
		return types.GeoPoint{}, false
	}
	return resolved.Point, true
}

// validateSeismic queries every configured seismic catalog concurrently
// for events in a window centered on the report time.
func (v *Validator) validateSeismic(ctx context.Context, point types.GeoPoint, eventTime time.Time, result *types.ValidationResult) {
	query := sources.SeismicQuery{
		Center:       point,
		RadiusKM:     seismicRadiusKM,
		Start:        eventTime.Add(-seismicWindow / 2),
		End:          eventTime.Add(seismicWindow / 2),
		MinMagnitude: minMagnitude,
	}

	type catalogResult struct {
		name     string
		readings []types.SeismicReading
	}

	resultsChan := make(chan catalogResult, len(v.seismic))
	var wg sync.WaitGroup
	for _, catalog := range v.seismic {
		wg.Add(1)
		go func(catalog sources.SeismicCatalog) {
			defer wg.Done()
			readings, err := catalog.Query(ctx, query)
			if err != nil {
				log.Printf("Validator: seismic catalog %s failed: %v", catalog.Name(), err)
				return
			}
			resultsChan <- catalogResult{name: catalog.Name(), readings: readings}
		}(catalog)
	}
	wg.Wait()
	close(resultsChan)

	now := time.Now().UTC().Format(time.RFC3339)
	for res := range resultsChan {
		for _, reading := range res.readings {
			reading.DistanceKM = geo.HaversineKM(point.Lat, point.Long, reading.Lat, reading.Long)
			result.SeismicData = append(result.SeismicData, reading)
			result.Sources = append(result.Sources, types.ValidationSource{
				Name:       res.name,
				Confirmed:  reading.Magnitude >= minMagnitude && reading.DistanceKM <= seismicRadiusKM,
				Confidence: seismicVoteConfidence(reading),
				Data:       reading,
				Timestamp:  now,
			})
		}
	}
}

// seismicVoteConfidence starts high and is penalized for distance from the
// report and for weak magnitudes.
func seismicVoteConfidence(reading types.SeismicReading) int {
	confidence := float64(seismicBaseConfidence)
	if reading.DistanceKM > nearDistanceKM {
		confidence -= (reading.DistanceKM - nearDistanceKM) / 10
	}
	if reading.Magnitude < strongMagnitude {
		confidence -= (strongMagnitude - reading.Magnitude) * 10
	}
	if confidence < 0 {
		confidence = 0
	}
	return int(confidence)
}

// validateWeather consults the official alert feed and current conditions
// concurrently, in the style of the concurrent analysis calls joined with
// a WaitGroup elsewhere in the pipeline.
func (v *Validator) validateWeather(ctx context.Context, disasterType types.DisasterType, point types.GeoPoint, result *types.ValidationResult) {
	var (
		alerts     []types.OfficialAlert
		reading    types.MeteorologicalReading
		alertErr   error
		readingErr error
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if v.alerts == nil {
			alertErr = errSkipped
			return
		}
		alerts, alertErr = v.alerts.ActiveAlerts(ctx, point)
	}()
	go func() {
		defer wg.Done()
		if v.conditions == nil {
			readingErr = errSkipped
			return
		}
		reading, readingErr = v.conditions.Current(ctx, point)
	}()
	wg.Wait()

	now := time.Now().UTC().Format(time.RFC3339)
	profile := types.ProfileFor(disasterType)

	if alertErr != nil {
		if alertErr != errSkipped {
			log.Printf("Validator: alert feed failed: %v", alertErr)
		}
	} else {
		for _, alert := range alerts {
			matched := matchesAlertName(alert.AlertType, profile.AlertNames)
			confidence := 20
			if matched {
				confidence = 95
			}
			result.OfficialAlerts = append(result.OfficialAlerts, alert)
			result.Sources = append(result.Sources, types.ValidationSource{
				Name:       alert.Source,
				Confirmed:  matched,
				Confidence: confidence,
				Data:       alert,
				Timestamp:  now,
			})
		}
	}

	if readingErr != nil {
		if readingErr != errSkipped {
			log.Printf("Validator: conditions source failed: %v", readingErr)
		}
		return
	}
	confirmed := conditionsConfirm(disasterType, reading)
	confidence := 30
	if confirmed {
		confidence = 80
	}
	result.WeatherData = append(result.WeatherData, reading)
	result.Sources = append(result.Sources, types.ValidationSource{
		Name:       reading.Source,
		Confirmed:  confirmed,
		Confidence: confidence,
		Data:       reading,
		Timestamp:  now,
	})
}

// validateWildfire checks satellite active-fire detections near the point.
func (v *Validator) validateWildfire(ctx context.Context, point types.GeoPoint, result *types.ValidationResult) {
	if v.fire == nil {
		return
	}
	detections, err := v.fire.Detections(ctx, point, fireRadiusKM)
	if err != nil {
		log.Printf("Validator: fire detector failed: %v", err)
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, detection := range detections {
		if detection.DistanceKM > fireRadiusKM || detection.Confidence <= minDetectionConf {
			continue
		}
		confidence := detection.Confidence
		if confidence > maxFireVoteConfidence {
			confidence = maxFireVoteConfidence
		}
		result.Sources = append(result.Sources, types.ValidationSource{
			Name:       v.fire.Name(),
			Confirmed:  true,
			Confidence: confidence,
			Data:       detection,
			Timestamp:  now,
		})
	}
}

func matchesAlertName(alertType string, names []string) bool {
	for _, name := range names {
		if alertType == name {
			return true
		}
	}
	return false
}

// conditionsConfirm applies per-type heuristics to a current-conditions
// reading. Wind speeds are m/s, precipitation mm/h, temperature Celsius.
func conditionsConfirm(disasterType types.DisasterType, reading types.MeteorologicalReading) bool {
	switch disasterType {
	case types.Flood:
		return isRainCondition(reading.Condition) && reading.Precipitation > 10
	case types.Hurricane:
		return reading.WindSpeed > 33
	case types.Tornado, types.Storm:
		return isThunderstormCondition(reading.Condition) || reading.WindSpeed > 15
	case types.Blizzard:
		return isSnowCondition(reading.Condition) && reading.Temperature < 2
	case types.Wildfire:
		return reading.Temperature > 30 && reading.Humidity < 30
	default:
		return false
	}
}

func isRainCondition(condition string) bool {
	return containsFold(condition, "rain") || containsFold(condition, "drizzle") ||
		containsFold(condition, "thunderstorm")
}

func isThunderstormCondition(condition string) bool {
	return containsFold(condition, "thunder") || containsFold(condition, "storm")
}

func isSnowCondition(condition string) bool {
	return containsFold(condition, "snow") || containsFold(condition, "sleet") ||
		containsFold(condition, "blizzard")
}
