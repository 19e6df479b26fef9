package validator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/geocode"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/sources"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/types"
)

var sanFrancisco = types.GeoPoint{Lat: 37.7749, Long: -122.4194}

type fakeGeocoder struct {
	point types.GeoPoint
	found bool
	err   error
	calls int
}

func (f *fakeGeocoder) Geocode(_ context.Context, _ string) (geocode.Result, bool, error) {
	f.calls++
	return geocode.Result{Point: f.point}, f.found, f.err
}

type fakeSeismicCatalog struct {
	name     string
	readings []types.SeismicReading
	err      error
	calls    int
}

func (f *fakeSeismicCatalog) Name() string { return f.name }

func (f *fakeSeismicCatalog) Query(_ context.Context, _ sources.SeismicQuery) ([]types.SeismicReading, error) {
	f.calls++
	return f.readings, f.err
}

type fakeAlertFeed struct {
	alerts []types.OfficialAlert
	err    error
	calls  int
}

func (f *fakeAlertFeed) Name() string { return "NWS" }

func (f *fakeAlertFeed) ActiveAlerts(_ context.Context, _ types.GeoPoint) ([]types.OfficialAlert, error) {
	f.calls++
	return f.alerts, f.err
}

type fakeConditions struct {
	reading types.MeteorologicalReading
	err     error
	calls   int
}

func (f *fakeConditions) Name() string { return "OpenWeather" }

func (f *fakeConditions) Current(_ context.Context, _ types.GeoPoint) (types.MeteorologicalReading, error) {
	f.calls++
	return f.reading, f.err
}

type fakeFireDetector struct {
	detections []sources.FireDetection
	err        error
	calls      int
}

func (f *fakeFireDetector) Name() string { return "NASA FIRMS" }

func (f *fakeFireDetector) Detections(_ context.Context, _ types.GeoPoint, _ float64) ([]sources.FireDetection, error) {
	f.calls++
	return f.detections, f.err
}

func TestValidateGeocodeFailureShortCircuits(t *testing.T) {
	geocoder := &fakeGeocoder{found: false}
	catalog := &fakeSeismicCatalog{name: "USGS"}
	feed := &fakeAlertFeed{}
	v := New(geocoder, []sources.SeismicCatalog{catalog}, feed, nil, nil)

	result, point := v.Validate(context.Background(), types.Flood, "garbled nowhere text", time.Now())

	assert.Nil(t, point)
	assert.Equal(t, 0, result.Confidence)
	assert.False(t, result.DisasterConfirmed)
	assert.Equal(t, 0, catalog.calls, "no source may be queried without a location")
	assert.Equal(t, 0, feed.calls)
	require.NotEmpty(t, result.Recommendations)
	assert.Contains(t, result.Recommendations[0], "Location could not be determined")
}

func TestValidateEarthquakeScenario(t *testing.T) {
	// Matching magnitude-7.2 record ~10 km away: vote confidence stays at
	// the 90 base (no distance or magnitude penalty), single source, no
	// boost, confirmed at 90 > 70, critical via magnitude > 7.0.
	geocoder := &fakeGeocoder{point: sanFrancisco, found: true}
	catalog := &fakeSeismicCatalog{
		name: "USGS",
		readings: []types.SeismicReading{{
			Source:    "USGS",
			Magnitude: 7.2,
			Lat:       37.86,
			Long:      -122.45,
			Place:     "10km NE of San Francisco",
		}},
	}
	v := New(geocoder, []sources.SeismicCatalog{catalog}, nil, nil, nil)

	result, point := v.Validate(context.Background(), types.Earthquake, "San Francisco", time.Now())

	require.NotNil(t, point)
	require.Len(t, result.Sources, 1)
	assert.True(t, result.Sources[0].Confirmed)
	assert.Equal(t, 90, result.Sources[0].Confidence)
	assert.Equal(t, 90, result.Confidence)
	assert.True(t, result.DisasterConfirmed)
	assert.Equal(t, types.Critical, result.Severity)
	require.NotNil(t, result.AffectedArea)
	assert.Equal(t, sanFrancisco, result.AffectedArea.Center)
}

func TestValidateSeismicPenalties(t *testing.T) {
	reading := types.SeismicReading{Magnitude: 4.5, DistanceKM: 300}
	// 90 - (300-100)/10 - (5.0-4.5)*10 = 90 - 20 - 5 = 65
	assert.Equal(t, 65, seismicVoteConfidence(reading))

	weak := types.SeismicReading{Magnitude: 0.5, DistanceKM: 900}
	assert.Equal(t, 0, seismicVoteConfidence(weak), "confidence is floored at zero")
}

func TestValidateSeismicSourceFailureDoesNotAbortFanOut(t *testing.T) {
	geocoder := &fakeGeocoder{point: sanFrancisco, found: true}
	failing := &fakeSeismicCatalog{name: "USGS", err: errors.New("timeout")}
	working := &fakeSeismicCatalog{
		name: "EMSC",
		readings: []types.SeismicReading{{
			Source: "EMSC", Magnitude: 6.0, Lat: 37.8, Long: -122.4,
		}},
	}
	v := New(geocoder, []sources.SeismicCatalog{failing, working}, nil, nil, nil)

	result, _ := v.Validate(context.Background(), types.Earthquake, "San Francisco", time.Now())

	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, working.calls)
	require.Len(t, result.Sources, 1, "failed catalog contributes nothing")
	assert.Equal(t, "EMSC", result.Sources[0].Name)
	assert.True(t, result.DisasterConfirmed)
}

func TestValidateTornadoAlertMatching(t *testing.T) {
	geocoder := &fakeGeocoder{point: sanFrancisco, found: true}
	feed := &fakeAlertFeed{alerts: []types.OfficialAlert{
		{Source: "NWS", AlertType: "Tornado Warning", Severity: "Extreme"},
		{Source: "NWS", AlertType: "Special Marine Warning", Severity: "Moderate"},
	}}
	conditions := &fakeConditions{reading: types.MeteorologicalReading{
		Source: "OpenWeather", Condition: "thunderstorm", WindSpeed: 22,
	}}
	v := New(geocoder, nil, feed, conditions, nil)

	result, _ := v.Validate(context.Background(), types.Tornado, "San Francisco", time.Now())

	require.Len(t, result.Sources, 3)
	byConfidence := map[int]int{}
	for _, s := range result.Sources {
		byConfidence[s.Confidence]++
	}
	assert.Equal(t, 1, byConfidence[95], "matching alert name scores 95")
	assert.Equal(t, 1, byConfidence[20], "non-matching alert name scores 20")
	assert.Equal(t, 1, byConfidence[80], "confirming conditions score 80")
	assert.True(t, result.DisasterConfirmed)
	assert.Equal(t, types.Critical, result.Severity)
	assert.Len(t, result.OfficialAlerts, 2)
	assert.Len(t, result.WeatherData, 1)
}

func TestValidateFloodConditionsHeuristic(t *testing.T) {
	dry := types.MeteorologicalReading{Condition: "clear sky", Precipitation: 0}
	assert.False(t, conditionsConfirm(types.Flood, dry))

	lightRain := types.MeteorologicalReading{Condition: "light rain", Precipitation: 2}
	assert.False(t, conditionsConfirm(types.Flood, lightRain))

	heavyRain := types.MeteorologicalReading{Condition: "heavy intensity rain", Precipitation: 14}
	assert.True(t, conditionsConfirm(types.Flood, heavyRain))

	hurricaneWind := types.MeteorologicalReading{Condition: "clear", WindSpeed: 40}
	assert.True(t, conditionsConfirm(types.Hurricane, hurricaneWind))
	assert.False(t, conditionsConfirm(types.Hurricane, types.MeteorologicalReading{WindSpeed: 20}))
}

func TestValidateWildfireDetections(t *testing.T) {
	geocoder := &fakeGeocoder{point: sanFrancisco, found: true}
	detector := &fakeFireDetector{detections: []sources.FireDetection{
		{Confidence: 85, DistanceKM: 12},  // counted, capped below 90
		{Confidence: 95, DistanceKM: 8},   // counted, capped at 90
		{Confidence: 25, DistanceKM: 5},   // too weak
		{Confidence: 80, DistanceKM: 120}, // too far
	}}
	v := New(geocoder, nil, nil, nil, detector)

	result, _ := v.Validate(context.Background(), types.Wildfire, "Santa Rosa", time.Now())

	require.Len(t, result.Sources, 2)
	for _, s := range result.Sources {
		assert.True(t, s.Confirmed)
		assert.LessOrEqual(t, s.Confidence, 90)
	}
	assert.True(t, result.DisasterConfirmed)
}

func TestValidateProvisionalTypes(t *testing.T) {
	geocoder := &fakeGeocoder{point: sanFrancisco, found: true}
	v := New(geocoder, nil, nil, nil, nil)

	result, _ := v.Validate(context.Background(), types.Tsunami, "Hilo", time.Now())

	require.Len(t, result.Sources, 1)
	assert.Equal(t, "Provisional", result.Sources[0].Name)
	assert.Equal(t, 50, result.Sources[0].Confidence)
	assert.True(t, result.Sources[0].Confirmed)
	// A lone provisional vote stays below the confirmation threshold.
	assert.Equal(t, 50, result.Confidence)
	assert.False(t, result.DisasterConfirmed)
}

func TestValidateEmptyLocationSkipsGeocoder(t *testing.T) {
	geocoder := &fakeGeocoder{point: sanFrancisco, found: true}
	v := New(geocoder, nil, nil, nil, nil)

	result, point := v.Validate(context.Background(), types.Flood, "", time.Now())

	assert.Equal(t, 0, geocoder.calls)
	assert.Nil(t, point)
	assert.False(t, result.DisasterConfirmed)
}
