package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/types"
)

type fakeStore struct {
	mu      sync.Mutex
	saves   int
	updates int
	states  map[string]interface{}
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{states: map[string]interface{}{}}
}

func (f *fakeStore) SaveEvent(_ context.Context, event *types.DisasterEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	f.states[event.ID] = event.State
	return f.err
}

func (f *fakeStore) UpdateEvent(_ context.Context, id string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if state, ok := fields["state"]; ok {
		f.states[id] = state
	}
	return f.err
}

func (f *fakeStore) stateOf(id string) interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states[id]
}

type fakeClassifier struct {
	result types.ClassificationResult
	calls  int
}

func (f *fakeClassifier) Classify(_ context.Context, _ string, _ types.KeywordSignal) types.ClassificationResult {
	f.calls++
	return f.result
}

type fakeValidator struct {
	result    types.ValidationResult
	point     *types.GeoPoint
	calls     int
	locations []string
}

func (f *fakeValidator) Validate(_ context.Context, _ types.DisasterType, location string, _ time.Time) (types.ValidationResult, *types.GeoPoint) {
	f.calls++
	f.locations = append(f.locations, location)
	return f.result, f.point
}

type fakeAlerter struct {
	mu     sync.Mutex
	events []*types.DisasterEvent
	err    error
}

func (f *fakeAlerter) CreateAlert(_ context.Context, event *types.DisasterEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

type fakeRefiner struct {
	location string
	calls    int
}

func (f *fakeRefiner) Refine(_ context.Context, _ string) string {
	f.calls++
	return f.location
}

func newPost(text string) types.RawPost {
	return types.RawPost{
		ID:        "post-1",
		Content:   text,
		Platform:  "bluesky",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func TestProcessNonDisasterStaysClassified(t *testing.T) {
	classifier := &fakeClassifier{result: types.ClassificationResult{
		IsDisaster:   false,
		DisasterType: types.NonDisaster,
		Confidence:   95,
		Severity:     types.Low,
	}}
	validator := &fakeValidator{}
	p := New(newFakeStore(), classifier, validator)

	event := p.Process(context.Background(), newPost("just watched a great movie about earthquakes"))

	assert.Equal(t, types.StateClassified, event.State)
	assert.Equal(t, 0, validator.calls, "non-disasters never reach validation")
	assert.Nil(t, event.Validation)
	assert.NotEmpty(t, event.ClassifiedAt)
	assert.Empty(t, event.ValidatedAt)
}

func TestProcessEarthquakeEndsAlerted(t *testing.T) {
	classifier := &fakeClassifier{result: types.ClassificationResult{
		IsDisaster:   true,
		DisasterType: types.Earthquake,
		Location:     "San Francisco",
		Confidence:   85,
		Severity:     types.High,
	}}
	point := &types.GeoPoint{Lat: 37.7749, Long: -122.4194}
	validator := &fakeValidator{
		result: types.ValidationResult{
			Confidence:        90,
			DisasterConfirmed: true,
			Severity:          types.Critical,
		},
		point: point,
	}
	alerter := &fakeAlerter{}
	p := New(newFakeStore(), classifier, validator, WithAlerter(alerter))

	event := p.Process(context.Background(), newPost("Massive earthquake in San Francisco, magnitude 7.2!"))

	assert.Equal(t, types.StateAlerted, event.State)
	assert.Equal(t, 90, event.Confidence)
	assert.Equal(t, types.Critical, event.Severity)
	assert.Equal(t, point, event.Coordinate)
	assert.NotEmpty(t, event.AlertedAt)
	require.Len(t, alerter.events, 1)
	assert.Equal(t, event.ID, alerter.events[0].ID)
}

func TestProcessLowConfidenceDisasterSkipsValidation(t *testing.T) {
	classifier := &fakeClassifier{result: types.ClassificationResult{
		IsDisaster:   true,
		DisasterType: types.Flood,
		Confidence:   55,
	}}
	validator := &fakeValidator{}
	p := New(newFakeStore(), classifier, validator)

	event := p.Process(context.Background(), newPost("maybe some flooding somewhere?"))

	assert.Equal(t, types.StateClassified, event.State)
	assert.Equal(t, 0, validator.calls)
}

func TestProcessRejectionLowersConfidence(t *testing.T) {
	classifier := &fakeClassifier{result: types.ClassificationResult{
		IsDisaster:   true,
		DisasterType: types.Flood,
		Location:     "Houston",
		Confidence:   80,
		Severity:     types.High,
	}}
	validator := &fakeValidator{
		result: types.ValidationResult{
			Confidence:        0,
			DisasterConfirmed: false,
			Severity:          types.Low,
		},
	}
	alerter := &fakeAlerter{}
	p := New(newFakeStore(), classifier, validator, WithAlerter(alerter))

	event := p.Process(context.Background(), newPost("Flooding in Houston right now"))

	assert.Equal(t, types.StateValidated, event.State)
	assert.Equal(t, 55, event.Confidence, "rejection costs a fixed penalty")
	assert.Equal(t, types.Low, event.Severity)
	assert.Empty(t, alerter.events)
	assert.Empty(t, event.AlertedAt)
}

func TestAdjustConfidence(t *testing.T) {
	confirmed := func(c int) types.ValidationResult {
		return types.ValidationResult{DisasterConfirmed: true, Confidence: c}
	}
	rejected := types.ValidationResult{DisasterConfirmed: false}

	tests := []struct {
		name    string
		current int
		result  types.ValidationResult
		want    int
	}{
		{"confirmation raises to validation confidence", 70, confirmed(90), 90},
		{"confirmation never lowers", 90, confirmed(70), 90},
		{"confirmation respects ceiling", 80, confirmed(99), 95},
		{"rejection subtracts penalty", 80, rejected, 55},
		{"rejection respects floor", 20, rejected, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, adjustConfidence(tt.current, tt.result))
		})
	}
}

func TestClassifyLocationFallsBackToKeywordSignal(t *testing.T) {
	// The classifier returned no location, but the keyword pass finds one.
	classifier := &fakeClassifier{result: types.ClassificationResult{
		IsDisaster:   true,
		DisasterType: types.Flood,
		Confidence:   80,
	}}
	validator := &fakeValidator{}
	p := New(newFakeStore(), classifier, validator)

	p.Process(context.Background(), newPost("Severe flooding in Houston, streets underwater"))

	require.Len(t, validator.locations, 1)
	assert.Equal(t, "Houston", validator.locations[0])
}

func TestClassifyLocationFallsBackToRefiner(t *testing.T) {
	classifier := &fakeClassifier{result: types.ClassificationResult{
		IsDisaster:   true,
		DisasterType: types.Flood,
		Confidence:   80,
	}}
	validator := &fakeValidator{}
	refiner := &fakeRefiner{location: "Lisbon"}
	p := New(newFakeStore(), classifier, validator, WithLocationRefiner(refiner))

	p.Process(context.Background(), newPost("massive flooding downtown, water rising fast"))

	assert.Equal(t, 1, refiner.calls)
	require.Len(t, validator.locations, 1)
	assert.Equal(t, "Lisbon", validator.locations[0])
}

func TestProcessSurvivesStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("unavailable")
	classifier := &fakeClassifier{result: types.ClassificationResult{
		IsDisaster:   false,
		DisasterType: types.NonDisaster,
		Confidence:   90,
	}}
	p := New(store, classifier, &fakeValidator{})

	event := p.Process(context.Background(), newPost("nothing happening here"))

	assert.Equal(t, types.StateClassified, event.State, "persistence failures never stall the pipeline")
}

func TestQueuedLifecycle(t *testing.T) {
	store := newFakeStore()
	classifier := &fakeClassifier{result: types.ClassificationResult{
		IsDisaster:   true,
		DisasterType: types.Earthquake,
		Location:     "Tokyo",
		Confidence:   85,
	}}
	validator := &fakeValidator{
		result: types.ValidationResult{
			Confidence:        90,
			DisasterConfirmed: true,
			Severity:          types.Critical,
		},
		point: &types.GeoPoint{Lat: 35.68, Long: 139.69},
	}
	p := New(store, classifier, validator, WithWorkers(2))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	event := p.Submit(ctx, newPost("Huge earthquake in Tokyo just now"))
	p.Stop()

	assert.Equal(t, types.StateAlerted, event.State)
	assert.Equal(t, types.StateAlerted, store.stateOf(event.ID))
	assert.Equal(t, 1, classifier.calls)
	assert.Equal(t, 1, validator.calls)
}
