package prefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreNoKeywords(t *testing.T) {
	signal := Score("just had a great sandwich for lunch")

	assert.Equal(t, 0, signal.Score)
	assert.False(t, signal.Warrants)
	assert.Equal(t, 0, signal.Confidence)
	assert.Empty(t, signal.MatchedCategories)
}

func TestScoreEarthquakeScenario(t *testing.T) {
	signal := Score("7.2 magnitude earthquake near San Francisco")

	// earthquake (seismic, +8) and the magnitude bonus (+10) alone put
	// the score over the warrant threshold.
	require.GreaterOrEqual(t, signal.Score, 18)
	assert.True(t, signal.Warrants)
	assert.Equal(t, "seismic", signal.DominantCategory())
	assert.Equal(t, "San Francisco", signal.Location)
}

func TestScoreBoundsHoldForAnyInput(t *testing.T) {
	inputs := []string{
		"",
		"earthquake earthquake earthquake",
		"EARTHQUAKE flood wildfire hurricane tornado blizzard landslide emergency warning evacuate magnitude 9.9 in Los Angeles",
		"magnitude 6.2 tremor aftershock quake seismic epicenter richter scale event",
	}
	for _, input := range inputs {
		signal := Score(input)
		assert.GreaterOrEqual(t, signal.Score, 0, "input %q", input)
		assert.GreaterOrEqual(t, signal.Confidence, 0, "input %q", input)
		assert.LessOrEqual(t, signal.Confidence, 95, "input %q", input)
	}
}

func TestScoreCountsDistinctKeywordsNotOccurrences(t *testing.T) {
	once := Score("wildfire spreading fast")
	twice := Score("wildfire wildfire wildfire spreading fast")

	assert.Equal(t, once.Score, twice.Score)
}

func TestScoreMagnitudeBonusBothOrders(t *testing.T) {
	before := Score("magnitude 6.2 reported")
	after := Score("6.2 magnitude reported")

	assert.Equal(t, magnitudeBonus, before.Score)
	assert.Equal(t, magnitudeBonus, after.Score)
}

func TestExtractLocation(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"massive flooding in Houston right now", "Houston"},
		{"fire spreading near Santa Rosa tonight", "Santa Rosa"},
		{"evacuations underway in Sonoma County area", "Sonoma County"},
		{"nothing capitalized here at all", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractLocation(tt.text), "text %q", tt.text)
	}
}

func TestScoreDominantCategoryOrdering(t *testing.T) {
	// Two seismic keywords (+16) beat one water keyword (+7).
	signal := Score("earthquake tremor caused flooding downtown")

	require.NotEmpty(t, signal.MatchedCategories)
	assert.Equal(t, "seismic", signal.DominantCategory())
}
