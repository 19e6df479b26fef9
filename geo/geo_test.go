package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKM(t *testing.T) {
	// San Francisco to Los Angeles, roughly 559 km.
	d := HaversineKM(37.7749, -122.4194, 34.0522, -118.2437)
	assert.InDelta(t, 559, d, 10)

	assert.Zero(t, HaversineKM(37.7749, -122.4194, 37.7749, -122.4194))
}
