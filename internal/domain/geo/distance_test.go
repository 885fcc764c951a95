package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_ZeroAtIdentity(t *testing.T) {
	points := [][2]float64{
		{24.7136, 46.6753}, // Riyadh
		{0, 0},
		{-33.8688, 151.2093}, // Sydney
		{90, 0},              // North pole
	}

	for _, p := range points {
		d := Distance(Point(p[0], p[1]), Point(p[0], p[1]))
		assert.Zero(t, d, "distance from a point to itself must be exactly 0")
	}
}

func TestDistance_Symmetry(t *testing.T) {
	pairs := [][4]float64{
		{24.7136, 46.6753, 24.7200, 46.6900},
		{25.0330, 121.5654, 25.0425, 121.5649},
		{-33.8688, 151.2093, 51.5074, -0.1278},
		{0, 179.9, 0, -179.9},
	}

	for _, p := range pairs {
		ab := Distance(Point(p[0], p[1]), Point(p[2], p[3]))
		ba := Distance(Point(p[2], p[3]), Point(p[0], p[1]))
		assert.Equal(t, ab, ba, "distance must be symmetric")
	}
}

func TestDistance_KnownValues(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lng1 float64
		lat2, lng2 float64
		expectedKm float64
		toleranceKm float64
	}{
		{
			name: "nearby fallback contact in Riyadh",
			lat1: 24.7136, lng1: 46.6753,
			lat2: 24.7200, lng2: 46.6900,
			expectedKm:  1.66,
			toleranceKm: 0.05,
		},
		{
			name: "far fallback contact in Riyadh",
			lat1: 24.7136, lng1: 46.6753,
			lat2: 24.8500, lng2: 46.9000,
			expectedKm:  27.3,
			toleranceKm: 0.5,
		},
		{
			name: "one degree of latitude",
			lat1: 10, lng1: 20,
			lat2: 11, lng2: 20,
			expectedKm:  111.2,
			toleranceKm: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Distance(Point(tt.lat1, tt.lng1), Point(tt.lat2, tt.lng2))
			assert.InDelta(t, tt.expectedKm, d, tt.toleranceKm)
		})
	}
}

func TestDistance_AntipodalIsFinite(t *testing.T) {
	d := Distance(Point(0, 0), Point(0, 180))
	assert.False(t, math.IsNaN(d))
	// Half of the Earth's circumference at the mean radius.
	assert.InDelta(t, math.Pi*6371.0, d, 1.0)
}

func TestIsValidCoordinate(t *testing.T) {
	valid := [][2]float64{
		{24.7136, 46.6753},
		{0, 0},
		{-90, 180},
		{90, -180},
	}
	for _, c := range valid {
		assert.True(t, IsValidCoordinate(c[0], c[1]), "coordinate should be valid: %+v", c)
	}

	invalid := [][2]float64{
		{91, 0},
		{-91, 0},
		{0, 181},
		{0, -181},
		{math.NaN(), 0},
		{0, math.Inf(1)},
	}
	for _, c := range invalid {
		assert.False(t, IsValidCoordinate(c[0], c[1]), "coordinate should be invalid: %+v", c)
	}
}
