package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forkcast/forkcast/models"
)

func TestHaversineKnownDistance(t *testing.T) {
	berlin := models.NewLocation(52.52, 13.405)
	munich := models.NewLocation(48.1351, 11.582)

	// Great-circle distance Berlin - Munich is just over 504 km.
	assert.InDelta(t, 504.4, Haversine(berlin, munich), 1.5)
}

func TestHaversineZeroForSamePoint(t *testing.T) {
	p := models.NewLocation(40.7128, -74.006)

	assert.Equal(t, 0.0, Haversine(p, p))
}

func TestHaversineSymmetric(t *testing.T) {
	a := models.NewLocation(52.52, 13.405)
	b := models.NewLocation(52.4, 13.1)

	assert.InDelta(t, Haversine(a, b), Haversine(b, a), 1e-12)
}

func TestHaversineShortDistance(t *testing.T) {
	a := models.NewLocation(52.52, 13.405)
	b := models.NewLocation(52.521, 13.405)

	// One millidegree of latitude is ~111.2 meters.
	assert.InDelta(t, 0.11119, Haversine(a, b), 1e-4)
}

func TestDistanceScore(t *testing.T) {
	tests := []struct {
		name       string
		distanceKm float64
		radiusM    float64
		want       float64
	}{
		{"at user location", 0, 1000, 1},
		{"half the radius", 0.5, 1000, 0.5},
		{"quarter of the radius", 0.25, 1000, 0.75},
		{"exactly at radius", 1.0, 1000, 0},
		{"beyond radius clamps to zero", 2.5, 1000, 0},
		{"wide radius", 1.0, 4000, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DistanceScore(tt.distanceKm, tt.radiusM), 1e-9)
		})
	}
}

func TestDistanceScoreMonotonic(t *testing.T) {
	closer := DistanceScore(0.2, 1000)
	farther := DistanceScore(0.8, 1000)

	assert.Greater(t, closer, farther)
}

func TestDistanceScoreZeroRadius(t *testing.T) {
	assert.Equal(t, 0.0, DistanceScore(0.5, 0))
}
