// Package geo computes the geographic half of the ranking score:
// great-circle distance between the user and a candidate, and its
// mapping onto a bounded closeness score.
package geo

import (
	"math"

	"github.com/forkcast/forkcast/models"
)

const earthRadiusKm = 6371

// Haversine returns the great-circle distance between two coordinates
// in kilometers.
func Haversine(a, b models.Location) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// DistanceScore maps a distance to [0, 1]: 1 at the user's position,
// decaying linearly to 0 at the search radius. Anything at or beyond the
// radius clamps to 0; the fetch radius already bounds candidates upstream,
// so the clamp only covers boundary noise.
func DistanceScore(distanceKm, radiusMeters float64) float64 {
	if radiusMeters <= 0 {
		return 0
	}

	score := 1 - distanceKm/(radiusMeters/1000)
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	}

	return score
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
