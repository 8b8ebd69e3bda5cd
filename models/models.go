package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
)

// Placeholder rendered for OSM tags the element does not carry.
const UnknownValue = "unknown"

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewLocation(lat, lon float64) Location {
	return Location{
		Lat: lat,
		Lon: lon,
	}
}

// Point returns the location as a go-geom point in lon/lat (XY) order,
// the axis order GeoJSON expects.
func (l Location) Point() *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{l.Lon, l.Lat})
}

// Candidate is a single food place fetched from OpenStreetMap. Candidates
// live for one request only; nothing is cached or persisted between requests.
type Candidate struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Cuisine      string   `json:"cuisine"`
	OpeningHours string   `json:"opening_hours"`
	Location     Location `json:"location"`
	City         string   `json:"city"`
	Street       string   `json:"street"`
	Neighborhood string   `json:"neighborhood"`
	HouseNumber  string   `json:"house_number"`
	Amenity      string   `json:"amenity"`
}

// Description renders the candidate as the text handed to the embedding
// model. Field order and separators are fixed: the same candidate always
// yields the same string, so its embedding is reproducible. Missing fields
// render as "unknown" rather than failing.
func (c *Candidate) Description() string {
	return fmt.Sprintf(
		"%s. Cuisine: %s. Opening hours: %s. Located at coordinates %s, %s. City: %s. Street: %s. Neighborhood: %s. Amenity: %s.",
		orUnknown(c.Name),
		orUnknown(c.Cuisine),
		orUnknown(c.OpeningHours),
		formatCoord(c.Location.Lat),
		formatCoord(c.Location.Lon),
		orUnknown(c.City),
		orUnknown(c.Street),
		orUnknown(c.Neighborhood),
		orUnknown(c.Amenity),
	)
}

// ScoredCandidate is a Candidate with the per-request ranking scores
// attached. semantic_score is the inner product of unit vectors,
// distance_score decays linearly with distance from the user, and
// final_score is their weighted blend.
type ScoredCandidate struct {
	Candidate
	SemanticScore float64 `json:"semantic_score"`
	DistanceKm    float64 `json:"distance_km"`
	DistanceScore float64 `json:"distance_score"`
	FinalScore    float64 `json:"final_score"`
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return UnknownValue
	}

	return s
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
