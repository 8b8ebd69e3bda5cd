package osm

import (
	"strings"

	"github.com/forkcast/forkcast/models"
)

// normalizeElement converts a raw Overpass element into a Candidate.
// Elements without a name are dropped: the ranking pipeline needs a
// textual identity to embed, and nameless nodes are mostly mapping noise.
// Ways carry coordinates in their computed center instead of lat/lon.
func normalizeElement(el element) (models.Candidate, bool) {
	name, ok := el.Tags["name"]
	if !ok || strings.TrimSpace(name) == "" {
		return models.Candidate{}, false
	}

	lat, lon := el.Lat, el.Lon
	if el.Center != nil {
		lat, lon = el.Center.Lat, el.Center.Lon
	}
	if lat == 0 && lon == 0 {
		return models.Candidate{}, false
	}

	return models.Candidate{
		ID:           el.ID,
		Name:         name,
		Cuisine:      tagOrUnknown(el.Tags, "cuisine"),
		OpeningHours: tagOrUnknown(el.Tags, "opening_hours"),
		Location:     models.NewLocation(lat, lon),
		City:         tagOrUnknown(el.Tags, "addr:city"),
		Street:       tagOrUnknown(el.Tags, "addr:street"),
		Neighborhood: tagOrUnknown(el.Tags, "addr:suburb"),
		HouseNumber:  tagOrUnknown(el.Tags, "addr:housenumber"),
		Amenity:      tagOrUnknown(el.Tags, "amenity"),
	}, true
}

func tagOrUnknown(tags map[string]string, key string) string {
	if v, ok := tags[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}

	return models.UnknownValue
}
