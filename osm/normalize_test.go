package osm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeElementNode(t *testing.T) {
	el := element{
		Type: "node",
		ID:   7,
		Lat:  52.5,
		Lon:  13.4,
		Tags: map[string]string{
			"name":          "Pho King",
			"amenity":       "restaurant",
			"cuisine":       "vietnamese",
			"opening_hours": "Mo-Sa 12:00-22:00",
			"addr:city":     "Berlin",
		},
	}

	c, ok := normalizeElement(el)

	require.True(t, ok)
	assert.Equal(t, int64(7), c.ID)
	assert.Equal(t, "Pho King", c.Name)
	assert.Equal(t, "vietnamese", c.Cuisine)
	assert.Equal(t, "Berlin", c.City)
	assert.Equal(t, "unknown", c.Street)
	assert.Equal(t, "unknown", c.Neighborhood)
	assert.Equal(t, 52.5, c.Location.Lat)
}

func TestNormalizeElementSkipsUnnamed(t *testing.T) {
	el := element{
		Type: "node",
		ID:   8,
		Lat:  52.5,
		Lon:  13.4,
		Tags: map[string]string{"amenity": "cafe"},
	}

	_, ok := normalizeElement(el)

	assert.False(t, ok)
}

func TestNormalizeElementSkipsBlankName(t *testing.T) {
	el := element{
		Type: "node",
		Lat:  52.5,
		Lon:  13.4,
		Tags: map[string]string{"name": "   "},
	}

	_, ok := normalizeElement(el)

	assert.False(t, ok)
}

func TestNormalizeElementWayUsesCenter(t *testing.T) {
	el := element{
		Type:   "way",
		ID:     9,
		Center: &latLon{Lat: 48.2, Lon: 16.37},
		Tags:   map[string]string{"name": "Gasthaus Wien", "amenity": "pub"},
	}

	c, ok := normalizeElement(el)

	require.True(t, ok)
	assert.Equal(t, 48.2, c.Location.Lat)
	assert.Equal(t, 16.37, c.Location.Lon)
}

func TestNormalizeElementSkipsMissingCoordinates(t *testing.T) {
	el := element{
		Type: "way",
		Tags: map[string]string{"name": "Ghost Diner"},
	}

	_, ok := normalizeElement(el)

	assert.False(t, ok)
}

func TestTagOrUnknownBlankValue(t *testing.T) {
	tags := map[string]string{"cuisine": "  "}

	assert.Equal(t, "unknown", tagOrUnknown(tags, "cuisine"))
}
