package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateDescription(t *testing.T) {
	c := &Candidate{
		ID:           42,
		Name:         "Trattoria Napoli",
		Cuisine:      "italian;pizza",
		OpeningHours: "Mo-Su 11:00-23:00",
		Location:     NewLocation(52.52, 13.405),
		City:         "Berlin",
		Street:       "Torstrasse",
		Neighborhood: "Mitte",
		HouseNumber:  "12",
		Amenity:      "restaurant",
	}

	want := "Trattoria Napoli. Cuisine: italian;pizza. Opening hours: Mo-Su 11:00-23:00. " +
		"Located at coordinates 52.52, 13.405. City: Berlin. Street: Torstrasse. " +
		"Neighborhood: Mitte. Amenity: restaurant."

	assert.Equal(t, want, c.Description())
}

func TestCandidateDescriptionDeterministic(t *testing.T) {
	c := &Candidate{
		Name:     "Cafe Luna",
		Cuisine:  "coffee_shop",
		Location: NewLocation(48.2082, 16.3738),
		Amenity:  "cafe",
	}

	first := c.Description()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Description())
	}
}

func TestCandidateDescriptionMissingFields(t *testing.T) {
	c := &Candidate{
		Name:     "Burgers & Co",
		Location: NewLocation(40.7128, -74.006),
		Amenity:  "fast_food",
	}

	got := c.Description()

	require.NotEmpty(t, got)
	assert.Contains(t, got, "Burgers & Co")
	assert.Contains(t, got, "Cuisine: unknown")
	assert.Contains(t, got, "Opening hours: unknown")
	assert.Contains(t, got, "City: unknown")
	assert.NotContains(t, got, "Cuisine: .")
}

func TestCandidateDescriptionZeroValue(t *testing.T) {
	var c Candidate

	got := c.Description()

	require.NotEmpty(t, got)
	assert.Contains(t, got, "unknown. Cuisine: unknown")
	assert.Contains(t, got, "Located at coordinates 0, 0")
}

func TestLocationPoint(t *testing.T) {
	p := NewLocation(52.52, 13.405).Point()

	require.NotNil(t, p)
	assert.Equal(t, 13.405, p.X())
	assert.Equal(t, 52.52, p.Y())
}
