package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkcast/forkcast/models"
	"github.com/forkcast/forkcast/vector"
)

func TestFuseBlendsWeights(t *testing.T) {
	user := models.NewLocation(52.52, 13.405)
	candidates := []models.Candidate{candidateAt("Near Match", 52.52, 13.405)}
	hits := []vector.Hit{{Index: 0, Score: 0.5}}

	scored := fuse(candidates, hits, user, 1000)
	require.Len(t, scored, 1)

	assert.InDelta(t, 0.5, scored[0].SemanticScore, 1e-9)
	assert.InDelta(t, 1.0, scored[0].DistanceScore, 1e-9)
	assert.InDelta(t, 0.6*0.5+0.4*1.0, scored[0].FinalScore, 1e-9)
}

func TestFuseMonotonicInSemanticScore(t *testing.T) {
	user := models.NewLocation(52.52, 13.405)
	candidates := []models.Candidate{candidateAt("Fixed Spot", 52.523, 13.405)}

	prev := -1.0
	for _, sim := range []float64{0, 0.25, 0.5, 0.75, 1} {
		scored := fuse(candidates, []vector.Hit{{Index: 0, Score: sim}}, user, 1000)

		assert.Greater(t, scored[0].FinalScore, prev)
		prev = scored[0].FinalScore
	}
}

func TestFuseMonotonicInDistance(t *testing.T) {
	user := models.NewLocation(52.52, 13.405)
	hits := []vector.Hit{{Index: 0, Score: 0.5}}

	prev := 2.0
	for _, latOffset := range []float64{0, 0.001, 0.002, 0.004, 0.008} {
		candidates := []models.Candidate{candidateAt("Drifting Spot", 52.52+latOffset, 13.405)}
		scored := fuse(candidates, hits, user, 1000)

		assert.Less(t, scored[0].FinalScore, prev)
		prev = scored[0].FinalScore
	}
}

func TestFuseScattersHitsByIndex(t *testing.T) {
	user := models.NewLocation(52.52, 13.405)

	// Hits arrive ordered by similarity, not by fetch order; each score
	// must land on the candidate its index points at.
	candidates := []models.Candidate{
		candidateAt("Weak Match", 52.52, 13.405),
		candidateAt("Strong Match", 52.52, 13.405),
	}
	hits := []vector.Hit{
		{Index: 1, Score: 0.9},
		{Index: 0, Score: 0.1},
	}

	scored := fuse(candidates, hits, user, 1000)
	require.Len(t, scored, 2)

	assert.Equal(t, "Strong Match", scored[0].Name)
	assert.InDelta(t, 0.9, scored[0].SemanticScore, 1e-9)
	assert.Equal(t, "Weak Match", scored[1].Name)
	assert.InDelta(t, 0.1, scored[1].SemanticScore, 1e-9)
}
