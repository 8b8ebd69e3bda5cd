package recommend

import (
	"sort"

	"github.com/forkcast/forkcast/geo"
	"github.com/forkcast/forkcast/models"
	"github.com/forkcast/forkcast/vector"
)

// Fixed fusion weights. Semantic match dominates, distance breaks the
// near/far balance; both inputs live in [0,1], so final scores do too.
const (
	semanticWeight = 0.6
	distanceWeight = 0.4
)

// fuse blends semantic similarity with geographic closeness for every
// candidate and sorts descending by the combined score. Similarity hits are
// scattered back into fetch order before the stable sort, so candidates
// with equal final scores keep the order the data source returned them in.
func fuse(candidates []models.Candidate, hits []vector.Hit, user models.Location, radiusMeters float64) []models.ScoredCandidate {
	scored := make([]models.ScoredCandidate, len(candidates))
	for i, candidate := range candidates {
		distanceKm := geo.Haversine(user, candidate.Location)

		scored[i] = models.ScoredCandidate{
			Candidate:     candidate,
			DistanceKm:    distanceKm,
			DistanceScore: geo.DistanceScore(distanceKm, radiusMeters),
		}
	}

	for _, hit := range hits {
		scored[hit.Index].SemanticScore = hit.Score
	}

	for i := range scored {
		scored[i].FinalScore = semanticWeight*scored[i].SemanticScore + distanceWeight*scored[i].DistanceScore
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].FinalScore > scored[b].FinalScore
	})

	return scored
}
