package vector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	vec := Normalize([]float32{3, 4})

	assert.InDelta(t, 0.6, float64(vec[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(vec[1]), 1e-6)
}

func TestNormalizeUnitNorm(t *testing.T) {
	vec := Normalize([]float32{0.3, -1.7, 2.2, 0.05})

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}

	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
}

func TestNormalizeZeroVector(t *testing.T) {
	vec := Normalize([]float32{0, 0, 0})

	for _, v := range vec {
		assert.False(t, math.IsNaN(float64(v)))
		assert.Equal(t, float32(0), v)
	}
}

func TestNormalizeAlreadyUnit(t *testing.T) {
	vec := Normalize([]float32{1, 0, 0})

	assert.Equal(t, []float32{1, 0, 0}, vec)
}

func TestNormalizeAll(t *testing.T) {
	vecs := NormalizeAll([][]float32{
		{3, 4},
		{0, 5},
	})

	assert.InDelta(t, 0.6, float64(vecs[0][0]), 1e-6)
	assert.InDelta(t, 1.0, float64(vecs[1][1]), 1e-6)
}

func TestNewIndexRejectsEmptySet(t *testing.T) {
	_, err := NewIndex(nil)

	require.ErrorIs(t, err, ErrEmptyIndex)
}

func TestNewIndexRejectsMixedDimensions(t *testing.T) {
	_, err := NewIndex([][]float32{
		{1, 0},
		{1, 0, 0},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension")
}

func TestSearchOrdersByInnerProduct(t *testing.T) {
	idx, err := NewIndex([][]float32{
		{1, 0},         // orthogonal to query
		{0, 1},         // identical to query
		{0.6, 0.8},     // partial match
		{0.707, 0.707}, // between the two
	})
	require.NoError(t, err)

	hits, err := idx.Search([]float32{0, 1}, 0)
	require.NoError(t, err)
	require.Len(t, hits, 4)

	assert.Equal(t, 1, hits[0].Index)
	assert.Equal(t, 2, hits[1].Index)
	assert.Equal(t, 3, hits[2].Index)
	assert.Equal(t, 0, hits[3].Index)

	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.InDelta(t, 0.8, hits[1].Score, 1e-6)
	assert.InDelta(t, 0.0, hits[3].Score, 1e-6)
}

func TestSearchReturnsAllCandidates(t *testing.T) {
	vecs := [][]float32{{1, 0}, {0, 1}, {-1, 0}, {0, -1}, {0.707, 0.707}}
	idx, err := NewIndex(vecs)
	require.NoError(t, err)

	hits, err := idx.Search([]float32{1, 0}, 0)
	require.NoError(t, err)

	assert.Len(t, hits, len(vecs))
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
	}
}

func TestSearchTruncatesToK(t *testing.T) {
	idx, err := NewIndex([][]float32{{1, 0}, {0, 1}, {0.6, 0.8}})
	require.NoError(t, err)

	hits, err := idx.Search([]float32{0, 1}, 2)
	require.NoError(t, err)

	assert.Len(t, hits, 2)
	assert.Equal(t, 1, hits[0].Index)
}

func TestSearchStableOnTies(t *testing.T) {
	// Two identical vectors score identically; insertion order must hold.
	idx, err := NewIndex([][]float32{
		{0, 1},
		{1, 0},
		{0, 1},
	})
	require.NoError(t, err)

	hits, err := idx.Search([]float32{0, 1}, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, hits[0].Index)
	assert.Equal(t, 2, hits[1].Index)
	assert.Equal(t, 1, hits[2].Index)
}

func TestSearchRejectsDimensionMismatch(t *testing.T) {
	idx, err := NewIndex([][]float32{{1, 0, 0}})
	require.NoError(t, err)

	_, err = idx.Search([]float32{1, 0}, 1)

	require.Error(t, err)
}

func TestSearchKLargerThanSize(t *testing.T) {
	idx, err := NewIndex([][]float32{{1, 0}, {0, 1}})
	require.NoError(t, err)

	hits, err := idx.Search([]float32{1, 0}, 10)
	require.NoError(t, err)

	assert.Len(t, hits, 2)
}
