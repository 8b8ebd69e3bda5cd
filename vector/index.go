// Package vector holds the per-request similarity machinery: L2
// normalization of embeddings and a brute-force inner-product index over
// the current candidate set. With tens to low hundreds of candidates per
// request, exhaustive search is both exact and fast; the index is rebuilt
// for every request and thrown away with the response.
package vector

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrEmptyIndex = errors.New("vector index requires at least one vector")

// Normalize scales vec to unit L2 norm in place and returns it. A
// zero vector is returned unchanged since it has no direction to keep.
func Normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}

	norm := math.Sqrt(sum)
	if norm == 0 {
		return vec
	}

	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}

	return vec
}

// NormalizeAll normalizes every vector in place and returns the slice.
func NormalizeAll(vecs [][]float32) [][]float32 {
	for i := range vecs {
		Normalize(vecs[i])
	}

	return vecs
}

// Hit pairs a candidate's position in the indexed set with its similarity
// to the query. Index refers to the insertion order of NewIndex's input.
type Hit struct {
	Index int
	Score float64
}

// Index is an exact inner-product index over one request's embeddings.
// Vectors must be unit-normalized before indexing, which makes the inner
// product equal to cosine similarity.
type Index struct {
	vectors [][]float32
	dim     int
}

func NewIndex(vectors [][]float32) (*Index, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyIndex
	}

	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, index expects %d", i, len(v), dim)
		}
	}

	return &Index{
		vectors: vectors,
		dim:     dim,
	}, nil
}

func (idx *Index) Size() int {
	return len(idx.vectors)
}

func (idx *Index) Dimension() int {
	return idx.dim
}

// Search scores every indexed vector against the query and returns hits
// ordered by descending similarity. Equal scores keep insertion order.
// k <= 0 or k >= Size() returns all hits.
func (idx *Index) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != idx.dim {
		return nil, fmt.Errorf("query has dimension %d, index expects %d", len(query), idx.dim)
	}

	hits := make([]Hit, len(idx.vectors))
	for i, vec := range idx.vectors {
		hits[i] = Hit{
			Index: i,
			Score: dot(vec, query),
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})

	if k > 0 && k < len(hits) {
		hits = hits[:k]
	}

	return hits, nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}

	return sum
}
