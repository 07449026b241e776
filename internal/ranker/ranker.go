// Package ranker implements brute-force top-k cosine ranking over a dense
// embedding matrix. O(n*d) per query; fine for the small corpora this service
// is built for.
package ranker

import (
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/npy"
)

// Match is one ranked row: the matrix row index and its cosine score.
type Match struct {
	Index int
	Score float64
}

// Ranker scores queries against a read-only embedding matrix. Row norms are
// computed once at construction; TopK itself is pure and safe for concurrent
// use.
type Ranker struct {
	matrix *npy.Matrix
	norms  []float64
}

// New creates a Ranker over the given matrix.
func New(m *npy.Matrix) (*Ranker, error) {
	if m == nil || m.Rows == 0 {
		return nil, fmt.Errorf("%w: empty embedding matrix", domain.ErrInvalidInput)
	}
	if m.Cols == 0 {
		return nil, fmt.Errorf("%w: zero-width embedding matrix", domain.ErrInvalidInput)
	}

	norms := make([]float64, m.Rows)
	for i := 0; i < m.Rows; i++ {
		norms[i] = norm(m.Row(i))
	}

	return &Ranker{matrix: m, norms: norms}, nil
}

// Rows returns the number of documents in the matrix.
func (r *Ranker) Rows() int { return r.matrix.Rows }

// Dimensions returns the embedding width.
func (r *Ranker) Dimensions() int { return r.matrix.Cols }

// TopK returns the min(k, n) highest-scoring rows by cosine similarity,
// descending by score with ties broken by ascending row index. Rows (or a
// query) with zero norm score 0 rather than dividing by zero.
func (r *Ranker) TopK(query []float32, k int) ([]Match, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be a positive integer, got %d", domain.ErrInvalidInput, k)
	}
	if len(query) != r.matrix.Cols {
		return nil, fmt.Errorf("%w: %w: query has %d dimensions, matrix has %d",
			domain.ErrInvalidInput, domain.ErrDimMismatch, len(query), r.matrix.Cols)
	}

	qNorm := norm(query)

	matches := make([]Match, r.matrix.Rows)
	for i := 0; i < r.matrix.Rows; i++ {
		score := 0.0
		if qNorm > 0 && r.norms[i] > 0 {
			score = dot(query, r.matrix.Row(i)) / (qNorm * r.norms[i])
		}
		matches[i] = Match{Index: i, Score: score}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func norm(v []float32) float64 {
	var s float64
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s)
}
