package ranker

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/npy"
)

func makeMatrix(rows ...[]float32) *npy.Matrix {
	cols := len(rows[0])
	data := make([]float32, 0, len(rows)*cols)
	for _, r := range rows {
		data = append(data, r...)
	}
	return &npy.Matrix{Rows: len(rows), Cols: cols, Data: data}
}

func mustRanker(t *testing.T, m *npy.Matrix) *Ranker {
	t.Helper()
	r, err := New(m)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestTopKLength(t *testing.T) {
	m := makeMatrix(
		[]float32{1, 0},
		[]float32{0, 1},
		[]float32{1, 1},
	)
	r := mustRanker(t, m)

	for _, k := range []int{1, 2, 3, 5, 100} {
		got, err := r.TopK([]float32{1, 0}, k)
		if err != nil {
			t.Fatalf("TopK(k=%d): %v", k, err)
		}
		want := k
		if want > m.Rows {
			want = m.Rows
		}
		if len(got) != want {
			t.Errorf("TopK(k=%d) returned %d matches, want %d", k, len(got), want)
		}
	}
}

func TestScoresNonIncreasing(t *testing.T) {
	m := makeMatrix(
		[]float32{0.2, 0.9},
		[]float32{1, 0},
		[]float32{0.5, 0.5},
		[]float32{-1, 0},
	)
	r := mustRanker(t, m)

	matches, err := r.TopK([]float32{1, 0.1}, 4)
	if err != nil {
		t.Fatalf("TopK: %v", err)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("scores not monotone at %d: %v > %v", i, matches[i].Score, matches[i-1].Score)
		}
	}
}

func TestSelfSimilarityRanksFirst(t *testing.T) {
	m := makeMatrix(
		[]float32{0.3, 0.7, 0.1},
		[]float32{0.9, 0.1, 0.4},
		[]float32{0.2, 0.2, 0.8},
	)
	r := mustRanker(t, m)

	matches, err := r.TopK(m.Row(1), 3)
	if err != nil {
		t.Fatalf("TopK: %v", err)
	}
	if matches[0].Index != 1 {
		t.Fatalf("expected row 1 to rank first, got %d", matches[0].Index)
	}
	if math.Abs(matches[0].Score-1.0) > 1e-6 {
		t.Errorf("self-similarity score = %v, want 1.0", matches[0].Score)
	}
}

func TestDeterministicTieOrder(t *testing.T) {
	// Rows 0, 1 and 3 are identical: ties must come back in ascending index order.
	m := makeMatrix(
		[]float32{1, 1},
		[]float32{1, 1},
		[]float32{-1, -1},
		[]float32{1, 1},
	)
	r := mustRanker(t, m)

	first, err := r.TopK([]float32{2, 2}, 4)
	if err != nil {
		t.Fatalf("TopK: %v", err)
	}

	gotOrder := []int{first[0].Index, first[1].Index, first[2].Index, first[3].Index}
	if !reflect.DeepEqual(gotOrder, []int{0, 1, 3, 2}) {
		t.Errorf("tie order = %v, want [0 1 3 2]", gotOrder)
	}

	// Identical inputs always produce the identical ordered result.
	second, err := r.TopK([]float32{2, 2}, 4)
	if err != nil {
		t.Fatalf("TopK: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated query diverged: %v vs %v", first, second)
	}
}

func TestZeroNormScoresZero(t *testing.T) {
	m := makeMatrix(
		[]float32{0, 0},
		[]float32{1, 0},
	)
	r := mustRanker(t, m)

	t.Run("zero row", func(t *testing.T) {
		matches, err := r.TopK([]float32{1, 0}, 2)
		if err != nil {
			t.Fatalf("TopK: %v", err)
		}
		for _, match := range matches {
			if match.Index == 0 && match.Score != 0 {
				t.Errorf("zero-norm row scored %v, want 0", match.Score)
			}
		}
	})

	t.Run("zero query", func(t *testing.T) {
		matches, err := r.TopK([]float32{0, 0}, 2)
		if err != nil {
			t.Fatalf("TopK: %v", err)
		}
		for _, match := range matches {
			if match.Score != 0 {
				t.Errorf("zero-norm query scored %v against row %d, want 0", match.Score, match.Index)
			}
		}
	})
}

func TestTopKInvalidInput(t *testing.T) {
	r := mustRanker(t, makeMatrix([]float32{1, 0}))

	t.Run("k below one", func(t *testing.T) {
		for _, k := range []int{0, -1} {
			if _, err := r.TopK([]float32{1, 0}, k); !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("TopK(k=%d) error = %v, want ErrInvalidInput", k, err)
			}
		}
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := r.TopK([]float32{1, 0, 0}, 1)
		if !errors.Is(err, domain.ErrDimMismatch) {
			t.Errorf("error = %v, want ErrDimMismatch", err)
		}
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("dimension mismatch should also wrap ErrInvalidInput, got %v", err)
		}
	})
}

func TestNewRejectsEmptyMatrix(t *testing.T) {
	for _, m := range []*npy.Matrix{nil, {Rows: 0, Cols: 3}, {Rows: 2, Cols: 0}} {
		if _, err := New(m); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("New(%+v) error = %v, want ErrInvalidInput", m, err)
		}
	}
}

func TestNegativeScoresStayInRange(t *testing.T) {
	m := makeMatrix(
		[]float32{1, 0},
		[]float32{-1, 0},
	)
	r := mustRanker(t, m)

	matches, err := r.TopK([]float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("TopK: %v", err)
	}
	for _, match := range matches {
		if match.Score < -1.000001 || match.Score > 1.000001 {
			t.Errorf("score %v out of [-1, 1]", match.Score)
		}
	}
	if matches[1].Score >= 0 {
		t.Errorf("opposite vector should score negative, got %v", matches[1].Score)
	}
}
