package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/docsearch/internal/corpus"
	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/npy"
	"github.com/kailas-cloud/docsearch/internal/ranker"
)

// --- Mocks ---

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

// hashEmbedder maps known texts to fixed vectors, standing in for a
// deterministic model.
type hashEmbedder struct {
	vectors map[string][]float32
}

func (h *hashEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	vec, ok := h.vectors[text]
	if !ok {
		return domain.EmbeddingResult{}, errors.New("unknown text")
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}

func makeDocs(n int) []corpus.Document {
	docs := make([]corpus.Document, n)
	for i := range docs {
		docs[i] = corpus.Document{ID: corpus.IntID(int64(i + 1)), Text: "content"}
	}
	return docs
}

func makeRanker(t *testing.T, rows ...[]float32) *ranker.Ranker {
	t.Helper()
	cols := len(rows[0])
	data := make([]float32, 0, len(rows)*cols)
	for _, r := range rows {
		data = append(data, r...)
	}
	r, err := ranker.New(&npy.Matrix{Rows: len(rows), Cols: cols, Data: data})
	if err != nil {
		t.Fatalf("ranker.New: %v", err)
	}
	return r
}

// --- Tests ---

func TestSearchJoinsMetadataByPosition(t *testing.T) {
	r := makeRanker(t,
		[]float32{1, 0},
		[]float32{0, 1},
	)
	embed := &mockEmbedder{vec: []float32{0, 1}}

	svc, err := New(r, makeDocs(2), embed)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	matches, err := svc.Search(context.Background(), "anything", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !embed.called {
		t.Error("expected the embedder to be called")
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	// Row 1 matches the query exactly, so document id 2 comes first.
	if matches[0].Document.ID.String() != "2" {
		t.Errorf("first match id = %s, want 2", matches[0].Document.ID.String())
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	r := makeRanker(t, []float32{1, 0})
	svc, err := New(r, makeDocs(1), &mockEmbedder{vec: []float32{1, 0}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := svc.Search(context.Background(), "", 5); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestSearchPropagatesEmbedderError(t *testing.T) {
	r := makeRanker(t, []float32{1, 0})
	embed := &mockEmbedder{err: domain.ErrEmbeddingProviderError}
	svc, err := New(r, makeDocs(1), embed)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := svc.Search(context.Background(), "q", 5); !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("error = %v, want ErrEmbeddingProviderError", err)
	}
}

func TestSearchDimensionMismatchIsServerSide(t *testing.T) {
	r := makeRanker(t, []float32{1, 0})
	embed := &mockEmbedder{vec: []float32{1, 0, 0}} // 3-d query against 2-d matrix
	svc, err := New(r, makeDocs(1), embed)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := svc.Search(context.Background(), "q", 5); !errors.Is(err, domain.ErrDimMismatch) {
		t.Errorf("error = %v, want ErrDimMismatch", err)
	}
}

func TestNewRejectsCorpusMismatch(t *testing.T) {
	r := makeRanker(t, []float32{1, 0}, []float32{0, 1})

	if _, err := New(r, makeDocs(3), &mockEmbedder{}); !errors.Is(err, domain.ErrCorpusMismatch) {
		t.Errorf("error = %v, want ErrCorpusMismatch", err)
	}
}

func TestSearchEndToEndKnownCorpus(t *testing.T) {
	// Three documents with known vectors; the query text equals document 2's
	// text, so document 2 must rank first with the highest score.
	vectors := map[string][]float32{
		"the solar system": {0.9, 0.1, 0.0},
		"baking sourdough": {0.1, 0.9, 0.2},
		"training a puppy": {0.0, 0.2, 0.9},
	}
	r := makeRanker(t,
		vectors["the solar system"],
		vectors["baking sourdough"],
		vectors["training a puppy"],
	)
	docs := []corpus.Document{
		{ID: corpus.IntID(1), Text: "the solar system"},
		{ID: corpus.IntID(2), Text: "baking sourdough"},
		{ID: corpus.IntID(3), Text: "training a puppy"},
	}

	svc, err := New(r, docs, &hashEmbedder{vectors: vectors})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	matches, err := svc.Search(context.Background(), "baking sourdough", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].Document.ID.String() != "2" {
		t.Errorf("first match id = %s, want 2", matches[0].Document.ID.String())
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[0].Score {
			t.Errorf("match %d outscored the exact match: %v > %v", i, matches[i].Score, matches[0].Score)
		}
	}
}
