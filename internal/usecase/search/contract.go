package search

import (
	"context"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/ranker"
)

// Embedder vectorizes query text into an embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Ranker scores a query vector against the document matrix.
type Ranker interface {
	TopK(query []float32, k int) ([]ranker.Match, error)
	Rows() int
	Dimensions() int
}
