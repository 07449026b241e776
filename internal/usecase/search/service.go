// Package search joins the query embedder, the ranking core, and the corpus
// metadata into the document search pipeline.
package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/docsearch/internal/corpus"
	"github.com/kailas-cloud/docsearch/internal/domain"
)

// Match is one search hit: a document joined by row index with its score.
type Match struct {
	Document corpus.Document
	Score    float64
}

// Service executes query searches. It is read-only after construction and
// safe for concurrent use.
type Service struct {
	ranker Ranker
	docs   []corpus.Document
	embed  Embedder
}

// New creates a search service. The corpus and the matrix are joined
// positionally, so the row count must equal the document count.
func New(r Ranker, docs []corpus.Document, embed Embedder) (*Service, error) {
	if r.Rows() != len(docs) {
		return nil, fmt.Errorf("%w: %d rows, %d documents", domain.ErrCorpusMismatch, r.Rows(), len(docs))
	}
	return &Service{ranker: r, docs: docs, embed: embed}, nil
}

// Documents returns the corpus size.
func (s *Service) Documents() int { return len(s.docs) }

// Dimensions returns the embedding width the service expects.
func (s *Service) Dimensions() int { return s.ranker.Dimensions() }

// Search embeds the query, ranks every document by cosine similarity, and
// returns the top-k matches with metadata joined by position.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]Match, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}

	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	ranked, err := s.ranker.TopK(embResult.Embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("rank documents: %w", err)
	}

	matches := make([]Match, len(ranked))
	for i, r := range ranked {
		matches[i] = Match{Document: s.docs[r.Index], Score: r.Score}
	}
	return matches, nil
}
