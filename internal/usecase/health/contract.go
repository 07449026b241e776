package health

import "context"

// SearcherInfo reports whether the search service is loaded and how big the
// corpus is.
type SearcherInfo interface {
	Documents() int
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
