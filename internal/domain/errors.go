package domain

import "errors"

var (
	// ErrInvalidInput signals a request the ranking core cannot act on:
	// a non-positive k, an empty matrix, or a dimension mismatch.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDimMismatch signals a query/matrix vector dimension mismatch.
	ErrDimMismatch = errors.New("vector dimension mismatch")
	// ErrCorpusMismatch signals that the embedding matrix row count does not
	// match the document count.
	ErrCorpusMismatch = errors.New("embedding row count does not match document count")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
