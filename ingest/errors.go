package ingest

import "errors"

var (
	// ErrStoreRequired is returned when a Pipeline is created without a store.
	ErrStoreRequired = errors.New("memory store is required")

	// ErrEmbedderRequired is returned when a Pipeline is created without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrEmbeddingMismatch is returned when the embedder yields a different
	// number of vectors than texts submitted.
	ErrEmbeddingMismatch = errors.New("embedding count does not match chunk count")

	// ErrInvalidCSV is returned when a raw CSV payload cannot be parsed.
	ErrInvalidCSV = errors.New("invalid CSV payload")
)
