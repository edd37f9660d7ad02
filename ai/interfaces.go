package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use and must
// return vectors in the same order as the input texts.
type Embedder interface {
	// EmbedTexts generates vector embeddings for a batch of text strings.
	// The result is 1:1 with the input, in input order, every vector of the
	// configured target dimension. An empty input returns an empty result
	// without any provider call.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
