package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity scoring.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider owns an Embedder and the identity of the model behind it.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// ModelID names the embedding space. Cached vectors are keyed by it.
	ModelID() string

	// Close releases resources held by the provider and its services.
	Close() error
}
