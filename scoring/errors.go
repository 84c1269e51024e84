package scoring

import "errors"

var (
	// ErrEmbedderRequired is returned when a SemanticScorer is built without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrModelIDRequired is returned when a cache is configured without a model id.
	ErrModelIDRequired = errors.New("model id is required with an embedding cache")
)
