package storage

import (
	"context"
	"time"

	"github.com/poiesic/curator/core"
)

// CachedEmbedding is a message embedding stored for reuse across curation calls.
type CachedEmbedding struct {
	// ContentHash is core.IDFromContent of the text that was embedded.
	// A lookup whose current content hashes differently is a miss.
	ContentHash core.ID

	// Vector is the raw embedding returned by the model.
	Vector []float32

	// CachedAt is when the entry was written.
	CachedAt time.Time
}

// Matches reports whether the entry was computed from content.
func (e *CachedEmbedding) Matches(content string) bool {
	return e != nil && e.ContentHash == core.IDFromContent(content) && len(e.Vector) > 0
}

// EmbeddingCache stores message embeddings keyed by (model id, message id).
// Implementations must be thread-safe and support concurrent access.
type EmbeddingCache interface {
	// GetEmbeddings returns the cached entries for the given message ids.
	// Missing ids are absent from the returned map; absence is not an error.
	GetEmbeddings(ctx context.Context, modelID string, messageIDs ...string) (map[string]*CachedEmbedding, error)

	// PutEmbeddings writes entries in a single transaction, replacing any
	// existing entry for the same key. CachedAt is set when zero.
	PutEmbeddings(ctx context.Context, modelID string, entries map[string]*CachedEmbedding) error

	// CountEmbeddings returns the number of entries stored for a model.
	CountEmbeddings(ctx context.Context, modelID string) (int, error)

	// PurgeEmbeddings removes every entry for a model, or every entry when
	// modelID is empty.
	PurgeEmbeddings(ctx context.Context, modelID string) error

	// Close closes the storage backend and releases resources.
	Close() error
}
