package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/curator/storage"
)

// EmbeddingCache implements storage.EmbeddingCache for BadgerDB.
type EmbeddingCache struct {
	backend *Backend
	// owned backends are closed with the cache
	owned bool
}

var _ storage.EmbeddingCache = (*EmbeddingCache)(nil)

// NewEmbeddingCache creates an embedding cache on an open backend.
// The caller keeps ownership of the backend.
func NewEmbeddingCache(backend *Backend) (storage.EmbeddingCache, error) {
	if backend == nil || backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	return &EmbeddingCache{backend: backend}, nil
}

// OpenEmbeddingCache opens a disk-backed cache at path. Closing the cache
// closes the underlying database.
func OpenEmbeddingCache(path string) (storage.EmbeddingCache, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return &EmbeddingCache{backend: backend, owned: true}, nil
}

// Close closes the backend if the cache opened it.
func (c *EmbeddingCache) Close() error {
	if c.owned && !c.backend.IsClosed() {
		return c.backend.Close()
	}
	return nil
}

func (c *EmbeddingCache) checkOpen() error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return nil
}

// GetEmbeddings returns the cached entries for the given message ids.
func (c *EmbeddingCache) GetEmbeddings(ctx context.Context, modelID string, messageIDs ...string) (map[string]*storage.CachedEmbedding, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	if modelID == "" {
		return nil, fmt.Errorf("%w: empty model id", storage.ErrInvalidKey)
	}

	found := make(map[string]*storage.CachedEmbedding, len(messageIDs))
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range messageIDs {
			if err := ctx.Err(); err != nil {
				return err
			}
			if id == "" {
				continue
			}
			item, err := tx.Get(makeEmbeddingKey(modelID, id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			err = item.Value(func(val []byte) error {
				entry, err := storage.UnmarshalCachedEmbedding(val)
				if err != nil {
					return err
				}
				found[id] = entry
				return nil
			})
			if err != nil {
				return fmt.Errorf("message %q: %w", id, err)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return found, nil
}

// PutEmbeddings writes entries in a single transaction.
func (c *EmbeddingCache) PutEmbeddings(ctx context.Context, modelID string, entries map[string]*storage.CachedEmbedding) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if modelID == "" {
		return fmt.Errorf("%w: empty model id", storage.ErrInvalidKey)
	}
	if len(entries) == 0 {
		return nil
	}

	now := time.Now().UTC()
	return c.backend.WithTx(func(tx *badger.Txn) error {
		for id, entry := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			if id == "" {
				return fmt.Errorf("%w: empty message id", storage.ErrInvalidKey)
			}
			if entry.CachedAt.IsZero() {
				entry.CachedAt = now
			}
			if err := tx.Set(makeEmbeddingKey(modelID, id), storage.MarshalCachedEmbedding(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// CountEmbeddings returns the number of entries stored for a model.
func (c *EmbeddingCache) CountEmbeddings(ctx context.Context, modelID string) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	prefix := []byte(embeddingPrefix)
	if modelID != "" {
		prefix = makeModelPrefix(modelID)
	}

	count := 0
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return ctx.Err()
	}, false)
	return count, err
}

// PurgeEmbeddings removes every entry for a model, or all entries when
// modelID is empty.
func (c *EmbeddingCache) PurgeEmbeddings(ctx context.Context, modelID string) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	prefix := []byte(embeddingPrefix)
	if modelID != "" {
		prefix = makeModelPrefix(modelID)
	}
	c.backend.logger.Info("purging embeddings", "model", modelID)
	return c.backend.DropPrefix(prefix)
}
