package badger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) storage.EmbeddingCache {
	t.Helper()
	cache, err := NewMemoryEmbeddingCache()
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func entry(content string, vector ...float32) *storage.CachedEmbedding {
	return &storage.CachedEmbedding{ContentHash: core.IDFromContent(content), Vector: vector}
}

func TestEmbeddingCache_PutGet(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	err := cache.PutEmbeddings(ctx, "model-a", map[string]*storage.CachedEmbedding{
		"m1": entry("hello", 1, 0),
		"m2": entry("world", 0, 1),
	})
	require.NoError(t, err)

	found, err := cache.GetEmbeddings(ctx, "model-a", "m1", "m2", "m3", "")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, []float32{1, 0}, found["m1"].Vector)
	assert.True(t, found["m1"].Matches("hello"))
	assert.False(t, found["m1"].CachedAt.IsZero())
	assert.NotContains(t, found, "m3")
}

func TestEmbeddingCache_ModelIsolation(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.PutEmbeddings(ctx, "model-a", map[string]*storage.CachedEmbedding{"m1": entry("x", 1)}))

	found, err := cache.GetEmbeddings(ctx, "model-b", "m1")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestEmbeddingCache_Overwrite(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.PutEmbeddings(ctx, "m", map[string]*storage.CachedEmbedding{"1": entry("old", 1)}))
	require.NoError(t, cache.PutEmbeddings(ctx, "m", map[string]*storage.CachedEmbedding{"1": entry("new", 2)}))

	found, err := cache.GetEmbeddings(ctx, "m", "1")
	require.NoError(t, err)
	assert.True(t, found["1"].Matches("new"))
	assert.False(t, found["1"].Matches("old"))
}

func TestEmbeddingCache_CountAndPurge(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.PutEmbeddings(ctx, "a", map[string]*storage.CachedEmbedding{"1": entry("1", 1), "2": entry("2", 1)}))
	require.NoError(t, cache.PutEmbeddings(ctx, "b", map[string]*storage.CachedEmbedding{"1": entry("1", 1)}))

	n, err := cache.CountEmbeddings(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = cache.CountEmbeddings(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, cache.PurgeEmbeddings(ctx, "a"))
	n, err = cache.CountEmbeddings(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	n, err = cache.CountEmbeddings(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, cache.PurgeEmbeddings(ctx, ""))
	n, err = cache.CountEmbeddings(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEmbeddingCache_InvalidKeys(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	_, err := cache.GetEmbeddings(ctx, "", "1")
	assert.ErrorIs(t, err, storage.ErrInvalidKey)

	err = cache.PutEmbeddings(ctx, "", map[string]*storage.CachedEmbedding{"1": entry("x", 1)})
	assert.ErrorIs(t, err, storage.ErrInvalidKey)

	err = cache.PutEmbeddings(ctx, "m", map[string]*storage.CachedEmbedding{"": entry("x", 1)})
	assert.ErrorIs(t, err, storage.ErrInvalidKey)
}

func TestEmbeddingCache_PreservesCachedAt(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	e := entry("x", 1)
	e.CachedAt = at
	require.NoError(t, cache.PutEmbeddings(ctx, "m", map[string]*storage.CachedEmbedding{"1": e}))

	found, err := cache.GetEmbeddings(ctx, "m", "1")
	require.NoError(t, err)
	assert.True(t, at.Equal(found["1"].CachedAt))
}

func TestEmbeddingCache_Closed(t *testing.T) {
	cache, err := NewMemoryEmbeddingCache()
	require.NoError(t, err)
	require.NoError(t, cache.Close())

	_, err = cache.GetEmbeddings(context.Background(), "m", "1")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.NoError(t, cache.Close())
}

func TestEmbeddingCache_SharedBackend(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	cache, err := NewEmbeddingCache(backend)
	require.NoError(t, err)
	require.NoError(t, cache.Close())
	assert.False(t, backend.IsClosed())
}

func TestEmbeddingCache_DiskPersistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	cache, err := OpenEmbeddingCache(dir)
	require.NoError(t, err)
	require.NoError(t, cache.PutEmbeddings(ctx, "m", map[string]*storage.CachedEmbedding{"1": entry("x", 0.5)}))
	require.NoError(t, cache.Close())

	cache, err = OpenEmbeddingCache(dir)
	require.NoError(t, err)
	defer cache.Close()
	found, err := cache.GetEmbeddings(ctx, "m", "1")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5}, found["1"].Vector)
}

func TestEmbeddingCache_Concurrent(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Go(func() {
			id := string(rune('a' + i))
			err := cache.PutEmbeddings(ctx, "m", map[string]*storage.CachedEmbedding{id: entry(id, float32(i))})
			assert.NoError(t, err)
			_, err = cache.GetEmbeddings(ctx, "m", id)
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	n, err := cache.CountEmbeddings(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}
