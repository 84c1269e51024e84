package badger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := OpenBackend(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func TestBackend_DropPrefix(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	err = backend.WithTx(func(tx *badger.Txn) error {
		for _, k := range []string{"a:1", "a:2", "b:1"} {
			if err := tx.Set([]byte(k), []byte("v")); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	require.NoError(t, err)

	require.NoError(t, backend.DropPrefix([]byte("a:")))

	err = backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get([]byte("a:1"))
		assert.ErrorIs(t, err, badger.ErrKeyNotFound)
		_, err = tx.Get([]byte("b:1"))
		assert.NoError(t, err)
		return nil
	}, false)
	require.NoError(t, err)
}

func TestEmbeddingKeys(t *testing.T) {
	// Model ids are length-prefixed, so "a" + "b:c" and "a:b" + "c" differ.
	assert.NotEqual(t, makeEmbeddingKey("a", "b:c"), makeEmbeddingKey("a:b", "c"))
	assert.Equal(t, makeEmbeddingKey("m", "1"), makeEmbeddingKey("m", "1"))

	prefix := makeModelPrefix("m")
	assert.Equal(t, prefix, makeEmbeddingKey("m", "")[:len(prefix)])
}
