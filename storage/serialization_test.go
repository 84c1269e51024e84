package storage

import (
	"math"
	"testing"
	"time"

	"github.com/poiesic/curator/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(math.MaxUint64)},
		{"content-based ID", core.IDFromContent("test content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Empty(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalString(t *testing.T) {
	for _, s := range []string{"", "model", "m@http://host:1"} {
		decoded, err := UnmarshalString(MarshalString(s))
		require.NoError(t, err)
		assert.Equal(t, s, decoded)
	}
}

func TestCachedEmbedding(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	entry := &CachedEmbedding{
		ContentHash: core.IDFromContent("hello"),
		Vector:      []float32{0.25, -1.5, 3, float32(math.SmallestNonzeroFloat32)},
		CachedAt:    now,
	}

	decoded, err := UnmarshalCachedEmbedding(MarshalCachedEmbedding(entry))
	require.NoError(t, err)
	assert.Equal(t, entry.ContentHash, decoded.ContentHash)
	assert.Equal(t, entry.Vector, decoded.Vector)
	assert.True(t, now.Equal(decoded.CachedAt))

	t.Run("empty vector", func(t *testing.T) {
		decoded, err := UnmarshalCachedEmbedding(MarshalCachedEmbedding(&CachedEmbedding{ContentHash: 7}))
		require.NoError(t, err)
		assert.Empty(t, decoded.Vector)
		assert.Equal(t, core.ID(7), decoded.ContentHash)
	})

	t.Run("truncated vector", func(t *testing.T) {
		data := MarshalCachedEmbedding(entry)
		_, err := UnmarshalCachedEmbedding(data[:len(data)-2])
		assert.ErrorIs(t, err, ErrTruncatedData)
	})

	t.Run("empty data", func(t *testing.T) {
		_, err := UnmarshalCachedEmbedding(nil)
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}

func TestCachedEmbeddingMatches(t *testing.T) {
	entry := &CachedEmbedding{ContentHash: core.IDFromContent("hello"), Vector: []float32{1}}

	assert.True(t, entry.Matches("hello"))
	assert.False(t, entry.Matches("hello!"))

	var missing *CachedEmbedding
	assert.False(t, missing.Matches("hello"))

	empty := &CachedEmbedding{ContentHash: core.IDFromContent("hello")}
	assert.False(t, empty.Matches("hello"))
}
