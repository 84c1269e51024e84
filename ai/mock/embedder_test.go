package mock

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	a, err := m.EmbedText(ctx, "hello")
	require.NoError(t, err)
	b, err := m.EmbedTexts(ctx, []string{"hello", "world"})
	require.NoError(t, err)

	assert.Len(t, a, DefaultDimensions)
	assert.Equal(t, a, b[0])
	assert.NotEqual(t, b[0], b[1])
	assert.InDelta(t, 1.0, magnitude(a), 1e-5)
	assert.Equal(t, 2, m.CallCount())
	assert.Equal(t, 3, m.TextCount())
	assert.Equal(t, []string{"hello", "hello", "world"}, m.Texts())
}

func TestMockEmbedder_Failing(t *testing.T) {
	boom := errors.New("boom")
	m := NewFailingEmbedder(boom)

	_, err := m.EmbedTexts(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, boom)
	_, err = m.EmbedText(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, m.CallCount())
}

func TestTopicEmbedder(t *testing.T) {
	m := NewTopicEmbedder("python", "cooking")
	vectors, err := m.EmbedTexts(context.Background(), []string{
		"Python tips",
		"python python",
		"Cooking pasta",
	})
	require.NoError(t, err)

	dot := func(a, b []float32) float64 {
		var s float64
		for i := range a {
			s += float64(a[i]) * float64(b[i])
		}
		return s
	}
	assert.Greater(t, dot(vectors[0], vectors[1]), 0.99)
	assert.Less(t, dot(vectors[0], vectors[2]), 0.01)
}

func TestMockEmbedder_Reset(t *testing.T) {
	m := NewFailingEmbedder(errors.New("x"))
	_, _ = m.EmbedText(context.Background(), "a")
	m.Reset()

	assert.Equal(t, 0, m.CallCount())
	assert.Equal(t, 0, m.TextCount())
	_, err := m.EmbedText(context.Background(), "a")
	assert.NoError(t, err)
}

func TestMockEmbedder_Concurrent(t *testing.T) {
	m := NewMockEmbedder()
	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			_, _ = m.EmbedTexts(context.Background(), []string{"a", "b"})
		})
	}
	wg.Wait()
	assert.Equal(t, 16, m.CallCount())
	assert.Equal(t, 32, m.TextCount())
}

func TestMockProvider(t *testing.T) {
	p := NewMockProviderWithEmbedder(NewMockEmbedder(), "test-model")
	assert.Equal(t, "test-model", p.ModelID())
	assert.NotNil(t, p.Embedder())
	require.NoError(t, p.Close())
	assert.True(t, p.Closed())

	def := NewMockProvider()
	assert.Equal(t, "mock-embedder", def.ModelID())
}
