package mock

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"sync/atomic"
)

// DefaultDimensions is the vector size produced by the default mock behavior.
const DefaultDimensions = 384

// MockEmbedder is a test double for ai.Embedder.
// It allows custom behavior injection via function fields and is safe for
// concurrent use once configured.
type MockEmbedder struct {
	// EmbedTextFunc is called by EmbedText if set.
	// If nil, uses default deterministic behavior.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc is called by EmbedTexts if set.
	// If nil, uses default deterministic behavior.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	// Err, when set, is returned by every call.
	Err error

	callCount atomic.Int64

	mu        sync.Mutex
	textCount int
	seen      []string
}

// NewMockEmbedder creates a mock embedder with default deterministic behavior.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// NewFailingEmbedder returns a mock whose every call fails with err.
func NewFailingEmbedder(err error) *MockEmbedder {
	return &MockEmbedder{Err: err}
}

// NewTopicEmbedder returns a mock that embeds text into a space with one
// axis per topic. A component is the number of times the topic occurs in
// the lower-cased text, plus a small shared baseline so no vector is zero.
// Texts sharing topics are close; unrelated texts are nearly orthogonal.
func NewTopicEmbedder(topics ...string) *MockEmbedder {
	m := &MockEmbedder{}
	embed := func(text string) []float32 {
		lower := strings.ToLower(text)
		vector := make([]float32, len(topics)+1)
		for i, topic := range topics {
			vector[i] = float32(strings.Count(lower, strings.ToLower(topic)))
		}
		vector[len(topics)] = 0.05
		return normalize(vector)
	}
	m.EmbedTextFunc = func(_ context.Context, text string) ([]float32, error) {
		return embed(text), nil
	}
	m.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			vectors[i] = embed(text)
		}
		return vectors, nil
	}
	return m
}

// EmbedText generates a deterministic embedding based on text hash.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.callCount.Add(1)
	m.record(text)

	if m.Err != nil {
		return nil, m.Err
	}
	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return generateDeterministicVector(text, DefaultDimensions), nil
}

// EmbedTexts generates deterministic embeddings for multiple texts.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount.Add(1)
	m.record(texts...)

	if m.Err != nil {
		return nil, m.Err
	}
	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = generateDeterministicVector(text, DefaultDimensions)
	}
	return embeddings, nil
}

func (m *MockEmbedder) record(texts ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textCount += len(texts)
	m.seen = append(m.seen, texts...)
}

// CallCount returns the number of times any method was called.
func (m *MockEmbedder) CallCount() int {
	return int(m.callCount.Load())
}

// TextCount returns the total number of texts sent to the embedder.
func (m *MockEmbedder) TextCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.textCount
}

// Texts returns a copy of every text sent to the embedder, in call order.
func (m *MockEmbedder) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.seen...)
}

// Reset clears the counters and injected behavior.
func (m *MockEmbedder) Reset() {
	m.callCount.Store(0)
	m.mu.Lock()
	m.textCount = 0
	m.seen = nil
	m.mu.Unlock()
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
	m.Err = nil
}

// generateDeterministicVector creates a deterministic embedding vector from text.
// It uses FNV hash to ensure the same text always produces the same vector.
func generateDeterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := range dim {
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000) / 1000.0
	}
	return normalize(vector)
}

func normalize(vector []float32) []float32 {
	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return vector
	}
	inv := float32(1 / math.Sqrt(sumSquares))
	for i := range vector {
		vector[i] *= inv
	}
	return vector
}
