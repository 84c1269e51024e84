package scoring

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/storage"
	"golang.org/x/sync/singleflight"
)

// Document is a piece of text to score, identified for caching.
// Documents with an empty ID are never cached.
type Document struct {
	ID   string
	Text string
}

// SemanticScorer scores documents by embedding cosine similarity.
// It is safe for concurrent use.
type SemanticScorer struct {
	embedder ai.Embedder
	cache    storage.EmbeddingCache
	modelID  string
	logger   *slog.Logger
	group    singleflight.Group

	batchTimeout time.Duration
}

// DefaultBatchTimeout bounds one shared embedder call.
const DefaultBatchTimeout = time.Minute

// SemanticOption configures a SemanticScorer.
type SemanticOption func(*SemanticScorer) error

// WithCache stores document embeddings in cache under modelID.
func WithCache(cache storage.EmbeddingCache, modelID string) SemanticOption {
	return func(s *SemanticScorer) error {
		if cache != nil && modelID == "" {
			return ErrModelIDRequired
		}
		s.cache = cache
		s.modelID = modelID
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) SemanticOption {
	return func(s *SemanticScorer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "semantic-scorer")
		return nil
	}
}

// WithBatchTimeout bounds each embedder call. Calls are shared between
// concurrent callers and do not end with any one caller's context; each
// caller still stops waiting when its own context ends.
// Default is DefaultBatchTimeout.
func WithBatchTimeout(timeout time.Duration) SemanticOption {
	return func(s *SemanticScorer) error {
		if timeout <= 0 {
			timeout = DefaultBatchTimeout
		}
		s.batchTimeout = timeout
		return nil
	}
}

// NewSemanticScorer creates a SemanticScorer around embedder.
func NewSemanticScorer(embedder ai.Embedder, opts ...SemanticOption) (*SemanticScorer, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	s := &SemanticScorer{
		embedder:     embedder,
		logger:       slog.Default().With("component", "semantic-scorer"),
		batchTimeout: DefaultBatchTimeout,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Score returns the similarity of query to every document.
func (s *SemanticScorer) Score(ctx context.Context, docs []Document, query string) ([]float64, error) {
	scores, err := s.ScoreAll(ctx, docs, []string{query})
	if err != nil {
		return nil, err
	}
	return scores[0], nil
}

// ScoreAll embeds every document and query once and scores each query
// against every document. Result i holds the scores for queries[i].
func (s *SemanticScorer) ScoreAll(ctx context.Context, docs []Document, queries []string) ([][]float64, error) {
	docVectors, err := s.EmbedDocuments(ctx, docs)
	if err != nil {
		return nil, err
	}
	queryVectors, err := s.EmbedQueries(ctx, queries)
	if err != nil {
		return nil, err
	}

	results := make([][]float64, len(queries))
	for i, q := range queryVectors {
		if q == nil {
			results[i] = make([]float64, len(docs))
			continue
		}
		results[i] = Similarities(q, docVectors)
	}
	return results, nil
}

// EmbedQueries embeds query strings in one batch. Blank queries get a nil
// vector and are not sent to the embedder.
func (s *SemanticScorer) EmbedQueries(ctx context.Context, queries []string) ([][]float32, error) {
	vectors := make([][]float32, len(queries))
	var texts []string
	var slots []int
	for i, q := range queries {
		if strings.TrimSpace(q) == "" {
			continue
		}
		texts = append(texts, q)
		slots = append(slots, i)
	}
	if len(texts) == 0 {
		return vectors, nil
	}

	embedded, err := s.embedShared(ctx, texts)
	if err != nil {
		return nil, err
	}
	for j, slot := range slots {
		vectors[slot] = embedded[j]
	}
	return vectors, nil
}

// EmbedDocuments returns one vector per document, in order. Documents with
// blank text get a nil vector. Cached vectors are reused when the cached
// content hash matches; remaining texts are embedded in one batch and
// written back to the cache.
func (s *SemanticScorer) EmbedDocuments(ctx context.Context, docs []Document) ([][]float32, error) {
	vectors := make([][]float32, len(docs))
	cached := s.lookup(ctx, docs)

	// Identical texts are embedded once.
	textSlot := make(map[string]int)
	var missing []string
	var pending []int
	for i, doc := range docs {
		if strings.TrimSpace(doc.Text) == "" {
			continue
		}
		if entry, ok := cached[doc.ID]; ok && entry.Matches(doc.Text) {
			vectors[i] = entry.Vector
			continue
		}
		if _, ok := textSlot[doc.Text]; !ok {
			textSlot[doc.Text] = len(missing)
			missing = append(missing, doc.Text)
		}
		pending = append(pending, i)
	}

	s.logger.Debug("embedding documents", "total", len(docs), "cached", len(docs)-len(pending), "missing", len(missing))
	if len(missing) == 0 {
		return vectors, nil
	}

	embedded, err := s.embedShared(ctx, missing)
	if err != nil {
		return nil, err
	}

	fresh := make(map[string]*storage.CachedEmbedding)
	for _, i := range pending {
		vectors[i] = embedded[textSlot[docs[i].Text]]
		if docs[i].ID != "" {
			fresh[docs[i].ID] = &storage.CachedEmbedding{
				ContentHash: core.IDFromContent(docs[i].Text),
				Vector:      vectors[i],
			}
		}
	}
	s.store(ctx, fresh)
	return vectors, nil
}

// embedShared embeds texts, joining an identical in-flight batch if there
// is one. The batch runs detached from ctx under batchTimeout, so a caller
// giving up never fails the other callers waiting on it. The caller waits
// only as long as ctx allows, even if the embedder ignores cancellation.
// The returned vectors may be shared and must not be modified.
func (s *SemanticScorer) embedShared(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := batchKey(s.modelID, texts)
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(detached, s.batchTimeout)
		defer cancel()
		return s.embed(callCtx, texts)
	})

	select {
	case <-ctx.Done():
		// A stuck batch must not capture later attempts.
		s.group.Forget(key)
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("shared in-flight embedding batch", "count", len(texts))
		}
		return res.Val.([][]float32), nil
	}
}

func (s *SemanticScorer) embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d vectors, got %d", ai.ErrEmbeddingCount, len(texts), len(vectors))
	}
	return vectors, nil
}

// lookup reads cached entries. Cache failures are logged and treated as misses.
func (s *SemanticScorer) lookup(ctx context.Context, docs []Document) map[string]*storage.CachedEmbedding {
	if s.cache == nil {
		return nil
	}
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.ID != "" && strings.TrimSpace(doc.Text) != "" {
			ids = append(ids, doc.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	found, err := s.cache.GetEmbeddings(ctx, s.modelID, ids...)
	if err != nil {
		s.logger.Warn("embedding cache read failed", "err", err)
		return nil
	}
	return found
}

func (s *SemanticScorer) store(ctx context.Context, entries map[string]*storage.CachedEmbedding) {
	if s.cache == nil || len(entries) == 0 {
		return
	}
	if err := s.cache.PutEmbeddings(ctx, s.modelID, entries); err != nil {
		s.logger.Warn("embedding cache write failed", "count", len(entries), "err", err)
	}
}

// batchKey fingerprints a batch of texts so identical concurrent misses
// share one embedder call.
func batchKey(modelID string, texts []string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(modelID))
	var buf [8]byte
	for _, text := range texts {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(text)))
		h.Write(buf[:])
		h.Write([]byte(text))
	}
	return string(h.Sum(nil))
}
