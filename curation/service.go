package curation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/fusion"
	"github.com/poiesic/curator/retry"
	"github.com/poiesic/curator/scoring"
	"github.com/poiesic/curator/storage"
	"github.com/poiesic/curator/terms"
)

// Service ranks message batches. It is safe for concurrent use.
type Service struct {
	embedder ai.Embedder
	cache    storage.EmbeddingCache
	modelID  string
	pool     *ants.Pool
	monitor  Monitor
	logger   *slog.Logger
	semantic *scoring.SemanticScorer
	released atomic.Bool
}

// Option configures a Service.
type Option func(*Service) error

// WithEmbedder enables semantic scoring. Without an embedder, semantic and
// hybrid calls run keyword-only.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(s *Service) error {
		s.embedder = embedder
		return nil
	}
}

// WithProvider sets the embedder and model id from an ai.Provider.
func WithProvider(provider ai.Provider) Option {
	return func(s *Service) error {
		if provider == nil {
			return nil
		}
		s.embedder = provider.Embedder()
		s.modelID = provider.ModelID()
		return nil
	}
}

// WithModelID names the embedding model for cache keys.
func WithModelID(modelID string) Option {
	return func(s *Service) error {
		s.modelID = modelID
		return nil
	}
}

// WithCache reuses document embeddings across calls. Requires a model id,
// set by WithProvider or WithModelID.
func WithCache(cache storage.EmbeddingCache) Option {
	return func(s *Service) error {
		s.cache = cache
		return nil
	}
}

// WithMonitor sets the default monitor for Curate.
func WithMonitor(monitor Monitor) Option {
	return func(s *Service) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}

// WithPoolSize sets the worker pool size for per-preference scoring.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Service) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if s.pool != nil {
			s.pool.Release()
		}
		s.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "curation")
		return nil
	}
}

// NewService creates a curation service.
func NewService(opts ...Option) (*Service, error) {
	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Service{
		pool:    pool,
		monitor: &noopMonitor{},
		logger:  slog.Default().With("component", "curation"),
	}

	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			s.Release()
			return nil, optErr
		}
	}

	if s.embedder != nil {
		semantic, err := scoring.NewSemanticScorer(s.embedder,
			scoring.WithCache(s.cache, s.modelID),
			scoring.WithLogger(s.logger),
		)
		if err != nil {
			s.Release()
			return nil, err
		}
		s.semantic = semantic
	} else if s.cache != nil {
		s.logger.Warn("embedding cache configured without an embedder, ignoring it")
	}

	return s, nil
}

// Release frees the worker pool. The service must not be used afterwards.
func (s *Service) Release() {
	if s.released.Swap(true) {
		return
	}
	if s.pool != nil {
		s.pool.Release()
	}
}

// SemanticEnabled reports whether an embedder is configured.
func (s *Service) SemanticEnabled() bool {
	return s.semantic != nil
}

// Curate ranks messages against preferences using the service monitor.
// A nil cfg uses DefaultConfig.
func (s *Service) Curate(ctx context.Context, messages []*core.Message, preferences []string, cfg *Config) (*core.CurationResult, error) {
	return s.CurateWithMonitor(ctx, messages, preferences, cfg, nil)
}

// CurateWithMonitor ranks messages against preferences, reporting progress
// to monitor instead of the service monitor.
//
// Invalid messages are skipped and reported; the embedder failing or timing
// out degrades the call to keyword scoring. The returned error is non-nil
// only for an invalid cfg, a released service, or ctx ending.
func (s *Service) CurateWithMonitor(ctx context.Context, messages []*core.Message, preferences []string, cfg *Config, monitor Monitor) (*core.CurationResult, error) {
	if s == nil || s.released.Load() {
		return nil, ErrServiceReleased
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if monitor == nil {
		monitor = s.monitor
	}

	valid := make([]*core.Message, 0, len(messages))
	for i, msg := range messages {
		if err := core.ValidateMessage(msg); err != nil {
			s.logger.Warn("skipping invalid message", "index", i, "err", err)
			monitor.MessageSkipped(i, err)
			continue
		}
		valid = append(valid, msg)
	}
	prefs := core.NormalizePreferences(preferences)
	method := cfg.Method

	monitor.Start(len(valid), prefs, method)

	in := fusion.Input{Messages: valid, Preferences: prefs}
	if len(valid) > 0 && len(prefs) > 0 {
		var err error
		method, err = s.score(ctx, cfg, &in, monitor)
		if err != nil {
			return nil, err
		}
	}

	result := fusion.Fuse(cfg.fusionParams(method), in)
	s.logger.Debug("curation complete",
		"messages", result.TotalCount,
		"skipped", len(messages)-len(valid),
		"important", result.ImportantCount,
		"preferences", len(prefs),
		"method", result.CurationMethod)
	monitor.Finish(result)
	return result, nil
}

// score fills the score matrices of in and returns the method that
// actually ran.
func (s *Service) score(ctx context.Context, cfg *Config, in *fusion.Input, monitor Monitor) (core.Method, error) {
	method := cfg.Method
	corpus := make([]string, len(in.Messages))
	for i, msg := range in.Messages {
		corpus[i] = msg.Content
	}

	if method.UsesSemantic() {
		semantic, err := s.semanticScores(ctx, cfg, in)
		switch {
		case err == nil:
			in.Semantic = semantic
			monitor.AfterSemanticScoring(semantic)
		case ctx.Err() != nil:
			return method, ctx.Err()
		default:
			s.logger.Warn("semantic scoring unavailable, falling back to keyword scoring", "err", err)
			monitor.Degraded(err)
			method = core.MethodKeywordOnly
		}
	}

	if method.UsesKeyword() {
		tokenizer := terms.NewTokenizer(
			terms.WithStopWords(cfg.StopWords),
			terms.WithMinTokenLength(cfg.MinTokenLength),
		)
		ix := scoring.NewKeywordScorer(tokenizer).Index(corpus)
		in.Keyword = make([][]float64, len(in.Preferences))
		if err := s.forEachPreference(ctx, len(in.Preferences), func(p int) {
			in.Keyword[p] = ix.Similarities(in.Preferences[p])
		}); err != nil {
			return method, err
		}
		monitor.AfterKeywordScoring(in.Keyword)
	}

	return method, nil
}

// semanticScores embeds documents and preferences under the configured
// timeout and retry policy. The timeout bounds the wait even when the
// embedder ignores cancellation. Any failure is wrapped in
// ErrEmbedderUnavailable.
func (s *Service) semanticScores(ctx context.Context, cfg *Config, in *fusion.Input) ([][]float64, error) {
	if s.semantic == nil {
		return nil, fmt.Errorf("%w: no embedder configured", ErrEmbedderUnavailable)
	}

	embedCtx := ctx
	if cfg.EmbedTimeout > 0 {
		var cancel context.CancelFunc
		embedCtx, cancel = context.WithTimeout(ctx, cfg.EmbedTimeout)
		defer cancel()
	}

	docs := make([]scoring.Document, len(in.Messages))
	for i, msg := range in.Messages {
		docs[i] = scoring.Document{ID: msg.ID, Text: msg.Content}
	}

	var docVectors, prefVectors [][]float32
	err := retry.WithBackoff(embedCtx, func(ctx context.Context) error {
		var err error
		if docVectors, err = s.semantic.EmbedDocuments(ctx, docs); err != nil {
			return err
		}
		prefVectors, err = s.semantic.EmbedQueries(ctx, in.Preferences)
		return err
	}, cfg.EmbedRetries+1, cfg.EmbedRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedderUnavailable, err)
	}

	scores := make([][]float64, len(in.Preferences))
	if err := s.forEachPreference(ctx, len(in.Preferences), func(p int) {
		if prefVectors[p] == nil {
			scores[p] = make([]float64, len(docs))
			return
		}
		scores[p] = scoring.Similarities(prefVectors[p], docVectors)
	}); err != nil {
		return nil, err
	}
	return scores, nil
}

// forEachPreference runs fn(0..n-1) on the worker pool and waits. Each call
// writes only its own slot, so results match sequential execution.
func (s *Service) forEachPreference(ctx context.Context, n int, fn func(p int)) error {
	var wg sync.WaitGroup
	var submitErr error
	for p := range n {
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			fn(p)
		})
		if err != nil {
			wg.Done()
			if errors.Is(err, ants.ErrPoolClosed) {
				submitErr = ErrServiceReleased
				break
			}
			// Overloaded pool: run inline.
			fn(p)
		}
	}
	wg.Wait()
	if submitErr != nil {
		return submitErr
	}
	return ctx.Err()
}
