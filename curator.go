// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package curator ranks ingested messages against user preferences.
//
// Open wires an embedding provider, an optional Badger embedding cache and
// a curation service into one Engine:
//
//	engine, err := curator.Open(
//		curator.WithAIConfig(ai.NewConfig(ai.WithEmbeddingModel("embeddinggemma"))),
//		curator.WithCachePath("/var/lib/curator/cache"),
//	)
//	defer engine.Close()
//	result, err := engine.Curate(ctx, messages, []string{"Go releases"}, nil)
//
// Without an AI config or provider the engine ranks by keywords only.
package curator

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/ai/openai"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/curation"
	"github.com/poiesic/curator/scoring"
	"github.com/poiesic/curator/storage"
	"github.com/poiesic/curator/storage/badger"
	"github.com/poiesic/curator/warmup"
)

var (
	// ErrNoEmbedder is returned by operations that need an embedding provider.
	ErrNoEmbedder = errors.New("no embedding provider configured")

	// ErrNoCache is returned by operations that need an embedding cache.
	ErrNoCache = errors.New("no embedding cache configured")
)

// Engine is a ready-to-use curation stack. It is safe for concurrent use.
type Engine struct {
	provider     ai.Provider
	ownsProvider bool
	cache        storage.EmbeddingCache
	ownsCache    bool
	service      *curation.Service
	semantic     *scoring.SemanticScorer
	baseLogger   *slog.Logger
	logger       *slog.Logger
}

// Option configures Open.
type Option func(*options)

type options struct {
	aiConfig  *ai.Config
	provider  ai.Provider
	cache     storage.EmbeddingCache
	cachePath string
	memCache  bool
	poolSize  int
	monitor   curation.Monitor
	logger    *slog.Logger
}

// WithAIConfig enables semantic scoring through an OpenAI-compatible
// embedding endpoint.
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) {
		o.aiConfig = cfg
	}
}

// WithProvider enables semantic scoring with an existing provider.
// It takes precedence over WithAIConfig. The caller keeps ownership of it.
func WithProvider(provider ai.Provider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithCachePath opens a Badger embedding cache in the given directory.
func WithCachePath(path string) Option {
	return func(o *options) {
		o.cachePath = path
	}
}

// WithMemoryCache uses an in-memory embedding cache that lives as long as
// the engine.
func WithMemoryCache() Option {
	return func(o *options) {
		o.memCache = true
	}
}

// WithCache uses an existing cache. The caller keeps ownership of it.
func WithCache(cache storage.EmbeddingCache) Option {
	return func(o *options) {
		o.cache = cache
	}
}

// WithPoolSize sets the curation worker pool size.
func WithPoolSize(size int) Option {
	return func(o *options) {
		o.poolSize = size
	}
}

// WithMonitor sets the default curation monitor.
func WithMonitor(monitor curation.Monitor) Option {
	return func(o *options) {
		o.monitor = monitor
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Open builds an Engine. Resources opened here are released if a later
// step fails.
func Open(opts ...Option) (*Engine, error) {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	e := &Engine{
		provider:   o.provider,
		cache:      o.cache,
		baseLogger: o.logger,
		logger:     o.logger.With("component", "engine"),
	}

	if e.provider == nil && o.aiConfig != nil {
		provider, err := openai.NewProvider(o.aiConfig)
		if err != nil {
			return nil, err
		}
		e.provider = provider
		e.ownsProvider = true
	}

	if e.cache == nil {
		var err error
		switch {
		case o.cachePath != "":
			e.cache, err = badger.OpenEmbeddingCache(o.cachePath)
		case o.memCache:
			e.cache, err = badger.NewMemoryEmbeddingCache()
		}
		if err != nil {
			e.Close()
			return nil, err
		}
		e.ownsCache = e.cache != nil
	}

	serviceOpts := []curation.Option{curation.WithLogger(o.logger)}
	if e.provider != nil {
		serviceOpts = append(serviceOpts, curation.WithProvider(e.provider))
		if e.cache != nil {
			serviceOpts = append(serviceOpts, curation.WithCache(e.cache))
		}
	}
	if o.poolSize > 0 {
		serviceOpts = append(serviceOpts, curation.WithPoolSize(o.poolSize))
	}
	if o.monitor != nil {
		serviceOpts = append(serviceOpts, curation.WithMonitor(o.monitor))
	}

	service, err := curation.NewService(serviceOpts...)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.service = service

	if e.provider != nil && e.cache != nil {
		semantic, err := scoring.NewSemanticScorer(e.provider.Embedder(),
			scoring.WithCache(e.cache, e.provider.ModelID()),
			scoring.WithLogger(o.logger),
		)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.semantic = semantic
	}

	e.logger.Debug("engine opened", "semantic", e.provider != nil, "cache", e.cache != nil)
	return e, nil
}

// Close releases the worker pool and any provider or cache opened by Open.
// It returns the first error encountered; later steps still run.
func (e *Engine) Close() error {
	var firstErr error
	if e.service != nil {
		e.service.Release()
	}
	if e.ownsProvider && e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
			firstErr = err
		}
	}
	if e.ownsCache && e.cache != nil {
		if err := e.cache.Close(); err != nil {
			e.logger.Error("error closing embedding cache", "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Service returns the underlying curation service.
func (e *Engine) Service() *curation.Service {
	return e.service
}

// Cache returns the embedding cache, or nil.
func (e *Engine) Cache() storage.EmbeddingCache {
	return e.cache
}

// ModelID returns the embedding model id, or "" in keyword-only mode.
func (e *Engine) ModelID() string {
	if e.provider == nil {
		return ""
	}
	return e.provider.ModelID()
}

// Curate ranks messages against preferences. A nil cfg uses
// curation.DefaultConfig.
func (e *Engine) Curate(ctx context.Context, messages []*core.Message, preferences []string, cfg *curation.Config) (*core.CurationResult, error) {
	return e.service.Curate(ctx, messages, preferences, cfg)
}

// CurateWithMonitor is Curate with a per-call monitor.
func (e *Engine) CurateWithMonitor(ctx context.Context, messages []*core.Message, preferences []string, cfg *curation.Config, monitor curation.Monitor) (*core.CurationResult, error) {
	return e.service.CurateWithMonitor(ctx, messages, preferences, cfg, monitor)
}

// Warm pre-embeds messages into the cache. progress may be nil.
func (e *Engine) Warm(ctx context.Context, messages []*core.Message, cfg *warmup.Config, progress io.Writer) (*warmup.Report, error) {
	if e.provider == nil {
		return nil, ErrNoEmbedder
	}
	if e.cache == nil {
		return nil, ErrNoCache
	}
	return warmup.NewWarmer(e.semantic, cfg, progress, warmup.WithLogger(e.baseLogger)).Run(ctx, messages)
}

// CachedEmbeddings counts cached vectors for the engine's model, or for
// every model when allModels is set.
func (e *Engine) CachedEmbeddings(ctx context.Context, allModels bool) (int, error) {
	model, err := e.modelFilter(allModels)
	if err != nil {
		return 0, err
	}
	return e.cache.CountEmbeddings(ctx, model)
}

// PurgeCache deletes cached vectors for the engine's model, or for every
// model when allModels is set.
func (e *Engine) PurgeCache(ctx context.Context, allModels bool) error {
	model, err := e.modelFilter(allModels)
	if err != nil {
		return err
	}
	return e.cache.PurgeEmbeddings(ctx, model)
}

// modelFilter returns the cache model key, "" meaning every model.
func (e *Engine) modelFilter(allModels bool) (string, error) {
	switch {
	case e.cache == nil:
		return "", ErrNoCache
	case allModels:
		return "", nil
	case e.provider == nil:
		return "", ErrNoEmbedder
	}
	return e.provider.ModelID(), nil
}
