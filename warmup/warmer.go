package warmup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/retry"
	"github.com/poiesic/curator/scoring"
)

// Report summarizes a warm-up run.
type Report struct {
	// Total is the number of messages passed to Run.
	Total int
	// Warmed is the number of messages whose vectors are now cached.
	Warmed int
	// Skipped counts invalid messages and messages with blank content.
	Skipped int
	// Batches is the number of batches completed.
	Batches int
	Elapsed time.Duration
}

// Warmer embeds messages in batches through a cache-backed SemanticScorer.
type Warmer struct {
	scorer   *scoring.SemanticScorer
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// Option configures a Warmer.
type Option func(*Warmer)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(w *Warmer) {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger.With("component", "warmup")
	}
}

// NewWarmer creates a warmer. progress receives human-readable progress
// lines and may be nil. A nil config uses DefaultConfig.
func NewWarmer(scorer *scoring.SemanticScorer, config *Config, progress io.Writer, opts ...Option) *Warmer {
	if config == nil {
		config = DefaultConfig()
	}
	w := &Warmer{
		scorer:   scorer,
		config:   config,
		progress: progress,
		logger:   slog.Default().With("component", "warmup"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run embeds every valid message with non-blank content. Each batch is
// retried up to MaxRetries times; the first batch that still fails stops
// the run and the partial report is returned alongside the error.
func (w *Warmer) Run(ctx context.Context, messages []*core.Message) (*Report, error) {
	if err := w.config.Validate(); err != nil {
		return nil, err
	}

	report := &Report{Total: len(messages)}
	docs := make([]scoring.Document, 0, len(messages))
	for i, msg := range messages {
		if err := core.ValidateMessage(msg); err != nil {
			w.logger.Warn("skipping invalid message", "index", i, "error", err)
			report.Skipped++
			continue
		}
		if strings.TrimSpace(msg.Content) == "" {
			report.Skipped++
			continue
		}
		docs = append(docs, scoring.Document{ID: msg.ID, Text: msg.Content})
	}

	if len(docs) == 0 {
		w.printf("No messages to embed (%d skipped)\n", report.Skipped)
		return report, nil
	}

	w.printf("Warming cache for %d messages (batch size: %d)\n", len(docs), w.config.BatchSize)
	tracker := NewProgress(w.progress, len(docs), w.config.ReportInterval)
	tracker.Start()

	for start := 0; start < len(docs); start += w.config.BatchSize {
		batch := docs[start:min(start+w.config.BatchSize, len(docs))]
		err := retry.WithBackoff(ctx, func(ctx context.Context) error {
			_, err := w.scorer.EmbedDocuments(ctx, batch)
			return err
		}, w.config.MaxRetries, w.config.RetryDelay)
		if err != nil {
			tracker.Finish()
			report.Elapsed = tracker.Elapsed()
			return report, fmt.Errorf("batch %d failed after %d attempts: %w", report.Batches+1, w.config.MaxRetries, err)
		}
		report.Batches++
		report.Warmed += len(batch)
		tracker.Add(len(batch))
		w.logger.Debug("batch embedded", "batch", report.Batches, "size", len(batch))
	}

	tracker.Finish()
	report.Elapsed = tracker.Elapsed()
	w.printf("Warm-up complete. Embedded %d messages in %v (%.1f messages/sec)\n",
		report.Warmed, report.Elapsed.Round(time.Millisecond), float64(report.Warmed)/max(report.Elapsed.Seconds(), 1e-9))
	return report, nil
}

func (w *Warmer) printf(format string, args ...any) {
	if w.progress != nil {
		fmt.Fprintf(w.progress, format, args...)
	}
}
