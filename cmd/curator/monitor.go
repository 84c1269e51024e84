package main

import (
	"log/slog"

	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/curation"
)

// logMonitor reports each curation stage at info level.
type logMonitor struct {
	logger *slog.Logger
}

var _ curation.Monitor = (*logMonitor)(nil)

func newLogMonitor(logger *slog.Logger) *logMonitor {
	return &logMonitor{logger: logger.With("component", "monitor")}
}

func (m *logMonitor) Start(messageCount int, preferences []string, method core.Method) {
	m.logger.Info("curation started", "messages", messageCount, "preferences", len(preferences), "method", method)
}

func (m *logMonitor) MessageSkipped(index int, err error) {
	m.logger.Info("message skipped", "index", index, "err", err)
}

func (m *logMonitor) AfterKeywordScoring(scores [][]float64) {
	m.logger.Info("keyword scoring done", "best", bestScore(scores))
}

func (m *logMonitor) AfterSemanticScoring(scores [][]float64) {
	m.logger.Info("semantic scoring done", "best", bestScore(scores))
}

func (m *logMonitor) Degraded(err error) {
	m.logger.Info("falling back to keyword scoring", "err", err)
}

func (m *logMonitor) Finish(result *core.CurationResult) {
	m.logger.Info("curation finished",
		"important", result.ImportantCount,
		"regular", len(result.Regular),
		"method", result.CurationMethod)
}

func bestScore(scores [][]float64) float64 {
	best := 0.0
	for _, row := range scores {
		for _, s := range row {
			best = max(best, s)
		}
	}
	return best
}
