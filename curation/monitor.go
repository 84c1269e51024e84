package curation

import "github.com/poiesic/curator/core"

// Monitor provides hooks to observe a curation call.
// Score matrices are indexed [preference][message] over the valid messages
// and must not be modified.
type Monitor interface {
	Start(messageCount int, preferences []string, method core.Method)
	MessageSkipped(index int, err error)
	AfterKeywordScoring(scores [][]float64)
	AfterSemanticScoring(scores [][]float64)
	Degraded(err error)
	Finish(result *core.CurationResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ int, _ []string, _ core.Method) {}
func (n *noopMonitor) MessageSkipped(_ int, _ error)          {}
func (n *noopMonitor) AfterKeywordScoring(_ [][]float64)      {}
func (n *noopMonitor) AfterSemanticScoring(_ [][]float64)     {}
func (n *noopMonitor) Degraded(_ error)                       {}
func (n *noopMonitor) Finish(_ *core.CurationResult)          {}
