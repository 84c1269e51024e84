package warmup

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Progress reports how far a warm-up run has got.
// It is safe for concurrent use. A nil writer discards all output.
type Progress struct {
	mu       sync.Mutex
	out      io.Writer
	total    int
	done     int
	every    int
	reported int
	start    time.Time
	running  bool
}

// NewProgress creates a tracker for total messages that prints a line every
// `every` messages.
func NewProgress(out io.Writer, total, every int) *Progress {
	return &Progress{out: out, total: total, every: max(every, 1)}
}

// Start resets the counters and the clock.
func (p *Progress) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.start = time.Now()
	p.running = true
	p.done = 0
	p.reported = 0
}

// Add records n more processed messages, capped at the total.
func (p *Progress) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.done = min(p.done+n, p.total)
	if p.done-p.reported >= p.every {
		p.print()
		p.reported = p.done
	}
}

// Done returns the number of messages recorded so far.
func (p *Progress) Done() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Finish prints the final line. The counter is left where it is, so a run
// that stopped early shows how far it got.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.running = false
	p.print()
	if p.out != nil {
		fmt.Fprintln(p.out)
	}
}

// Elapsed returns the time since Start.
func (p *Progress) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.start.IsZero() {
		return 0
	}
	return time.Since(p.start)
}

// print writes the current line. Caller holds mu.
func (p *Progress) print() {
	if p.out == nil {
		return
	}
	rate := 0.0
	if secs := time.Since(p.start).Seconds(); secs > 0 {
		rate = float64(p.done) / secs
	}
	percent := 0.0
	if p.total > 0 {
		percent = float64(p.done) / float64(p.total) * 100
	}
	fmt.Fprintf(p.out, "\rProgress: %d/%d (%.1f%%) - %.1f messages/s", p.done, p.total, percent, rate)
}
