package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/atikulmunna/clientlog/internal/model"
	"github.com/atikulmunna/clientlog/internal/parser"
)

const epsWindow = 5 * time.Second

// Stats holds a point-in-time snapshot of submission metrics.
type Stats struct {
	Uptime      string           `json:"uptime"`
	TotalEvents int64            `json:"total_events"`
	Rejected    int64            `json:"rejected"`
	EPS         float64          `json:"eps"`
	LevelCounts map[string]int64 `json:"level_counts"`
	Dropped     int64            `json:"dropped"`
}

// Aggregator consumes accepted entries from a hub subscription and computes metrics.
type Aggregator struct {
	mu          sync.RWMutex
	startTime   time.Time
	totalEvents int64
	rejected    int64
	levelCounts map[string]int64
	window      []time.Time // receive times within the last epsWindow
	dropped     func() int64
	entries     <-chan model.LogEntry
}

// New creates an Aggregator reading from entries. droppedFn reports the hub's drop count.
func New(entries <-chan model.LogEntry, droppedFn func() int64) *Aggregator {
	return &Aggregator{
		startTime:   time.Now(),
		levelCounts: make(map[string]int64),
		dropped:     droppedFn,
		entries:     entries,
	}
}

// Reject counts a submission that failed to decode or store.
func (a *Aggregator) Reject() {
	a.mu.Lock()
	a.rejected++
	a.mu.Unlock()
}

// Snapshot returns the current metrics.
func (a *Aggregator) Snapshot() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	counts := make(map[string]int64, len(a.levelCounts))
	for k, v := range a.levelCounts {
		counts[k] = v
	}

	cutoff := time.Now().Add(-epsWindow)
	var recent int
	for _, t := range a.window {
		if t.After(cutoff) {
			recent++
		}
	}

	return Stats{
		Uptime:      time.Since(a.startTime).Truncate(time.Second).String(),
		TotalEvents: a.totalEvents,
		Rejected:    a.rejected,
		EPS:         float64(recent) / epsWindow.Seconds(),
		LevelCounts: counts,
		Dropped:     a.dropped(),
	}
}

// Start consumes entries and updates metrics. Blocks until the context is
// cancelled or the entries channel is closed.
func (a *Aggregator) Start(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-a.entries:
			if !ok {
				return
			}
			a.record(entry)
		case <-ticker.C:
			a.prune()
		}
	}
}

func (a *Aggregator) record(entry model.LogEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalEvents++
	a.levelCounts[parser.NormalizeLevel(entry.Level)]++
	a.window = append(a.window, time.Now())
}

// prune removes timestamps older than epsWindow from the sliding window.
func (a *Aggregator) prune() {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := time.Now().Add(-epsWindow)
	i := 0
	for _, t := range a.window {
		if t.After(cutoff) {
			a.window[i] = t
			i++
		}
	}
	a.window = a.window[:i]
}
