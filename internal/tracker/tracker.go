// Package tracker owns the in-memory expense collection and re-derives
// insight snapshots from it on demand. The aggregation engine itself
// stays stateless; the tracker only guards the record slice.
package tracker

import (
	"sync"

	"splitledger/internal/core"
	"splitledger/internal/insights"
)

// Tracker is a concurrency-safe record store. All reads hand out
// copies so callers can never mutate the tracker's data.
type Tracker struct {
	mu      sync.RWMutex
	records []core.Expense
	engine  insights.Engine
}

// New creates a tracker deriving snapshots with the given engine.
func New(engine insights.Engine) *Tracker {
	return &Tracker{engine: engine}
}

// Append validates and stores one expense.
func (t *Tracker) Append(e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append(t.records, e)
	return nil
}

// ReplaceAll swaps the whole record set, used when a fresh sheet fetch
// supersedes the cached data.
func (t *Tracker) ReplaceAll(records []core.Expense) {
	copied := make([]core.Expense, len(records))
	copy(copied, records)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = copied
}

// Records returns a copy of the current record set in insertion order.
func (t *Tracker) Records() []core.Expense {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]core.Expense, len(t.records))
	copy(out, t.records)
	return out
}

// Len reports how many records are stored.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

// Insights computes a fresh snapshot over the optional date window.
func (t *Tracker) Insights(w insights.Window) insights.Snapshot {
	t.mu.RLock()
	records := t.records
	t.mu.RUnlock()
	// Compute copies what it keeps, so reading the slice under RLock
	// and aggregating outside it is safe: ReplaceAll swaps the slice
	// header instead of writing into it.
	return t.engine.Compute(records, w)
}
