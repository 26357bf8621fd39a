package pipeline

import (
	"sync"

	"StockAnalyst/internal/model"
)

// StatusBoard is the per-run map of instrument progress. It is safe for concurrent use.
type StatusBoard struct {
	mu       sync.RWMutex
	order    []string
	statuses map[string]model.RunStatus
	onChange func(ticker string, status model.RunStatus)
}

// NewStatusBoard starts every ticker at pending.
func NewStatusBoard(tickers []string, onChange func(string, model.RunStatus)) *StatusBoard {
	b := &StatusBoard{
		order:    append([]string(nil), tickers...),
		statuses: make(map[string]model.RunStatus, len(tickers)),
		onChange: onChange,
	}
	for _, t := range tickers {
		b.statuses[t] = model.StatusPending
	}
	return b
}

// Set records a transition and notifies the change hook outside the lock.
func (b *StatusBoard) Set(ticker string, status model.RunStatus) {
	b.mu.Lock()
	if _, ok := b.statuses[ticker]; !ok {
		b.order = append(b.order, ticker)
	}
	b.statuses[ticker] = status
	hook := b.onChange
	b.mu.Unlock()

	if hook != nil {
		hook(ticker, status)
	}
}

// Get returns the status of ticker.
func (b *StatusBoard) Get(ticker string) (model.RunStatus, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.statuses[ticker]
	return s, ok
}

// StatusEntry is one row of a snapshot.
type StatusEntry struct {
	Ticker string
	Status model.RunStatus
}

// Snapshot copies the board in instrument order.
func (b *StatusBoard) Snapshot() []StatusEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]StatusEntry, len(b.order))
	for i, t := range b.order {
		out[i] = StatusEntry{Ticker: t, Status: b.statuses[t]}
	}
	return out
}

// Counts tallies tickers per status.
func (b *StatusBoard) Counts() map[model.RunStatus]int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	counts := make(map[model.RunStatus]int, 5)
	for _, s := range b.statuses {
		counts[s]++
	}
	return counts
}
