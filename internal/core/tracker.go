package core

import "sync"

// Tracker holds the latest Progress of a run and fans it out to
// subscribers. The ingester writes through Update; readers (the status
// server) only see snapshots.
type Tracker struct {
	mu        sync.RWMutex
	progress  Progress
	listeners []chan Progress
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Update records p and forwards it to subscribers. A subscriber that is
// not keeping up misses the update. Listeners are closed once p is final.
func (t *Tracker) Update(p Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.progress = p
	for _, ch := range t.listeners {
		select {
		case ch <- p:
		default:
		}
	}

	if p.Phase == PhaseComplete || p.Phase == PhaseFailed {
		for _, ch := range t.listeners {
			close(ch)
		}
		t.listeners = nil
	}
}

// Snapshot returns the latest progress.
func (t *Tracker) Snapshot() Progress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress
}

// Subscribe returns a channel receiving progress updates. It is sent the
// current snapshot immediately and closed when the run finishes.
func (t *Tracker) Subscribe() <-chan Progress {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan Progress, 10)
	ch <- t.progress
	if t.progress.Phase == PhaseComplete || t.progress.Phase == PhaseFailed {
		close(ch)
		return ch
	}
	t.listeners = append(t.listeners, ch)
	return ch
}
