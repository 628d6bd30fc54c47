package sim

import (
	"sync"
	"sync/atomic"
	"time"
)

// Memo caches the most recent frame so repeated requests for the same
// simulation time, such as redraws while paused, skip evaluation.
type Memo struct {
	sim *Simulator

	mu   sync.Mutex
	last *Frame

	hits, misses atomic.Uint64
}

func NewMemo(s *Simulator) *Memo {
	return &Memo{sim: s}
}

func (m *Memo) Frame(t time.Time) Frame {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.last != nil && m.last.Time.Equal(t) {
		m.hits.Add(1)
		return *m.last
	}
	m.misses.Add(1)
	f := m.sim.Evaluate(t)
	m.last = &f
	return f
}

// Invalidate drops the cached frame, e.g. after trajectories are replaced.
func (m *Memo) Invalidate() {
	m.mu.Lock()
	m.last = nil
	m.mu.Unlock()
}

func (m *Memo) Stats() (hits, misses uint64) {
	return m.hits.Load(), m.misses.Load()
}
