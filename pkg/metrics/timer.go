// Package metrics provides the timing collaborator injected into the
// collision detector and the arena loop.
package metrics

import (
	"sort"
	"sync"
	"time"
)

// Operation names observed by the collision core
const (
	OpStepCollisions      = "step_collisions"
	OpTimeBeforeCollision = "time_before_collision"
	OpTick                = "tick"
)

// Timer receives one observation per measured call
type Timer interface {
	Observe(op string, d time.Duration)
}

// Nop discards observations
type Nop struct{}

// Observe implements Timer
func (Nop) Observe(string, time.Duration) {}

// Track starts measuring op and returns the function that records it
func Track(t Timer, op string) func() {
	if t == nil {
		return func() {}
	}
	start := time.Now()
	return func() { t.Observe(op, time.Since(start)) }
}

// Stat aggregates observations of one operation
type Stat struct {
	Op    string
	Count int
	Total time.Duration
	Max   time.Duration
}

// Mean returns the average duration
func (s Stat) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Recorder aggregates observations per operation. It is safe to share
// between arenas.
type Recorder struct {
	mu    sync.Mutex
	stats map[string]*Stat
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{stats: make(map[string]*Stat)}
}

// Observe implements Timer
func (r *Recorder) Observe(op string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stats[op]
	if !ok {
		s = &Stat{Op: op}
		r.stats[op] = s
	}
	s.Count++
	s.Total += d
	if d > s.Max {
		s.Max = d
	}
}

// Snapshot returns the current statistics sorted by operation name
func (r *Recorder) Snapshot() []Stat {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Stat, 0, len(r.stats))
	for _, s := range r.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Op < out[j].Op })
	return out
}
