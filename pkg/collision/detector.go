package collision

import (
	"github.com/opd-ai/go-breakout/pkg/metrics"
	"github.com/opd-ai/go-breakout/pkg/world"
)

// Detector answers the two questions the owning loop asks every sub-step.
type Detector interface {
	// StepCollisions returns every collision present over dt. With a
	// vanishing dt it reports the collisions true of current positions.
	StepCollisions(state *world.GameState, dt float64) []Collision
	// TimeBeforeCollision returns the largest t <= maxDt with no collision.
	TimeBeforeCollision(state *world.GameState, maxDt float64) float64
}

// DetectorConfig bounds the time-of-impact search
type DetectorConfig struct {
	// TimeEpsilon is the bracket width at which the search stops and the
	// delta used to read instant collisions.
	TimeEpsilon float64
	// MaxSearchDepth caps bisection steps regardless of TimeEpsilon.
	MaxSearchDepth int
}

// DefaultDetectorConfig returns the stock search settings
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{TimeEpsilon: 1e-4, MaxSearchDepth: 64}
}

// BisectionDetector finds the time of impact by binary search over an
// Engine. It holds no per-state data and may be shared by one arena's loop.
type BisectionDetector struct {
	engine Engine
	cfg    DetectorConfig
	timer  metrics.Timer
}

// NewDetector creates a detector. A nil timer disables measurement.
func NewDetector(engine Engine, cfg DetectorConfig, timer metrics.Timer) *BisectionDetector {
	if timer == nil {
		timer = metrics.Nop{}
	}
	return &BisectionDetector{engine: engine, cfg: cfg, timer: timer}
}

// Epsilon returns the configured time tolerance
func (d *BisectionDetector) Epsilon() float64 {
	return d.cfg.TimeEpsilon
}

// StepCollisions implements Detector
func (d *BisectionDetector) StepCollisions(state *world.GameState, dt float64) []Collision {
	defer metrics.Track(d.timer, metrics.OpStepCollisions)()
	return d.engine.GenerateStepCollisions(state, dt)
}

// TimeBeforeCollision implements Detector. The full delta is tried first;
// a state already colliding within epsilon yields zero.
func (d *BisectionDetector) TimeBeforeCollision(state *world.GameState, maxDt float64) float64 {
	defer metrics.Track(d.timer, metrics.OpTimeBeforeCollision)()

	if maxDt <= 0 {
		return 0
	}
	if !d.collides(state, maxDt) {
		return maxDt
	}
	eps := d.cfg.TimeEpsilon
	if maxDt <= eps || d.collides(state, eps) {
		return 0
	}

	lo, hi := eps, maxDt
	for depth := 0; hi-lo >= eps && depth < d.cfg.MaxSearchDepth; depth++ {
		mid := lo + (hi-lo)/2
		if d.collides(state, mid) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}

func (d *BisectionDetector) collides(state *world.GameState, dt float64) bool {
	return len(d.engine.GenerateStepCollisions(state, dt)) > 0
}
