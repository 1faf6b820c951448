package arena

import (
	"math"
	"math/rand/v2"

	"github.com/opd-ai/go-breakout/pkg/engine"
)

// Agent chooses an action from an observation
type Agent interface {
	Act(obs []float64) engine.Action
}

// AgentFunc adapts a function to Agent
type AgentFunc func(obs []float64) engine.Action

// Act implements Agent
func (f AgentFunc) Act(obs []float64) engine.Action { return f(obs) }

// Idle never moves and never throws
var Idle = AgentFunc(func([]float64) engine.Action { return engine.ActionStay })

// Tracker throws any held ball, then keeps the platform under the lowest
// descending ball.
type Tracker struct {
	// Deadband is the fraction of the platform width within which the
	// platform stays put.
	Deadband float64
}

// NewTracker returns a tracker with a quarter-width deadband
func NewTracker() *Tracker {
	return &Tracker{Deadband: 0.25}
}

// Act implements Agent
func (t *Tracker) Act(obs []float64) engine.Action {
	found, bestDescending := false, false
	target, bestY := 0.0, math.Inf(-1)
	for i := 0; i < MaxObservedBalls; i++ {
		ball := obs[BallSlot(i) : BallSlot(i)+BallFeatures]
		if ball[BallPresent] == 0 {
			continue
		}
		if ball[BallThrown] == 0 {
			return engine.ActionThrow
		}
		descending := ball[BallDirY] > 0
		if !found || (descending && !bestDescending) ||
			(descending == bestDescending && ball[BallY] > bestY) {
			found, bestDescending = true, descending
			target, bestY = ball[BallX], ball[BallY]
		}
	}
	if !found {
		return engine.ActionStay
	}

	offset := target - obs[ObsPlatformX]
	if math.Abs(offset) <= obs[ObsPlatformWidth]*t.Deadband {
		return engine.ActionStay
	}
	if offset < 0 {
		return engine.ActionLeft
	}
	return engine.ActionRight
}

// Random picks uniformly among all actions
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a seeded random agent
func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Act implements Agent
func (r *Random) Act([]float64) engine.Action {
	return engine.Actions[r.rng.IntN(len(engine.Actions))]
}
