// pkg/engine/game.go
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/opd-ai/go-breakout/pkg/collision"
	"github.com/opd-ai/go-breakout/pkg/config"
	"github.com/opd-ai/go-breakout/pkg/event"
	"github.com/opd-ai/go-breakout/pkg/logging"
	"github.com/opd-ai/go-breakout/pkg/metrics"
	"github.com/opd-ai/go-breakout/pkg/physics"
	"github.com/opd-ai/go-breakout/pkg/spatial"
	"github.com/opd-ai/go-breakout/pkg/world"
)

// GameStatus tracks whether a game still accepts ticks
type GameStatus int

const (
	GameStatusActive GameStatus = iota
	GameStatusEnded
)

// Outcome explains why a game ended
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeCleared
	OutcomeLost
	OutcomeCustom
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCleared:
		return "cleared"
	case OutcomeLost:
		return "lost"
	case OutcomeCustom:
		return "custom"
	default:
		return "none"
	}
}

// EndCondition lets callers end a game early.
// Returns true when the game should end now.
type EndCondition interface {
	CheckEnd(game *Game) bool
}

// Action is the agent input applied before a tick
type Action int

const (
	ActionStay Action = iota
	ActionLeft
	ActionRight
	ActionThrow
)

// Actions lists every action in index order
var Actions = []Action{ActionStay, ActionLeft, ActionRight, ActionThrow}

func (a Action) String() string {
	switch a {
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionThrow:
		return "throw"
	default:
		return "stay"
	}
}

// TickResult summarises what happened during one Tick
type TickResult struct {
	Substeps        int
	Collisions      int
	BlocksDestroyed int
	BallsLost       int
	// Dropped is the part of the tick discarded at the substep limit
	Dropped float64
}

// Game owns one GameState and advances it with continuous collision
// handling. All methods are safe for concurrent use.
type Game struct {
	Config      *config.Config
	State       *world.GameState
	StateLock   sync.RWMutex
	EventBus    *event.Bus
	Detector    collision.Detector
	Resolver    *collision.Resolver
	CurrentTick uint64
	Status      GameStatus
	Outcome     Outcome

	CustomEndCondition EndCondition // Optional early end check

	ctx    context.Context
	logger *logging.Logger
	timer  metrics.Timer
}

// Option customises a Game at construction
type Option func(*Game)

// WithEventBus publishes events on bus instead of a private one
func WithEventBus(bus *event.Bus) Option {
	return func(g *Game) { g.EventBus = bus }
}

// WithLogger sets the logger used for substep warnings
func WithLogger(logger *logging.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

// WithTimer measures detector and tick durations
func WithTimer(timer metrics.Timer) Option {
	return func(g *Game) { g.timer = timer }
}

// WithContext sets the context carried into log entries
func WithContext(ctx context.Context) Option {
	return func(g *Game) { g.ctx = ctx }
}

// NewEngine builds the collision engine selected by cfg
func NewEngine(cfg config.CollisionConfig) (collision.Engine, error) {
	index, err := spatial.New(cfg.Engine, spatial.TreeConfig{
		MaxDepth:    cfg.TreeMaxDepth,
		MinItems:    cfg.TreeMinItems,
		SplitWeight: cfg.SplitWeight,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build collision engine: %w", err)
	}
	return collision.NewEngine(index, nil), nil
}

// NewGame creates a game over state. The state is owned by the game from
// here on; callers read it through Snapshot.
func NewGame(cfg *config.Config, state *world.GameState, opts ...Option) (*Game, error) {
	game := &Game{
		Config: cfg,
		State:  state,
		Status: GameStatusActive,
		ctx:    context.Background(),
		timer:  metrics.Nop{},
	}
	for _, opt := range opts {
		opt(game)
	}
	if game.EventBus == nil {
		game.EventBus = event.NewEventBus()
	}
	if game.logger == nil {
		game.logger = logging.NewLogger()
	}

	engine, err := NewEngine(cfg.Collision)
	if err != nil {
		return nil, err
	}
	game.Detector = collision.NewDetector(engine, collision.DetectorConfig{
		TimeEpsilon:    cfg.Collision.TimeEpsilon,
		MaxSearchDepth: cfg.Collision.MaxSearchDepth,
	}, game.timer)
	game.Resolver = collision.NewResolver(collision.ResolverConfig{
		MinVertical:    cfg.Physics.MinVertical,
		SpeedEpsilon:   cfg.Physics.SpeedEpsilon,
		PlatformFreeze: cfg.Physics.PlatformFreeze,
	}, game.EventBus)

	return game, nil
}

// Apply steers every platform or throws every held ball
func (g *Game) Apply(action Action) {
	g.StateLock.Lock()
	defer g.StateLock.Unlock()

	switch action {
	case ActionLeft:
		g.steer(-1)
	case ActionRight:
		g.steer(1)
	case ActionStay:
		g.steer(0)
	case ActionThrow:
		g.throwHeldBalls()
	}
}

func (g *Game) steer(dir int) {
	for _, p := range g.State.Platforms {
		p.Steer(dir)
	}
}

// throwHeldBalls launches resting balls upward, leaning with the carrier's
// horizontal motion.
func (g *Game) throwHeldBalls() {
	for _, b := range g.State.Balls {
		if b.Thrown {
			continue
		}
		dir := collision.Nominal
		if p := g.State.Platform(b.Carrier); p != nil && p.Speed > 0 {
			dir = physics.Vector2D{X: p.Velocity.X / p.Speed * collision.PlatformHorizontalFactor, Y: -1}
		}
		b.Throw(dir)
		g.EventBus.Publish(event.NewItemEvent(event.BallThrown, g, b.GetID()))
	}
}

// Update advances the game by the configured tick delta
func (g *Game) Update() TickResult {
	return g.Tick(g.Config.Physics.TickDelta)
}

// Tick advances the state by dt. Each sub-step moves everything up to the
// next time of impact, resolves the collisions found there and continues
// with the remainder. Nothing moves without detection: when MaxSubsteps is
// exhausted the rest of the tick is dropped and items resume from their
// resolved state on the next tick.
func (g *Game) Tick(dt float64) TickResult {
	defer metrics.Track(g.timer, metrics.OpTick)()

	g.StateLock.Lock()
	defer g.StateLock.Unlock()

	var result TickResult
	if g.Status == GameStatusEnded {
		return result
	}
	blocksBefore := len(g.State.Blocks)

	eps := g.Config.Collision.TimeEpsilon
	remaining := dt
	for remaining > 0 {
		if result.Substeps >= g.Config.Physics.MaxSubsteps {
			g.logger.Warn(g.ctx, "substep limit reached",
				"tick", g.CurrentTick,
				"substeps", result.Substeps,
				"dropped", remaining)
			result.Dropped = remaining
			break
		}
		result.Substeps++

		toi := g.Detector.TimeBeforeCollision(g.State, remaining)
		g.State.Advance(toi)
		remaining -= toi
		if remaining <= 0 {
			break
		}

		collisions := g.Detector.StepCollisions(g.State, eps)
		result.Collisions += len(collisions)
		g.Resolver.ResolveAll(g.State, collisions)
	}

	result.BallsLost = g.removeLostBalls()
	result.BlocksDestroyed = blocksBefore - len(g.State.Blocks)
	g.CurrentTick++
	g.checkEndConditions()

	return result
}

// removeLostBalls drops balls that fell through the open bottom
func (g *Game) removeLostBalls() int {
	floor := g.State.Bounds.Max().Y
	lost := 0
	for i := 0; i < len(g.State.Balls); {
		b := g.State.Balls[i]
		if b.Position.Y-b.Radius <= floor {
			i++
			continue
		}
		g.State.RemoveBall(b.GetID())
		lost++
		g.EventBus.Publish(event.NewItemEvent(event.BallLost, g, b.GetID()))
	}
	return lost
}

// checkEndConditions ends the game once nothing is left to play for.
// Must be called with the state lock held.
func (g *Game) checkEndConditions() {
	if g.Status != GameStatusActive {
		return
	}

	switch {
	case g.CustomEndCondition != nil && g.CustomEndCondition.CheckEnd(g):
		g.endInternal(OutcomeCustom)
	case len(g.State.Blocks) == 0:
		g.EventBus.Publish(&event.BaseEvent{EventType: event.LevelCleared, Source: g})
		g.endInternal(OutcomeCleared)
	case len(g.State.Balls) == 0:
		g.endInternal(OutcomeLost)
	}
}

// endInternal ends the game (must be called with lock held)
func (g *Game) endInternal(outcome Outcome) {
	g.Status = GameStatusEnded
	g.Outcome = outcome
	g.logger.Debug(g.ctx, "game ended",
		"tick", g.CurrentTick,
		"outcome", outcome.String())
	g.EventBus.Publish(&event.BaseEvent{EventType: event.GameOver, Source: g})
}

// Done reports whether the game has ended: no blocks, no balls, or the
// custom end condition fired.
func (g *Game) Done() bool {
	g.StateLock.RLock()
	defer g.StateLock.RUnlock()
	return g.Status == GameStatusEnded
}

// Snapshot returns a deep copy of the current state
func (g *Game) Snapshot() *world.GameState {
	g.StateLock.RLock()
	defer g.StateLock.RUnlock()
	return g.State.Clone()
}
