// Package arena wraps games as step-wise environments for automated agents
// and runs many of them side by side.
package arena

import (
	"context"
	"errors"
	"fmt"

	"github.com/opd-ai/go-breakout/pkg/config"
	"github.com/opd-ai/go-breakout/pkg/engine"
	"github.com/opd-ai/go-breakout/pkg/event"
	"github.com/opd-ai/go-breakout/pkg/level"
	"github.com/opd-ai/go-breakout/pkg/logging"
	"github.com/opd-ai/go-breakout/pkg/metrics"
)

// ErrNotReset is returned by Step before the first Reset
var ErrNotReset = errors.New("arena: step before reset")

// ErrEpisodeDone is returned by Step once the episode has finished
var ErrEpisodeDone = errors.New("arena: episode finished")

// StepError carries a panic recovered from the collision core
type StepError struct {
	Arena int
	Tick  uint64
	Cause interface{}
}

func (e *StepError) Error() string {
	return fmt.Sprintf("arena %d: step failed at tick %d: %v", e.Arena, e.Tick, e.Cause)
}

// Unwrap exposes the cause when the panic value was an error
func (e *StepError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// StepResult reports the outcome of one Step
type StepResult struct {
	Reward  float64
	Done    bool
	Outcome engine.Outcome
	Tick    engine.TickResult
}

// Env is one arena: a level, the game advancing it and reward accounting.
// An Env is not safe for concurrent Step calls.
type Env struct {
	ID int

	cfg    *config.Config
	bus    *event.Bus
	game   *engine.Game
	steps  int
	done   bool
	ctx    context.Context
	logger *logging.Logger
	timer  metrics.Timer
}

// EnvOption customises an Env
type EnvOption func(*Env)

// WithLogger sets the logger shared with the env's games
func WithLogger(logger *logging.Logger) EnvOption {
	return func(e *Env) { e.logger = logger }
}

// WithTimer measures the collision core of every game the env builds
func WithTimer(timer metrics.Timer) EnvOption {
	return func(e *Env) { e.timer = timer }
}

// WithBaseContext sets the context arena log entries derive from, e.g.
// one carrying a run id
func WithBaseContext(ctx context.Context) EnvOption {
	return func(e *Env) { e.ctx = ctx }
}

// NewEnv creates an env. Call Reset before stepping.
func NewEnv(id int, cfg *config.Config, opts ...EnvOption) *Env {
	env := &Env{
		ID:    id,
		cfg:   cfg,
		bus:   event.NewEventBus(),
		ctx:   context.Background(),
		timer: metrics.Nop{},
	}
	for _, opt := range opts {
		opt(env)
	}
	if env.logger == nil {
		env.logger = logging.NewLogger()
	}
	env.ctx = logging.WithArenaID(env.ctx, id)
	return env
}

// Bus returns the env's event bus. Subscriptions survive Reset.
func (e *Env) Bus() *event.Bus {
	return e.bus
}

// Game returns the current game, or nil before Reset
func (e *Env) Game() *engine.Game {
	return e.game
}

// Steps returns the number of steps taken in the current episode
func (e *Env) Steps() int {
	return e.steps
}

// Tick returns the current game tick without locking, so event handlers
// running inside a step may call it. Zero before Reset.
func (e *Env) Tick() uint64 {
	if e.game == nil {
		return 0
	}
	return e.game.CurrentTick
}

// Done reports whether the current episode has finished
func (e *Env) Done() bool {
	return e.done
}

// Reset builds a fresh level and starts a new episode
func (e *Env) Reset() error {
	game, err := engine.NewGame(e.cfg, level.Build(e.cfg.Level),
		engine.WithEventBus(e.bus),
		engine.WithLogger(e.logger),
		engine.WithTimer(e.timer),
		engine.WithContext(e.ctx),
	)
	if err != nil {
		return logging.WrapError(err, "arena %d: reset", e.ID)
	}
	e.game = game
	e.steps = 0
	e.done = false

	e.logger.Debug(e.ctx, "arena reset", "blocks", len(game.State.Blocks))
	e.bus.Publish(&event.BaseEvent{EventType: event.ArenaReset, Source: e})
	return nil
}

// Step applies action, advances one tick and returns the reward earned.
// A panic inside the collision core is returned as a *StepError and ends
// the episode.
func (e *Env) Step(action engine.Action) (result StepResult, err error) {
	if e.game == nil {
		return result, ErrNotReset
	}
	if e.done {
		return result, ErrEpisodeDone
	}

	defer func() {
		if r := recover(); r != nil {
			e.done = true
			err = &StepError{Arena: e.ID, Tick: e.game.CurrentTick, Cause: r}
			e.logger.Error(e.ctx, "arena step panicked", err)
		}
	}()

	e.game.Apply(action)
	tick := e.game.Update()
	e.steps++

	result.Tick = tick
	result.Reward = float64(tick.BlocksDestroyed)*e.cfg.Arena.BlockReward -
		float64(tick.BallsLost)*e.cfg.Arena.BallLostPenalty
	result.Done = e.game.Done() || e.steps >= e.cfg.Arena.MaxSteps
	result.Outcome = e.game.Outcome
	e.done = result.Done

	return result, nil
}
