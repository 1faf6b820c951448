package arena

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-breakout/pkg/config"
	"github.com/opd-ai/go-breakout/pkg/engine"
	"github.com/opd-ai/go-breakout/pkg/logging"
)

// Outcome is one arena's share of a pool step
type Outcome struct {
	Arena   int
	Result  StepResult
	Err     error
	Skipped bool // breaker open, or a finished episode without auto reset
	Reset   bool // the episode finished and the arena was rebuilt
}

// Summary accumulates pool activity across Run
type Summary struct {
	Steps    int
	Episodes int
	Cleared  int
	Reward   float64
	Errors   int
	Skipped  int
}

// Pool steps independent arenas concurrently. Each arena sits behind its
// own circuit breaker so a repeatedly failing arena is isolated until the
// breaker timeout lets a trial step through.
type Pool struct {
	cfg      *config.Config
	envs     []*Env
	agents   []Agent
	breakers []*gobreaker.CircuitBreaker
	logger   *logging.Logger
	lastStep atomic.Int64 // unix nanoseconds of the last completed Step
}

// NewPool creates cfg.Arena.Count arenas, resets them and pairs each with
// the agent returned by newAgent.
func NewPool(cfg *config.Config, newAgent func(id int) Agent, opts ...EnvOption) (*Pool, error) {
	p := &Pool{cfg: cfg}
	for id := 0; id < cfg.Arena.Count; id++ {
		env := NewEnv(id, cfg, opts...)
		if err := env.Reset(); err != nil {
			return nil, fmt.Errorf("failed to create pool: %w", err)
		}
		if p.logger == nil {
			p.logger = env.logger
		}
		p.envs = append(p.envs, env)
		p.agents = append(p.agents, newAgent(id))
		p.breakers = append(p.breakers, p.newBreaker(env))
	}
	return p, nil
}

func (p *Pool) newBreaker(env *Env) *gobreaker.CircuitBreaker {
	maxFailures := p.cfg.Arena.MaxConsecutiveFailures
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        fmt.Sprintf("arena-%d", env.ID),
		MaxRequests: 1,
		Timeout:     p.cfg.Arena.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			env.logger.Warn(env.ctx, "circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}

// Envs returns the pool's arenas
func (p *Pool) Envs() []*Env {
	return p.envs
}

// BreakerState returns the breaker state of arena id
func (p *Pool) BreakerState(id int) gobreaker.State {
	return p.breakers[id].State()
}

// OpenBreakers counts arenas currently isolated by their breaker
func (p *Pool) OpenBreakers() int {
	n := 0
	for _, b := range p.breakers {
		if b.State() == gobreaker.StateOpen {
			n++
		}
	}
	return n
}

// Len returns the number of arenas
func (p *Pool) Len() int {
	return len(p.envs)
}

// LastStep returns when the last Step finished, or the zero time
func (p *Pool) LastStep() time.Time {
	ns := p.lastStep.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Step advances every arena by one tick in parallel. Arenas never share
// mutable state, so the only synchronisation is the final wait.
func (p *Pool) Step(ctx context.Context) []Outcome {
	outcomes := make([]Outcome, len(p.envs))
	var wg sync.WaitGroup
	for i := range p.envs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = p.stepOne(ctx, i)
		}(i)
	}
	wg.Wait()
	p.lastStep.Store(time.Now().UnixNano())
	return outcomes
}

func (p *Pool) stepOne(ctx context.Context, i int) Outcome {
	env, agent := p.envs[i], p.agents[i]
	out := Outcome{Arena: env.ID}

	if err := ctx.Err(); err != nil {
		out.Err, out.Skipped = err, true
		return out
	}
	if env.Done() && !p.cfg.Arena.AutoReset {
		out.Skipped = true
		return out
	}

	res, err := p.breakers[i].Execute(func() (interface{}, error) {
		return act(env, agent)
	})
	if err != nil {
		out.Err = err
		out.Skipped = errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
	} else {
		out.Result = res.(StepResult)
	}

	if env.Done() && p.cfg.Arena.AutoReset && !out.Skipped {
		if err := env.Reset(); err != nil {
			p.logger.Error(env.ctx, "arena reset failed", err)
		} else {
			out.Reset = true
		}
	}
	return out
}

// act queries the agent and steps the env. A panicking agent is reported
// the same way as a panicking core.
func act(env *Env, agent Agent) (result StepResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &StepError{Arena: env.ID, Tick: env.game.CurrentTick, Cause: r}
		}
	}()
	return env.Step(agent.Act(env.Observation()))
}

// Run steps the pool until steps batches complete or ctx is cancelled
func (p *Pool) Run(ctx context.Context, steps int) Summary {
	var sum Summary
	for n := 0; n < steps; n++ {
		if ctx.Err() != nil {
			break
		}
		for _, out := range p.Step(ctx) {
			sum.add(out)
		}
	}
	p.logger.Info(ctx, "pool run finished",
		"arenas", len(p.envs),
		"steps", sum.Steps,
		"episodes", sum.Episodes,
		"cleared", sum.Cleared,
		"reward", sum.Reward,
		"errors", sum.Errors,
		"skipped", sum.Skipped,
	)
	return sum
}

func (s *Summary) add(out Outcome) {
	switch {
	case out.Skipped:
		s.Skipped++
		return
	case out.Err != nil:
		s.Errors++
		return
	}
	s.Steps++
	s.Reward += out.Result.Reward
	if out.Result.Done {
		s.Episodes++
		if out.Result.Outcome == engine.OutcomeCleared {
			s.Cleared++
		}
	}
}
