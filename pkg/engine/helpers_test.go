package engine

import (
	"io"
	"testing"

	"github.com/opd-ai/go-breakout/pkg/config"
	"github.com/opd-ai/go-breakout/pkg/entity"
	"github.com/opd-ai/go-breakout/pkg/logging"
	"github.com/opd-ai/go-breakout/pkg/physics"
	"github.com/opd-ai/go-breakout/pkg/world"
)

func vec(x, y float64) physics.Vector2D {
	return physics.Vector2D{X: x, Y: y}
}

// arena returns an empty 400x300 state with the origin at the top left
func arena() *world.GameState {
	return world.NewGameState(physics.Rect{Center: vec(200, 150), Width: 400, Height: 300})
}

// boxed adds four thick walls enclosing the whole arena
func boxed(state *world.GameState) *world.GameState {
	state.Walls = append(state.Walls,
		entity.NewWall(vec(-5, 150), 10, 320),
		entity.NewWall(vec(405, 150), 10, 320),
		entity.NewWall(vec(200, -5), 420, 10),
		entity.NewWall(vec(200, 305), 420, 10),
	)
	return state
}

func thrown(pos, dir physics.Vector2D, radius, speed float64) *entity.Ball {
	b := entity.NewBall(pos, radius, speed)
	b.Throw(dir)
	return b
}

func newTestGame(t *testing.T, state *world.GameState, opts ...Option) *Game {
	t.Helper()
	opts = append([]Option{WithLogger(logging.NewLoggerTo(io.Discard))}, opts...)
	game, err := NewGame(config.DefaultConfig(), state, opts...)
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	return game
}
