// Package level builds playable arenas from a LevelConfig.
//
// The arena origin is the top left corner with y growing downward. Walls
// sit outside the playfield on the left, top and right; the bottom is open
// and a ball that falls past it is lost.
package level

import (
	"github.com/opd-ai/go-breakout/pkg/config"
	"github.com/opd-ai/go-breakout/pkg/entity"
	"github.com/opd-ai/go-breakout/pkg/physics"
	"github.com/opd-ai/go-breakout/pkg/world"
)

// Build creates a fresh GameState for cfg. Every call produces new ids.
func Build(cfg config.LevelConfig) *world.GameState {
	bounds := physics.Rect{
		Center: physics.Vector2D{X: cfg.Width / 2, Y: cfg.Height / 2},
		Width:  cfg.Width,
		Height: cfg.Height,
	}
	state := world.NewGameState(bounds)

	state.Walls = walls(cfg)
	state.Blocks = grid(cfg)
	for _, b := range cfg.ExtraBlocks {
		state.Blocks = append(state.Blocks, entity.NewBlock(
			physics.Vector2D{X: b.X, Y: b.Y}, b.Width, b.Height, b.Health))
	}

	platform := entity.NewPlatform(physics.Vector2D{
		X: cfg.Width / 2,
		Y: cfg.Height - cfg.PlatformMargin - cfg.PlatformHeight/2,
	}, cfg.PlatformWidth, cfg.PlatformHeight, cfg.PlatformSpeed)
	state.Platforms = append(state.Platforms, platform)

	state.Balls = append(state.Balls, RestingBall(cfg, platform))
	for _, b := range cfg.ExtraBalls {
		ball := entity.NewBall(physics.Vector2D{X: b.X, Y: b.Y}, b.Radius, b.Speed)
		ball.Throw(physics.Vector2D{X: b.DirX, Y: b.DirY})
		state.Balls = append(state.Balls, ball)
	}

	return state
}

// RestingBall creates an unthrown ball sitting on top of platform
func RestingBall(cfg config.LevelConfig, platform *entity.Platform) *entity.Ball {
	pos := platform.Position
	pos.Y -= platform.Height/2 + cfg.BallRadius
	ball := entity.NewBall(pos, cfg.BallRadius, cfg.BallSpeed)
	ball.Carrier = platform.GetID()
	return ball
}

// walls returns left, top and right walls hugging the playfield. The side
// walls extend past the bottom so a platform cannot slide out of the arena.
func walls(cfg config.LevelConfig) []*entity.Wall {
	t := cfg.WallThickness
	if t <= 0 {
		return nil
	}
	sideHeight := cfg.Height + 2*t
	return []*entity.Wall{
		entity.NewWall(physics.Vector2D{X: -t / 2, Y: cfg.Height / 2}, t, sideHeight),
		entity.NewWall(physics.Vector2D{X: cfg.Width / 2, Y: -t / 2}, cfg.Width+2*t, t),
		entity.NewWall(physics.Vector2D{X: cfg.Width + t/2, Y: cfg.Height / 2}, t, sideHeight),
	}
}

// grid lays out Rows x Columns blocks centered horizontally, starting at
// GridTop.
func grid(cfg config.LevelConfig) []*entity.Block {
	if cfg.Rows <= 0 || cfg.Columns <= 0 {
		return nil
	}
	stepX := cfg.BlockWidth + cfg.BlockGap
	stepY := cfg.BlockHeight + cfg.BlockGap
	totalWidth := float64(cfg.Columns)*stepX - cfg.BlockGap
	left := (cfg.Width-totalWidth)/2 + cfg.BlockWidth/2

	blocks := make([]*entity.Block, 0, cfg.Rows*cfg.Columns)
	for row := 0; row < cfg.Rows; row++ {
		health := RowHealth(cfg, row)
		y := cfg.GridTop + float64(row)*stepY + cfg.BlockHeight/2
		for col := 0; col < cfg.Columns; col++ {
			x := left + float64(col)*stepX
			blocks = append(blocks, entity.NewBlock(
				physics.Vector2D{X: x, Y: y}, cfg.BlockWidth, cfg.BlockHeight, health))
		}
	}
	return blocks
}

// RowHealth returns the health of blocks in row, reusing the last listed
// value for rows beyond RowHealth. Rows default to one hit.
func RowHealth(cfg config.LevelConfig, row int) int {
	if len(cfg.RowHealth) == 0 {
		return 1
	}
	if row >= len(cfg.RowHealth) {
		return cfg.RowHealth[len(cfg.RowHealth)-1]
	}
	return cfg.RowHealth[row]
}
