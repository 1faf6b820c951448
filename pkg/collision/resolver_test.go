package collision

import (
	"math"
	"testing"

	"github.com/opd-ai/go-breakout/pkg/entity"
	"github.com/opd-ai/go-breakout/pkg/event"
)

func TestResolve_BallBlockDestruction(t *testing.T) {
	tests := []struct {
		name          string
		health        int
		hitsSurvived  int
		totalHitsKill int
	}{
		{"health_1_removed_after_one_hit", 1, 0, 1},
		{"health_3_survives_two_hits", 3, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := emptyState()
			ball := thrownBall(vec(100, 120), vec(0, 1), 10, 2)
			block := entity.NewBlock(vec(100, 140), 40, 20, tt.health)
			state.Balls = append(state.Balls, ball)
			state.Blocks = append(state.Blocks, block)

			bus := event.NewEventBus()
			log := newEventLog(bus)
			r := NewResolver(DefaultResolverConfig(), bus)

			for hit := 1; hit <= tt.totalHitsKill; hit++ {
				ball.Direction = vec(0, 1)
				r.Resolve(state, &BallBlock{Ball: ball, Block: block, Point: vec(100, 130)})
				if hit <= tt.hitsSurvived && len(state.Blocks) != 1 {
					t.Fatalf("block removed after %d hits", hit)
				}
			}

			if len(state.Blocks) != 0 {
				t.Errorf("block still present after %d hits", tt.totalHitsKill)
			}
			if log.count(event.BallBlock) != tt.totalHitsKill {
				t.Errorf("ball_block events = %d, want %d", log.count(event.BallBlock), tt.totalHitsKill)
			}
			if log.count(event.BlockDestroyed) != 1 {
				t.Errorf("block_destroyed events = %d, want 1", log.count(event.BlockDestroyed))
			}

			// A destroyed block is never touched again.
			r.Resolve(state, &BallBlock{Ball: ball, Block: block, Point: vec(100, 130)})
			if log.count(event.BallBlock) != tt.totalHitsKill {
				t.Error("collision against a destroyed block was resolved")
			}
		})
	}
}

func TestResolve_BallWallReflects(t *testing.T) {
	tests := []struct {
		name    string
		dir     [2]float64
		contact [2]float64
		check   func(t *testing.T, got [2]float64)
	}{
		{
			name:    "head_on_from_above",
			dir:     [2]float64{0, 1},
			contact: [2]float64{100, 110},
			check: func(t *testing.T, got [2]float64) {
				if math.Abs(got[0]) > 1e-9 || math.Abs(got[1]+1) > 1e-9 {
					t.Errorf("direction = %v, want (0, -1)", got)
				}
			},
		},
		{
			name:    "horizontal_is_nudged",
			dir:     [2]float64{1, 0},
			contact: [2]float64{110, 100},
			check: func(t *testing.T, got [2]float64) {
				if got[0] >= 0 {
					t.Errorf("direction X = %v, want negative", got[0])
				}
				if math.Abs(got[1]) < 0.09 {
					t.Errorf("direction Y = %v, want nudged away from zero", got[1])
				}
			},
		},
		{
			name:    "shallow_downward_keeps_its_side",
			dir:     [2]float64{1, 0.05},
			contact: [2]float64{110, 100},
			check: func(t *testing.T, got [2]float64) {
				if got[0] >= 0 {
					t.Errorf("direction X = %v, want negative", got[0])
				}
				if got[1] < 0.09 {
					t.Errorf("direction Y = %v, want nudged down past 0.09", got[1])
				}
			},
		},
		{
			name:    "moving_away_is_untouched",
			dir:     [2]float64{0, -1},
			contact: [2]float64{100, 110},
			check: func(t *testing.T, got [2]float64) {
				if got != [2]float64{0, -1} {
					t.Errorf("direction = %v, want unchanged (0, -1)", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := emptyState()
			ball := thrownBall(vec(100, 100), vec(tt.dir[0], tt.dir[1]), 10, 2)
			wall := entity.NewWall(vec(200, 200), 10, 10)
			NewResolver(DefaultResolverConfig(), nil).Resolve(state, &BallWall{Ball: ball, Wall: wall, Point: vec(tt.contact[0], tt.contact[1])})

			tt.check(t, [2]float64{ball.Direction.X, ball.Direction.Y})
			if math.Abs(ball.Direction.Length()-1) > 1e-9 {
				t.Errorf("direction %v is not unit length", ball.Direction)
			}
		})
	}
}

func TestResolve_BallPlatformSteering(t *testing.T) {
	cfg := DefaultResolverConfig()

	t.Run("right_of_center_goes_up_right", func(t *testing.T) {
		platform := entity.NewPlatform(vec(200, 280), 60, 10, 4)
		ball := thrownBall(vec(220, 266), vec(0, 1), 10, 2)
		NewResolver(cfg, nil).Resolve(emptyState(), &BallPlatform{Ball: ball, Platform: platform, Point: vec(220, 275)})

		want := vec(10, -5).Normalize()
		if !near(ball.Direction, want, 1e-9) {
			t.Errorf("direction = %v, want %v", ball.Direction, want)
		}
		if platform.Freeze != cfg.PlatformFreeze {
			t.Errorf("platform freeze = %v, want %v", platform.Freeze, cfg.PlatformFreeze)
		}
	})

	t.Run("below_center_is_biased_down", func(t *testing.T) {
		platform := entity.NewPlatform(vec(200, 280), 60, 10, 4)
		ball := thrownBall(vec(200, 292), vec(0, -1), 10, 2)
		NewResolver(cfg, nil).Resolve(emptyState(), &BallPlatform{Ball: ball, Platform: platform, Point: vec(200, 284)})

		if !near(ball.Direction, vec(0, 1), 1e-9) {
			t.Errorf("direction = %v, want (0, 1)", ball.Direction)
		}
	})

	t.Run("dead_center_uses_nominal", func(t *testing.T) {
		platform := entity.NewPlatform(vec(200, 280), 60, 10, 4)
		ball := thrownBall(vec(200, 270), vec(0, 1), 10, 2)
		NewResolver(cfg, nil).Resolve(emptyState(), &BallPlatform{Ball: ball, Platform: platform, Point: vec(200, 280)})

		if ball.Direction != Nominal {
			t.Errorf("direction = %v, want nominal %v", ball.Direction, Nominal)
		}
	})
}

func TestResolve_PlatformWallStopsAlongAxis(t *testing.T) {
	tests := []struct {
		name     string
		velocity [2]float64
		contact  [2]float64
		wantVel  [2]float64
	}{
		{"side_wall_stops_x", [2]float64{-4, 3}, [2]float64{0, 280}, [2]float64{0, 3}},
		{"ceiling_stops_y", [2]float64{-4, -3}, [2]float64{30, 275}, [2]float64{-4, 0}},
		{"leaving_side_wall_keeps_x", [2]float64{4, 3}, [2]float64{0, 280}, [2]float64{4, 3}},
		{"leaving_ceiling_keeps_y", [2]float64{-4, 3}, [2]float64{30, 275}, [2]float64{-4, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform := entity.NewPlatform(vec(30, 280), 60, 10, 4)
			platform.Velocity = vec(tt.velocity[0], tt.velocity[1])
			wall := entity.NewWall(vec(-5, 150), 10, 300)
			NewResolver(DefaultResolverConfig(), nil).Resolve(emptyState(), &PlatformWall{Platform: platform, Wall: wall, Point: vec(tt.contact[0], tt.contact[1])})

			if platform.Velocity != vec(tt.wantVel[0], tt.wantVel[1]) {
				t.Errorf("velocity = %v, want %v", platform.Velocity, tt.wantVel)
			}
		})
	}
}

func TestResolve_BallBallExchangesAlongLine(t *testing.T) {
	tests := []struct {
		name       string
		dirA, dirB [2]float64
	}{
		{"head_on", [2]float64{1, 0}, [2]float64{-1, 0}},
		{"with_perpendicular_component", [2]float64{1, 0.5}, [2]float64{-1, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := thrownBall(vec(0, 0), vec(tt.dirA[0], tt.dirA[1]), 10, 2)
			b := thrownBall(vec(15, 0), vec(tt.dirB[0], tt.dirB[1]), 10, 2)
			va, vb := a.Velocity(), b.Velocity()

			bus := event.NewEventBus()
			log := newEventLog(bus)
			NewResolver(DefaultResolverConfig(), bus).Resolve(emptyState(), &BallBall{A: a, B: b, Point: vec(7.5, 0)})

			if !near(a.Velocity(), vec(vb.X, va.Y), 1e-9) {
				t.Errorf("ball A velocity = %v, want (%v, %v)", a.Velocity(), vb.X, va.Y)
			}
			if !near(b.Velocity(), vec(va.X, vb.Y), 1e-9) {
				t.Errorf("ball B velocity = %v, want (%v, %v)", b.Velocity(), va.X, vb.Y)
			}
			if a.Speed != 2 || b.Speed != 2 {
				t.Errorf("speeds changed to %v/%v", a.Speed, b.Speed)
			}
			if log.count(event.BallBall) != 1 {
				t.Errorf("ball_ball events = %d, want 1", log.count(event.BallBall))
			}
		})
	}
}

func TestResolve_BallBallSeparatingIsUntouched(t *testing.T) {
	a := thrownBall(vec(0, 0), vec(-1, 0), 10, 2)
	b := thrownBall(vec(15, 0), vec(1, 0), 10, 2)
	NewResolver(DefaultResolverConfig(), nil).Resolve(emptyState(), &BallBall{A: a, B: b, Point: vec(7.5, 0)})

	if a.Direction != vec(-1, 0) || b.Direction != vec(1, 0) {
		t.Errorf("separating balls changed direction: %v, %v", a.Direction, b.Direction)
	}
}

func TestResolve_BallBallCatchUpSeparates(t *testing.T) {
	// A fast ball runs into a slow one heading the same way. Swapping the
	// along-line components keeps both directions, so A must turn back.
	a := thrownBall(vec(0, 0), vec(1, 0), 10, 16)
	b := thrownBall(vec(20, 0), vec(1, 0), 10, 1)
	NewResolver(DefaultResolverConfig(), nil).Resolve(emptyState(), &BallBall{A: a, B: b, Point: vec(10, 0)})

	if !near(a.Direction, vec(-1, 0), 1e-9) {
		t.Errorf("ball A direction = %v, want (-1, 0)", a.Direction)
	}
	if !near(b.Direction, vec(1, 0), 1e-9) {
		t.Errorf("ball B direction = %v, want (1, 0)", b.Direction)
	}
	if closing := a.Velocity().Sub(b.Velocity()).X; closing > 0 {
		t.Errorf("balls still close at %v after resolution", closing)
	}
	if a.Speed != 16 || b.Speed != 1 {
		t.Errorf("speeds changed to %v/%v", a.Speed, b.Speed)
	}
}

func TestResolve_BallBallNearZeroSnapsToNominal(t *testing.T) {
	// B is thrown at zero speed, so A hands over all of its motion.
	a := thrownBall(vec(0, 0), vec(1, 0), 10, 2)
	b := thrownBall(vec(15, 0), vec(1, 0), 10, 0)
	NewResolver(DefaultResolverConfig(), nil).Resolve(emptyState(), &BallBall{A: a, B: b, Point: vec(7.5, 0)})

	if a.Direction != Nominal {
		t.Errorf("ball A direction = %v, want nominal %v", a.Direction, Nominal)
	}
	if !near(b.Direction, vec(1, 0), 1e-9) {
		t.Errorf("ball B direction = %v, want (1, 0)", b.Direction)
	}
}
