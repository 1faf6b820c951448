package ghost

import (
	"testing"

	"github.com/opd-ai/go-breakout/pkg/entity"
	"github.com/opd-ai/go-breakout/pkg/physics"
)

func covered(shapes []physics.Shape, p physics.Vector2D) bool {
	dot := physics.Circle{Center: p, Radius: 1e-6}
	for _, s := range shapes {
		switch s.(type) {
		case physics.Circle, physics.Triangle:
			if _, ok := physics.Intersect(s, dot); ok {
				return true
			}
		}
	}
	return false
}

func TestTrace_StaticItems(t *testing.T) {
	block := entity.NewBlock(physics.Vector2D{X: 100, Y: 140}, 40, 20, 1)
	wall := entity.NewWall(physics.Vector2D{X: 0, Y: 0}, 10, 100)

	for _, item := range []entity.Item{block, wall} {
		shapes := Trace(item, 5)
		if len(shapes) != 2 {
			t.Fatalf("%s trace has %d shapes, want 2", item.Class(), len(shapes))
		}
		if bounds(shapes) != item.Footprint() {
			t.Errorf("%s trace bounds = %+v, want footprint %+v", item.Class(), bounds(shapes), item.Footprint())
		}
	}
}

func TestTrace_Platform(t *testing.T) {
	p := entity.NewPlatform(physics.Vector2D{X: 100, Y: 280}, 60, 10, 4)

	t.Run("moving_covers_start_and_end", func(t *testing.T) {
		p.Steer(1)
		p.Freeze = 0
		b := bounds(Trace(p, 5))
		if b.Min().X != 70 || b.Max().X != 150 {
			t.Errorf("trace X range = [%v, %v], want [70, 150]", b.Min().X, b.Max().X)
		}
	})

	t.Run("freeze_shortens_travel", func(t *testing.T) {
		p.Steer(1)
		p.Freeze = 3
		b := bounds(Trace(p, 5))
		if b.Max().X != 138 {
			t.Errorf("trace max X = %v, want 138", b.Max().X)
		}
	})

	t.Run("fully_frozen_is_static", func(t *testing.T) {
		p.Steer(-1)
		p.Freeze = 10
		if b := bounds(Trace(p, 5)); b != p.Footprint() {
			t.Errorf("frozen trace bounds = %+v, want footprint", b)
		}
	})
}

func TestTrace_Ball(t *testing.T) {
	ball := entity.NewBall(physics.Vector2D{X: 100, Y: 60}, 10, 2)

	t.Run("held_ball_has_no_trace", func(t *testing.T) {
		if shapes := Trace(ball, 1); shapes != nil {
			t.Errorf("held ball trace = %v, want nil", shapes)
		}
	})

	ball.Throw(physics.Vector2D{X: 0, Y: 1})

	t.Run("zero_delta_is_instantaneous_circle", func(t *testing.T) {
		shapes := Trace(ball, 0)
		if len(shapes) != 1 || shapes[0] != physics.Shape(ball.Collider()) {
			t.Errorf("zero-delta trace = %v, want the ball circle", shapes)
		}
	})

	t.Run("capsule_covers_path", func(t *testing.T) {
		shapes := Trace(ball, 10)
		if len(shapes) != 4 {
			t.Fatalf("trace has %d shapes, want 4", len(shapes))
		}
		path := []physics.Vector2D{
			{X: 100, Y: 60}, {X: 100, Y: 80}, {X: 109, Y: 70}, {X: 91, Y: 75}, {X: 100, Y: 89},
		}
		for _, p := range path {
			if !covered(shapes, p) {
				t.Errorf("point %v on the swept path is not covered", p)
			}
		}
		if covered(shapes, physics.Vector2D{X: 112, Y: 70}) {
			t.Error("point outside the capsule is covered")
		}
	})

	t.Run("bounds_match_capsule", func(t *testing.T) {
		b := bounds(Trace(ball, 10))
		if b.Min() != (physics.Vector2D{X: 90, Y: 50}) || b.Max() != (physics.Vector2D{X: 110, Y: 90}) {
			t.Errorf("capsule bounds = [%v, %v]", b.Min(), b.Max())
		}
	})
}

// bounds returns the box covering all shapes
func TestDisplacement(t *testing.T) {
	held := entity.NewBall(physics.Vector2D{X: 10, Y: 10}, 5, 3)
	ball := entity.NewBall(physics.Vector2D{X: 10, Y: 10}, 5, 3)
	ball.Throw(physics.Vector2D{X: 0, Y: 1})
	platform := entity.NewPlatform(physics.Vector2D{X: 50, Y: 50}, 20, 4, 2)
	platform.Steer(-1)
	frozen := entity.NewPlatform(physics.Vector2D{X: 50, Y: 50}, 20, 4, 2)
	frozen.Steer(1)
	frozen.Freeze = 1.5

	tests := []struct {
		name string
		item entity.Item
		want physics.Vector2D
	}{
		{"thrown ball", ball, physics.Vector2D{X: 0, Y: 6}},
		{"held ball", held, physics.Vector2D{}},
		{"moving platform", platform, physics.Vector2D{X: -4, Y: 0}},
		{"partly frozen platform", frozen, physics.Vector2D{X: 1, Y: 0}},
		{"wall", entity.NewWall(physics.Vector2D{}, 10, 10), physics.Vector2D{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Displacement(tt.item, 2); got != tt.want {
				t.Errorf("Displacement() = %v, want %v", got, tt.want)
			}
		})
	}
}

func bounds(shapes []physics.Shape) physics.Rect {
	if len(shapes) == 0 {
		return physics.Rect{}
	}
	b := shapes[0].Bounds()
	for _, s := range shapes[1:] {
		b = b.Union(s.Bounds())
	}
	return b
}
