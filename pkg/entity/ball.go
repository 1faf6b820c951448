package entity

import "github.com/opd-ai/go-breakout/pkg/physics"

// Ball is the only round item. Its velocity is kept as a unit direction and
// a scalar speed so repeated reflections do not drift the magnitude.
type Ball struct {
	BaseEntity
	Radius    float64
	Speed     float64
	Direction physics.Vector2D
	Thrown    bool
	// Carrier is the platform an unthrown ball rests on.
	Carrier ID
}

// NewBall creates a resting ball
func NewBall(position physics.Vector2D, radius, speed float64) *Ball {
	return &Ball{
		BaseEntity: newBase(position),
		Radius:     radius,
		Speed:      speed,
		Direction:  physics.Vector2D{X: 0, Y: -1},
	}
}

// Class returns ClassBall
func (b *Ball) Class() Class { return ClassBall }

// Footprint returns the square bounding the ball
func (b *Ball) Footprint() physics.Rect {
	return b.Collider().Bounds()
}

// Collider returns the ball's current disc
func (b *Ball) Collider() physics.Circle {
	return physics.Circle{Center: b.Position, Radius: b.Radius}
}

// Velocity returns direction scaled by speed, or zero while the ball is held
func (b *Ball) Velocity() physics.Vector2D {
	if !b.Thrown {
		return physics.Vector2D{}
	}
	return b.Direction.Scale(b.Speed)
}

// SetVelocity stores v as a unit direction; the scalar speed is unchanged.
// A zero v leaves the direction untouched.
func (b *Ball) SetVelocity(v physics.Vector2D) {
	if v.IsZero() {
		return
	}
	b.Direction = v.Normalize()
}

// Throw releases the ball along dir
func (b *Ball) Throw(dir physics.Vector2D) {
	b.Thrown = true
	b.Carrier = 0
	b.SetVelocity(dir)
}

// Advance moves a thrown ball along its velocity
func (b *Ball) Advance(dt float64) {
	b.Position = b.Position.Add(b.Velocity().Scale(dt))
}

// Clone returns an independent copy with the same identity
func (b *Ball) Clone() *Ball {
	c := *b
	return &c
}
