package entity

import (
	"math"

	"github.com/opd-ai/go-breakout/pkg/physics"
)

// Platform is the player paddle. Freeze is a residual countdown during which
// the platform does not move, set after it strikes a ball.
type Platform struct {
	BaseEntity
	Box
	Speed    float64
	Velocity physics.Vector2D
	Freeze   float64
}

// NewPlatform creates a stationary platform
func NewPlatform(position physics.Vector2D, width, height, speed float64) *Platform {
	return &Platform{
		BaseEntity: newBase(position),
		Box:        Box{Width: width, Height: height},
		Speed:      speed,
	}
}

// Class returns ClassPlatform
func (p *Platform) Class() Class { return ClassPlatform }

// Footprint returns the platform rectangle
func (p *Platform) Footprint() physics.Rect { return p.rectAt(p.Position) }

// Steer sets horizontal motion: -1 left, 0 stop, 1 right
func (p *Platform) Steer(dir int) {
	p.Velocity = physics.Vector2D{X: float64(dir) * p.Speed, Y: 0}
}

// TravelTime is the part of dt during which the platform actually moves
func (p *Platform) TravelTime(dt float64) float64 {
	return math.Max(0, dt-p.Freeze)
}

// Displacement is how far the platform moves over dt
func (p *Platform) Displacement(dt float64) physics.Vector2D {
	return p.Velocity.Scale(p.TravelTime(dt))
}

// Frozen reports whether the freeze countdown is still running
func (p *Platform) Frozen() bool {
	return p.Freeze > 0
}

// Advance moves the platform and runs down its freeze countdown
func (p *Platform) Advance(dt float64) {
	p.Position = p.Position.Add(p.Displacement(dt))
	p.Freeze = math.Max(0, p.Freeze-dt)
}

// Clone returns an independent copy with the same identity
func (p *Platform) Clone() *Platform {
	c := *p
	return &c
}
