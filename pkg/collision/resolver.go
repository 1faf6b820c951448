package collision

import (
	"math"

	"github.com/opd-ai/go-breakout/pkg/entity"
	"github.com/opd-ai/go-breakout/pkg/event"
	"github.com/opd-ai/go-breakout/pkg/physics"
	"github.com/opd-ai/go-breakout/pkg/world"
)

// Platform steering constants. They are tuned for feel, not derived.
const (
	// PlatformHorizontalFactor scales the horizontal offset of the contact
	// from the platform center.
	PlatformHorizontalFactor = 0.5
)

// Nominal is the direction a ball takes when its velocity degenerates
var Nominal = physics.Vector2D{X: 0, Y: -1}

// ResolverConfig tunes collision response
type ResolverConfig struct {
	// MinVertical is the smallest |y| a ball direction may keep after a
	// bounce, so a ball never loops horizontally forever.
	MinVertical float64
	// SpeedEpsilon is the speed below which a ball-ball result snaps to
	// the nominal direction.
	SpeedEpsilon float64
	// PlatformFreeze is how long a platform stays still after a hit.
	PlatformFreeze float64
}

// DefaultResolverConfig returns the stock response settings
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{MinVertical: 0.1, SpeedEpsilon: 1e-6, PlatformFreeze: 2}
}

// Resolver applies collision responses to a GameState and publishes one
// event per resolved collision on its bus.
type Resolver struct {
	cfg ResolverConfig
	bus *event.Bus
}

// NewResolver creates a resolver. A nil bus disables events.
func NewResolver(cfg ResolverConfig, bus *event.Bus) *Resolver {
	return &Resolver{cfg: cfg, bus: bus}
}

// Resolve mutates state for c. Changes commit immediately.
func (r *Resolver) Resolve(state *world.GameState, c Collision) {
	c.Accept(&resolution{Resolver: r, state: state})
}

// ResolveAll resolves collisions in order
func (r *Resolver) ResolveAll(state *world.GameState, collisions []Collision) {
	for _, c := range collisions {
		r.Resolve(state, c)
	}
}

// resolution binds a resolver to one state for the duration of a Resolve
type resolution struct {
	*Resolver
	state *world.GameState
}

func (r *resolution) VisitBallWall(c *BallWall) {
	r.bounce(c.Ball, c.Point)
	r.publishCollision(c)
}

func (r *resolution) VisitBallBlock(c *BallBlock) {
	if c.Block.Destroyed() {
		return
	}
	r.bounce(c.Ball, c.Point)
	r.publishCollision(c)
	if c.Block.Hit() {
		r.state.RemoveBlock(c.Block.GetID())
		r.publish(event.NewItemEvent(event.BlockDestroyed, r.Resolver, c.Block.GetID()))
	}
}

// VisitBallPlatform steers the ball by where it struck: the direction points
// from the platform center to the contact with the horizontal part halved,
// and hits below the center are pushed further down.
func (r *resolution) VisitBallPlatform(c *BallPlatform) {
	p := c.Platform
	offset := c.Point.Sub(p.Position)
	offset.X *= PlatformHorizontalFactor
	if offset.Y > 0 {
		offset.Y += p.Height / 2
	}
	dir := offset.Normalize()
	if dir.IsZero() {
		dir = Nominal
	}
	c.Ball.Direction = r.keepVertical(dir)
	p.Freeze = r.cfg.PlatformFreeze
	r.publishCollision(c)
}

// VisitPlatformWall stops the platform along the axis it hit the wall on,
// unless it is already moving away from the contact.
func (r *resolution) VisitPlatformWall(c *PlatformWall) {
	p := c.Platform
	offset := c.Point.Sub(p.Position)
	if math.Abs(offset.X)*p.Height >= math.Abs(offset.Y)*p.Width {
		if p.Velocity.X*offset.X > 0 {
			p.Velocity.X = 0
		}
	} else if p.Velocity.Y*offset.Y > 0 {
		p.Velocity.Y = 0
	}
	r.publishCollision(c)
}

// VisitBallBall swaps the velocity components along the line of centers
// when the balls approach each other. Perpendicular components and scalar
// speeds are kept. If the kept speeds would still close the gap, each ball
// is turned away from the other along the line.
func (r *resolution) VisitBallBall(c *BallBall) {
	n := c.B.Position.Sub(c.A.Position).Normalize()
	if n.IsZero() {
		n = c.Point.Sub(c.A.Position).Normalize()
	}
	va, vb := c.A.Velocity(), c.B.Velocity()
	ua, ub := va.Dot(n), vb.Dot(n)
	if !n.IsZero() && ua-ub > 0 {
		va = va.Add(n.Scale(ub - ua))
		vb = vb.Add(n.Scale(ua - ub))
	}
	r.redirect(c.A, va)
	r.redirect(c.B, vb)
	if !n.IsZero() && c.A.Velocity().Sub(c.B.Velocity()).Dot(n) > 0 {
		c.A.Direction = awayFrom(c.A.Direction, n)
		c.B.Direction = awayFrom(c.B.Direction, n.Neg())
	}
	r.publishCollision(c)
}

// bounce reflects the ball direction about the contact normal when the ball
// is moving into the contact.
func (r *resolution) bounce(b *entity.Ball, contact physics.Vector2D) {
	n := contact.Sub(b.Position).Normalize()
	d := b.Direction
	switch {
	case n.IsZero():
		d = d.Neg()
	case d.Dot(n) > 0:
		d = d.Reflect(n)
	}
	b.Direction = r.keepVertical(d)
}

func (r *resolution) redirect(b *entity.Ball, v physics.Vector2D) {
	if physics.NearZero(v.Length(), r.cfg.SpeedEpsilon) {
		b.Direction = Nominal
		return
	}
	b.Direction = v.Normalize()
}

// keepVertical nudges a near-horizontal direction away from y = 0 and
// renormalizes it.
func (r *resolution) keepVertical(d physics.Vector2D) physics.Vector2D {
	if !physics.NearZero(d.Y, r.cfg.MinVertical) {
		return d.Normalize()
	}
	side := physics.Sign(d.Y)
	if side == 0 {
		side = -1
	}
	d.Y = side * r.cfg.MinVertical
	return d.Normalize()
}

// awayFrom mirrors d across the line perpendicular to n when d heads along n
func awayFrom(d, n physics.Vector2D) physics.Vector2D {
	if d.Dot(n) > 0 {
		return d.Reflect(n)
	}
	return d
}

func (r *resolution) publishCollision(c Collision) {
	a, b := c.Items()
	r.publish(event.NewCollisionEvent(c.Kind().EventType(), r.Resolver, a, b, c.Contact()))
}

func (r *resolution) publish(ev event.Event) {
	if r.bus != nil {
		r.bus.Publish(ev)
	}
}
