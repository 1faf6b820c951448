// Package ghost produces ghost traces: shapes that conservatively cover
// everywhere an item's footprint can touch while it moves for dt.
package ghost

import (
	"github.com/opd-ai/go-breakout/pkg/entity"
	"github.com/opd-ai/go-breakout/pkg/physics"
)

// Trace returns the ghost shapes of item over dt. Held balls ride their
// platform and have no trace of their own.
func Trace(item entity.Item, dt float64) []physics.Shape {
	switch it := item.(type) {
	case *entity.Ball:
		if !it.Thrown {
			return nil
		}
		return Disc(it.Collider(), it.Velocity().Scale(dt))
	case *entity.Platform:
		return Sweep(it.Footprint(), it.Displacement(dt))
	default:
		return Static(item.Footprint())
	}
}

// Displacement returns how far item moves over dt. Held balls ride their
// platform and report none of their own.
func Displacement(item entity.Item, dt float64) physics.Vector2D {
	switch it := item.(type) {
	case *entity.Ball:
		if it.Thrown {
			return it.Velocity().Scale(dt)
		}
	case *entity.Platform:
		return it.Displacement(dt)
	}
	return physics.Vector2D{}
}

// Static covers a rectangle that does not move
func Static(r physics.Rect) []physics.Shape {
	tris := r.Triangles()
	return []physics.Shape{tris[0], tris[1]}
}

// Sweep covers a rectangle translated by offset with the triangle pair of
// the box bounding its start and end positions.
func Sweep(r physics.Rect, offset physics.Vector2D) []physics.Shape {
	if offset.IsZero() {
		return Static(r)
	}
	return Static(r.Union(r.Translate(offset)))
}

// Disc covers a circle translated by offset: the start and end circles plus
// two triangles spanning the tangent points, together forming the swept
// capsule.
func Disc(c physics.Circle, offset physics.Vector2D) []physics.Shape {
	if offset.IsZero() {
		return []physics.Shape{c}
	}
	end := physics.Circle{Center: c.Center.Add(offset), Radius: c.Radius}
	side := offset.Normalize().Perp().Scale(c.Radius)

	startL, startR := c.Center.Add(side), c.Center.Sub(side)
	endL, endR := end.Center.Add(side), end.Center.Sub(side)

	return []physics.Shape{
		c,
		end,
		physics.Triangle{A: startL, B: endL, C: endR},
		physics.Triangle{A: startL, B: endR, C: startR},
	}
}
