// pkg/physics/shape.go
package physics

import "math"

// ShapeKind tags the concrete type behind a Shape
type ShapeKind int

const (
	KindRect ShapeKind = iota
	KindCircle
	KindTriangle
	KindSegment
)

func (k ShapeKind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindCircle:
		return "circle"
	case KindTriangle:
		return "triangle"
	case KindSegment:
		return "segment"
	default:
		return "unknown"
	}
}

// Shape is the closed set of primitives the kernel can intersect.
type Shape interface {
	Kind() ShapeKind
	Bounds() Rect
}

// Rect represents an axis-aligned rectangular area
type Rect struct {
	Center Vector2D
	Width  float64
	Height float64
}

// RectFromMinMax builds a rectangle from two opposite corners
func RectFromMinMax(min, max Vector2D) Rect {
	return Rect{
		Center: min.Lerp(max, 0.5),
		Width:  max.X - min.X,
		Height: max.Y - min.Y,
	}
}

func (r Rect) Kind() ShapeKind { return KindRect }

// Bounds returns the rectangle itself
func (r Rect) Bounds() Rect { return r }

// Min returns the corner with the smallest coordinates
func (r Rect) Min() Vector2D {
	return Vector2D{X: r.Center.X - r.Width/2, Y: r.Center.Y - r.Height/2}
}

// Max returns the corner with the largest coordinates
func (r Rect) Max() Vector2D {
	return Vector2D{X: r.Center.X + r.Width/2, Y: r.Center.Y + r.Height/2}
}

// Contains reports whether point lies inside the half-open rectangle
func (r Rect) Contains(point Vector2D) bool {
	return point.X >= r.Center.X-r.Width/2 &&
		point.X < r.Center.X+r.Width/2 &&
		point.Y >= r.Center.Y-r.Height/2 &&
		point.Y < r.Center.Y+r.Height/2
}

// Overlaps reports whether two rectangles share any point, edges included.
// It is the broad-phase test; Intersect is stricter.
func (r Rect) Overlaps(other Rect) bool {
	rMin, rMax := r.Min(), r.Max()
	oMin, oMax := other.Min(), other.Max()
	return rMin.X <= oMax.X && oMin.X <= rMax.X &&
		rMin.Y <= oMax.Y && oMin.Y <= rMax.Y
}

// Union returns the smallest rectangle covering both
func (r Rect) Union(other Rect) Rect {
	rMin, rMax := r.Min(), r.Max()
	oMin, oMax := other.Min(), other.Max()
	return RectFromMinMax(
		Vector2D{X: math.Min(rMin.X, oMin.X), Y: math.Min(rMin.Y, oMin.Y)},
		Vector2D{X: math.Max(rMax.X, oMax.X), Y: math.Max(rMax.Y, oMax.Y)},
	)
}

// Translate returns the rectangle moved by offset
func (r Rect) Translate(offset Vector2D) Rect {
	r.Center = r.Center.Add(offset)
	return r
}

// Corners returns top-left, top-right, bottom-right, bottom-left
// (y grows downward).
func (r Rect) Corners() [4]Vector2D {
	min, max := r.Min(), r.Max()
	return [4]Vector2D{
		{X: min.X, Y: min.Y},
		{X: max.X, Y: min.Y},
		{X: max.X, Y: max.Y},
		{X: min.X, Y: max.Y},
	}
}

// Triangles splits the rectangle along its top-left/bottom-right diagonal
func (r Rect) Triangles() [2]Triangle {
	c := r.Corners()
	return [2]Triangle{
		{A: c[0], B: c[1], C: c[2]},
		{A: c[0], B: c[2], C: c[3]},
	}
}

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

func (c Circle) Kind() ShapeKind { return KindCircle }

// Bounds returns the square enclosing the circle
func (c Circle) Bounds() Rect {
	return Rect{Center: c.Center, Width: 2 * c.Radius, Height: 2 * c.Radius}
}

// Triangle is defined by three vertices in either winding
type Triangle struct {
	A, B, C Vector2D
}

func (t Triangle) Kind() ShapeKind { return KindTriangle }

// Bounds returns the triangle's bounding box
func (t Triangle) Bounds() Rect {
	return RectFromMinMax(
		Vector2D{X: math.Min(t.A.X, math.Min(t.B.X, t.C.X)), Y: math.Min(t.A.Y, math.Min(t.B.Y, t.C.Y))},
		Vector2D{X: math.Max(t.A.X, math.Max(t.B.X, t.C.X)), Y: math.Max(t.A.Y, math.Max(t.B.Y, t.C.Y))},
	)
}

// Vertices returns A, B, C in order
func (t Triangle) Vertices() [3]Vector2D {
	return [3]Vector2D{t.A, t.B, t.C}
}

// Edges returns AB, BC, CA
func (t Triangle) Edges() [3]Segment {
	return [3]Segment{{A: t.A, B: t.B}, {A: t.B, B: t.C}, {A: t.C, B: t.A}}
}

// Contains reports whether p lies strictly inside the triangle: p is on the
// same side of every edge as the opposite vertex. Points on an edge and
// degenerate triangles are outside.
func (t Triangle) Contains(p Vector2D) bool {
	return sameSide(t.A, t.B, t.C, p) &&
		sameSide(t.B, t.C, t.A, p) &&
		sameSide(t.C, t.A, t.B, p)
}

// sameSide reports whether p and q lie strictly on the same side of line ab
func sameSide(a, b, p, q Vector2D) bool {
	ab := b.Sub(a)
	return ab.Cross(p.Sub(a))*ab.Cross(q.Sub(a)) > 0
}

// Segment is the closed line segment from A to B
type Segment struct {
	A, B Vector2D
}

func (s Segment) Kind() ShapeKind { return KindSegment }

// Bounds returns the segment's bounding box
func (s Segment) Bounds() Rect {
	return RectFromMinMax(
		Vector2D{X: math.Min(s.A.X, s.B.X), Y: math.Min(s.A.Y, s.B.Y)},
		Vector2D{X: math.Max(s.A.X, s.B.X), Y: math.Max(s.A.Y, s.B.Y)},
	)
}

// ClosestPoint projects p onto the segment, clamping to its endpoints
func (s Segment) ClosestPoint(p Vector2D) Vector2D {
	ab := s.B.Sub(s.A)
	lenSq := ab.LengthSquared()
	if lenSq == 0 {
		return s.A
	}
	t := Clamp(p.Sub(s.A).Dot(ab)/lenSq, 0, 1)
	return s.A.Add(ab.Scale(t))
}
