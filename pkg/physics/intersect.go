package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// parallelTolerance is the relative determinant below which two lines are
// treated as parallel.
const parallelTolerance = 1e-12

// UnsupportedPairError reports a shape pair the kernel has no test for.
// Reaching it is a programming error, so Intersect panics with it.
type UnsupportedPairError struct {
	A, B ShapeKind
}

func (e *UnsupportedPairError) Error() string {
	return fmt.Sprintf("physics: no intersection test for %s/%s", e.A, e.B)
}

// Intersect returns a contact point shared by a and b. Touching boundaries do
// not count. The result does not depend on argument order.
func Intersect(a, b Shape) (Vector2D, bool) {
	switch sa := a.(type) {
	case Rect:
		if sb, ok := b.(Rect); ok {
			return intersectRects(sa, sb)
		}
	case Circle:
		switch sb := b.(type) {
		case Circle:
			return intersectCircles(sa, sb)
		case Triangle:
			return intersectTriangleCircle(sb, sa)
		case Segment:
			return intersectCircleSegment(sa, sb)
		}
	case Triangle:
		switch sb := b.(type) {
		case Triangle:
			if triangleLess(sb, sa) {
				sa, sb = sb, sa
			}
			return intersectTriangles(sa, sb)
		case Circle:
			return intersectTriangleCircle(sa, sb)
		}
	case Segment:
		switch sb := b.(type) {
		case Segment:
			if segmentLess(sb, sa) {
				sa, sb = sb, sa
			}
			return intersectSegments(sa, sb)
		case Circle:
			return intersectCircleSegment(sb, sa)
		}
	}
	panic(&UnsupportedPairError{A: a.Kind(), B: b.Kind()})
}

func intersectRects(a, b Rect) (Vector2D, bool) {
	aMin, aMax := a.Min(), a.Max()
	bMin, bMax := b.Min(), b.Max()
	min := Vector2D{X: math.Max(aMin.X, bMin.X), Y: math.Max(aMin.Y, bMin.Y)}
	max := Vector2D{X: math.Min(aMax.X, bMax.X), Y: math.Min(aMax.Y, bMax.Y)}
	if max.X <= min.X || max.Y <= min.Y {
		return Vector2D{}, false
	}
	return min.Lerp(max, 0.5), true
}

func intersectCircles(a, b Circle) (Vector2D, bool) {
	reach := a.Radius + b.Radius
	if a.Center.Sub(b.Center).LengthSquared() >= reach*reach {
		return Vector2D{}, false
	}
	return a.Center.Midpoint(b.Center), true
}

func intersectTriangles(a, b Triangle) (Vector2D, bool) {
	for _, v := range a.Vertices() {
		if b.Contains(v) {
			return v, true
		}
	}
	for _, v := range b.Vertices() {
		if a.Contains(v) {
			return v, true
		}
	}
	for _, ea := range a.Edges() {
		for _, eb := range b.Edges() {
			if p, ok := intersectSegments(ea, eb); ok {
				return p, true
			}
		}
	}
	return Vector2D{}, false
}

func intersectTriangleCircle(t Triangle, c Circle) (Vector2D, bool) {
	if t.Contains(c.Center) {
		return c.Center, true
	}
	for _, edge := range t.Edges() {
		if p, ok := intersectCircleSegment(c, edge); ok {
			return p, true
		}
	}
	return Vector2D{}, false
}

func intersectCircleSegment(c Circle, s Segment) (Vector2D, bool) {
	foot := s.ClosestPoint(c.Center)
	if foot.Sub(c.Center).LengthSquared() >= c.Radius*c.Radius {
		return Vector2D{}, false
	}
	return foot, true
}

// intersectSegments rejects pairs where either segment lies strictly on one
// side of the other's line, then solves the two line equations.
func intersectSegments(a, b Segment) (Vector2D, bool) {
	if strictlyOneSide(a, b) || strictlyOneSide(b, a) {
		return Vector2D{}, false
	}
	return solveLines(a, b)
}

// strictlyOneSide reports whether both endpoints of s lie strictly on the
// same side of line's infinite extension
func strictlyOneSide(line, s Segment) bool {
	dir := line.B.Sub(line.A)
	return dir.Cross(s.A.Sub(line.A))*dir.Cross(s.B.Sub(line.A)) > 0
}

// solveLines finds p = a.A + s*(a.B-a.A) = b.A + u*(b.B-b.A).
// Parallel and degenerate lines have no single solution.
func solveLines(a, b Segment) (Vector2D, bool) {
	da := a.B.Sub(a.A)
	db := b.B.Sub(b.A)
	m := mgl64.Mat2{da.X, da.Y, -db.X, -db.Y}
	det := m.Det()
	if math.Abs(det) <= parallelTolerance*da.Length()*db.Length() || det == 0 {
		return Vector2D{}, false
	}
	rhs := b.A.Sub(a.A)
	params := m.Inv().Mul2x1(mgl64.Vec2{rhs.X, rhs.Y})
	s := Clamp(params[0], 0, 1)
	return a.A.Add(da.Scale(s)), true
}

func triangleLess(a, b Triangle) bool {
	va, vb := a.Vertices(), b.Vertices()
	for i := range va {
		if va[i] != vb[i] {
			return va[i].Less(vb[i])
		}
	}
	return false
}

func segmentLess(a, b Segment) bool {
	if a.A != b.A {
		return a.A.Less(b.A)
	}
	return a.B.Less(b.B)
}
