// pkg/physics/vector.go
package physics

import "math"

// Vector2D represents a 2D vector with x and y components
type Vector2D struct {
	X float64
	Y float64
}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X + other.X,
		Y: v.Y + other.Y,
	}
}

// Sub returns the difference between two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X - other.X,
		Y: v.Y - other.Y,
	}
}

// Neg returns the vector pointing the opposite way
func (v Vector2D) Neg() Vector2D {
	return Vector2D{X: -v.X, Y: -v.Y}
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{
		X: v.X * factor,
		Y: v.Y * factor,
	}
}

// Div divides the vector by a scalar value. Division by zero yields the zero vector.
func (v Vector2D) Div(divisor float64) Vector2D {
	if divisor == 0 {
		return Vector2D{}
	}
	return Vector2D{
		X: v.X / divisor,
		Y: v.Y / divisor,
	}
}

// Length returns the magnitude of the vector
func (v Vector2D) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// LengthSquared returns magnitude squared (optimization for comparisons)
func (v Vector2D) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns a unit vector in the same direction.
// The zero vector normalizes to itself; callers pick their own fallback.
func (v Vector2D) Normalize() Vector2D {
	return v.Div(v.Length())
}

// IsZero reports whether both components are exactly zero
func (v Vector2D) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Distance returns the distance between two vectors
func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Length()
}

// Dot returns the dot product of two vectors
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the z component of the 3D cross product of v and other
func (v Vector2D) Cross(other Vector2D) float64 {
	return v.X*other.Y - v.Y*other.X
}

// Perp returns v rotated a quarter turn counter-clockwise
func (v Vector2D) Perp() Vector2D {
	return Vector2D{X: -v.Y, Y: v.X}
}

// Reflect mirrors v about the line whose unit normal is n
func (v Vector2D) Reflect(n Vector2D) Vector2D {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// Lerp interpolates between v and other
func (v Vector2D) Lerp(other Vector2D, t float64) Vector2D {
	return v.Add(other.Sub(v).Scale(t))
}

// Midpoint returns the point halfway between v and other; it is exactly
// symmetric in its operands
func (v Vector2D) Midpoint(other Vector2D) Vector2D {
	return Vector2D{X: (v.X + other.X) / 2, Y: (v.Y + other.Y) / 2}
}

// Less orders vectors lexicographically, X first
func (v Vector2D) Less(other Vector2D) bool {
	if v.X != other.X {
		return v.X < other.X
	}
	return v.Y < other.Y
}
