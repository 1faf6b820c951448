// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"
)

func vecNear(a, b Vector2D) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestVector2D_Arithmetic(t *testing.T) {
	tests := []struct {
		name     string
		got      Vector2D
		expected Vector2D
	}{
		{"add", Vector2D{X: 1, Y: 2}.Add(Vector2D{X: 3, Y: -4}), Vector2D{X: 4, Y: -2}},
		{"sub", Vector2D{X: 1, Y: 2}.Sub(Vector2D{X: 3, Y: -4}), Vector2D{X: -2, Y: 6}},
		{"neg", Vector2D{X: 1, Y: -2}.Neg(), Vector2D{X: -1, Y: 2}},
		{"scale", Vector2D{X: 1, Y: -2}.Scale(3), Vector2D{X: 3, Y: -6}},
		{"div", Vector2D{X: 3, Y: -6}.Div(3), Vector2D{X: 1, Y: -2}},
		{"div_by_zero", Vector2D{X: 3, Y: -6}.Div(0), Vector2D{}},
		{"perp", Vector2D{X: 1, Y: 0}.Perp(), Vector2D{X: 0, Y: 1}},
		{"lerp_half", Vector2D{X: 0, Y: 0}.Lerp(Vector2D{X: 4, Y: 2}, 0.5), Vector2D{X: 2, Y: 1}},
		{"midpoint", Vector2D{X: -2, Y: 0}.Midpoint(Vector2D{X: 4, Y: 2}), Vector2D{X: 1, Y: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !vecNear(tt.got, tt.expected) {
				t.Errorf("got %v, expected %v", tt.got, tt.expected)
			}
		})
	}
}

func TestVector2D_Products(t *testing.T) {
	a := Vector2D{X: 3, Y: 4}
	b := Vector2D{X: -4, Y: 3}

	if got := a.Dot(b); got != 0 {
		t.Errorf("Dot() = %v, expected 0", got)
	}
	if got := a.Cross(b); got != 25 {
		t.Errorf("Cross() = %v, expected 25", got)
	}
	if got := a.Length(); got != 5 {
		t.Errorf("Length() = %v, expected 5", got)
	}
	if got := a.LengthSquared(); got != 25 {
		t.Errorf("LengthSquared() = %v, expected 25", got)
	}
	if got := a.Distance(b); math.Abs(got-math.Sqrt(50)) > 1e-9 {
		t.Errorf("Distance() = %v, expected %v", got, math.Sqrt(50))
	}
}

func TestVector2D_Normalize(t *testing.T) {
	t.Run("regular_vector", func(t *testing.T) {
		result := Vector2D{X: 3, Y: 4}.Normalize()
		if !vecNear(result, Vector2D{X: 0.6, Y: 0.8}) {
			t.Errorf("Normalize() = %v, expected (0.6, 0.8)", result)
		}
	})

	t.Run("zero_vector_stays_zero", func(t *testing.T) {
		result := Vector2D{}.Normalize()
		if !result.IsZero() {
			t.Errorf("Normalize() on zero vector = %v, expected zero", result)
		}
	})
}

func TestVector2D_Reflect(t *testing.T) {
	tests := []struct {
		name     string
		v        Vector2D
		normal   Vector2D
		expected Vector2D
	}{
		{"head_on", Vector2D{X: 0, Y: 1}, Vector2D{X: 0, Y: 1}, Vector2D{X: 0, Y: -1}},
		{"glancing", Vector2D{X: 1, Y: 1}, Vector2D{X: 0, Y: 1}, Vector2D{X: 1, Y: -1}},
		{"side_wall", Vector2D{X: -1, Y: 0.5}, Vector2D{X: -1, Y: 0}, Vector2D{X: 1, Y: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Reflect(tt.normal); !vecNear(got, tt.expected) {
				t.Errorf("Reflect() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestNumericHelpers(t *testing.T) {
	if Clamp(5.0, 0, 1) != 1 || Clamp(-5.0, 0, 1) != 0 || Clamp(0.5, 0, 1) != 0.5 {
		t.Error("Clamp returned a value outside the expected range")
	}
	if !NearZero(1e-9, 1e-6) || NearZero(1e-3, 1e-6) {
		t.Error("NearZero misclassified its input")
	}
	if Sign(-2.0) != -1 || Sign(0.0) != 0 || Sign(3.0) != 1 {
		t.Error("Sign returned the wrong sign")
	}
}
