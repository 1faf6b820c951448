package physics

import "golang.org/x/exp/constraints"

// Clamp limits x to [lo, hi]
func Clamp[T constraints.Float](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// NearZero reports whether |x| is below eps
func NearZero[T constraints.Float](x, eps T) bool {
	return x < eps && x > -eps
}

// Sign returns -1, 0 or 1
func Sign[T constraints.Float](x T) T {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
