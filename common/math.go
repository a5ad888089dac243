package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Clamp limits v to the closed range [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: lower bound
//   - hi: upper bound
//
// Returns:
//   - float32: v limited to [lo, hi]
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Finite reports whether v is neither NaN nor an infinity.
//
// Parameters:
//   - v: the value to check
//
// Returns:
//   - bool: true if v is a finite number
func Finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FiniteOr returns v when it is finite and fallback otherwise.
//
// Parameters:
//   - v: the candidate value
//   - fallback: the value used when v is NaN or infinite
//
// Returns:
//   - float32: v or fallback
func FiniteOr(v, fallback float32) float32 {
	if Finite(v) {
		return v
	}
	return fallback
}

// FiniteVec3 reports whether every component of v is finite.
//
// Parameters:
//   - v: the vector to check
//
// Returns:
//   - bool: true if all three components are finite
func FiniteVec3(v mgl32.Vec3) bool {
	return Finite(v[0]) && Finite(v[1]) && Finite(v[2])
}

// NearlyEqualVec3 compares two vectors component-wise.
// An epsilon of zero means exact equality.
//
// Parameters:
//   - a, b: the vectors to compare
//   - epsilon: the largest tolerated absolute difference per component
//
// Returns:
//   - bool: true if every component differs by at most epsilon
func NearlyEqualVec3(a, b mgl32.Vec3, epsilon float32) bool {
	if epsilon <= 0 {
		return a == b
	}
	for i := range 3 {
		if float32(math.Abs(float64(a[i]-b[i]))) > epsilon {
			return false
		}
	}
	return true
}
