package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float32
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{3, 0, 1, 1},
		{1, 0, 1, 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v): expected %v, got %v", tt.v, tt.lo, tt.hi, tt.want, got)
		}
	}
}

func TestFiniteOr(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	if FiniteOr(nan, 2) != 2 || FiniteOr(inf, 2) != 2 || FiniteOr(-inf, 2) != 2 {
		t.Error("non-finite values should fall back")
	}
	if FiniteOr(0.25, 2) != 0.25 {
		t.Error("finite values should pass through")
	}
	if FiniteVec3(mgl32.Vec3{0, nan, 0}) {
		t.Error("a NaN component makes the vector non-finite")
	}
}

func TestNearlyEqualVec3(t *testing.T) {
	a := mgl32.Vec3{1, 2, 3}
	b := mgl32.Vec3{1, 2, 3.0005}

	if NearlyEqualVec3(a, b, 0) {
		t.Error("zero epsilon must compare exactly")
	}
	if !NearlyEqualVec3(a, b, 0.001) {
		t.Error("difference below epsilon should be equal")
	}
	if NearlyEqualVec3(a, b, 0.0001) {
		t.Error("difference above epsilon should not be equal")
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce(0, 0, 3, 4); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := Coalesce("", ""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
