package software

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestHitSphere(t *testing.T) {
	r := ray{origin: mgl32.Vec3{0, 0, -5}, dir: mgl32.Vec3{0, 0, 1}}

	tHit, ok := hitSphere(r, mgl32.Vec3{}, 1)
	if !ok || tHit != 4 {
		t.Errorf("expected a hit at t=4, got %v %v", tHit, ok)
	}

	if _, ok := hitSphere(r, mgl32.Vec3{3, 0, 0}, 1); ok {
		t.Error("ray should miss an offset sphere")
	}
}

func TestHitBox(t *testing.T) {
	tests := []struct {
		name       string
		r          ray
		wantT      float32
		wantNormal mgl32.Vec3
		wantHit    bool
	}{
		{"front face", ray{mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 1}}, 4.5, mgl32.Vec3{0, 0, -1}, true},
		{"top face", ray{mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, -1, 0}}, 4.5, mgl32.Vec3{0, 1, 0}, true},
		{"miss", ray{mgl32.Vec3{2, 0, -5}, mgl32.Vec3{0, 0, 1}}, 0, mgl32.Vec3{}, false},
		{"parallel outside", ray{mgl32.Vec3{0, 1, -5}, mgl32.Vec3{0, 0, 1}}, 0, mgl32.Vec3{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tHit, n, ok := hitBox(tt.r, mgl32.Vec3{}, 1)
			if ok != tt.wantHit {
				t.Fatalf("hit: expected %v, got %v", tt.wantHit, ok)
			}
			if ok && (tHit != tt.wantT || n != tt.wantNormal) {
				t.Errorf("expected t=%v n=%v, got t=%v n=%v", tt.wantT, tt.wantNormal, tHit, n)
			}
		})
	}
}

func TestHitFloor(t *testing.T) {
	if tHit, ok := hitFloor(ray{mgl32.Vec3{0, 2, 0}, mgl32.Vec3{0, -1, 0}}); !ok || tHit != 2 {
		t.Errorf("expected floor hit at t=2, got %v %v", tHit, ok)
	}
	if _, ok := hitFloor(ray{mgl32.Vec3{0, 2, 0}, mgl32.Vec3{0, 1, 0}}); ok {
		t.Error("an upward ray cannot hit the floor")
	}
}

func TestFloorPattern(t *testing.T) {
	a := floorColor(mgl32.Vec3{0.5, 0, 0.5}, true)
	b := floorColor(mgl32.Vec3{1.5, 0, 0.5}, true)
	if a == b {
		t.Error("adjacent cells should alternate")
	}
	if floorColor(mgl32.Vec3{0.5, 0, 0.5}, false) != floorColor(mgl32.Vec3{1.5, 0, 0.5}, false) {
		t.Error("with the pattern off the floor is uniform")
	}
}
