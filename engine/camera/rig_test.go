package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const tolerance = 1e-5

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < tolerance
}

func approxVec(a, b mgl32.Vec3) bool {
	return approx(a[0], b[0]) && approx(a[1], b[1]) && approx(a[2], b[2])
}

func TestNewRigDefaults(t *testing.T) {
	r := NewRig()
	s := r.State()

	if s.Position != (mgl32.Vec3{0, 1, -2}) {
		t.Errorf("position: expected (0,1,-2), got %v", s.Position)
	}
	if !approxVec(r.Direction(), mgl32.Vec3{0, 0, 1}) {
		t.Errorf("direction: expected +Z, got %v", r.Direction())
	}
	if r.MoveSpeed() != DefaultMoveSpeed {
		t.Errorf("move speed: expected %v, got %v", DefaultMoveSpeed, r.MoveSpeed())
	}
	if r.ChangeEpsilon() != 0 {
		t.Errorf("change epsilon should default to exact comparison, got %v", r.ChangeEpsilon())
	}
}

func TestFirstUpdateReportsChange(t *testing.T) {
	r := NewRig()
	if _, changed := r.Update(Intents{}, LookInput{}, 0); !changed {
		t.Error("the first update should report a change")
	}
	if _, changed := r.Update(Intents{}, LookInput{}, 0); changed {
		t.Error("an idle update should not report a change")
	}
}

func TestPitchIsClamped(t *testing.T) {
	tests := []struct {
		name string
		look LookInput
		want float32
	}{
		{"locked mouse far down", LookInput{Mode: LookLocked, DY: 1e6}, -MaxPitch},
		{"locked mouse far up", LookInput{Mode: LookLocked, DY: -1e6}, MaxPitch},
		{"drag far down", LookInput{Mode: LookDrag, DY: 1e6}, MaxPitch},
		{"drag far up", LookInput{Mode: LookDrag, DY: -1e6}, -MaxPitch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRig()
			s, _ := r.Update(Intents{}, tt.look, 0)
			if s.Pitch != tt.want {
				t.Errorf("expected pitch %v, got %v", tt.want, s.Pitch)
			}
		})
	}
}

func TestMovementAtPitchClampFollowsYaw(t *testing.T) {
	if float64(MaxPitch) > math.Pi/2 {
		t.Fatalf("MaxPitch %v exceeds pi/2", MaxPitch)
	}

	level := NewRig(WithMoveSpeed(1))
	levelStart := level.State().Position
	s, _ := level.Update(Intents{Forward: true}, LookInput{}, 0)
	wantForward := s.Position.Sub(levelStart)
	s, _ = level.Update(Intents{Right: true}, LookInput{}, 0)
	wantRight := s.Position.Sub(levelStart).Sub(wantForward)

	for _, dy := range []float32{1e5, -1e5} {
		r := NewRig(WithMoveSpeed(1))
		r.Update(Intents{}, LookInput{Mode: LookLocked, DY: dy}, 0)

		if h := r.Direction(); h[2] <= 0 {
			t.Errorf("dy %v: view direction lost its forward component: %v", dy, h)
		}

		start := r.State().Position
		s, _ := r.Update(Intents{Forward: true}, LookInput{}, 0)
		if got := s.Position.Sub(start); !approxVec(got, wantForward) {
			t.Errorf("dy %v: forward moved %v, expected %v", dy, got, wantForward)
		}

		start = s.Position
		s, _ = r.Update(Intents{Right: true}, LookInput{}, 0)
		if got := s.Position.Sub(start); !approxVec(got, wantRight) {
			t.Errorf("dy %v: right moved %v, expected %v", dy, got, wantRight)
		}
	}
}

func TestLookSignsAndSensitivity(t *testing.T) {
	tests := []struct {
		name      string
		look      LookInput
		wantYaw   float32
		wantPitch float32
	}{
		{"locked", LookInput{Mode: LookLocked, DX: 100, DY: 50}, -100 * DefaultLockedSensitivity, -50 * DefaultLockedSensitivity},
		{"drag", LookInput{Mode: LookDrag, DX: 100, DY: 50}, 100 * DefaultDragSensitivity, 50 * DefaultDragSensitivity},
		{"none", LookInput{Mode: LookNone, DX: 100, DY: 50}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRig()
			s, _ := r.Update(Intents{}, tt.look, 0)
			if !approx(s.Yaw, tt.wantYaw) || !approx(s.Pitch, tt.wantPitch) {
				t.Errorf("expected yaw/pitch (%v, %v), got (%v, %v)", tt.wantYaw, tt.wantPitch, s.Yaw, s.Pitch)
			}
		})
	}
}

func TestMovementStaysOnHorizontalPlane(t *testing.T) {
	r := NewRig(WithYawPitch(0, 1.2))
	start := r.State().Position

	s, changed := r.Update(Intents{Forward: true}, LookInput{}, 0)
	if !changed {
		t.Fatal("moving forward should report a change")
	}

	delta := s.Position.Sub(start)
	if delta[1] != 0 {
		t.Errorf("forward movement must not change height, got dy=%v", delta[1])
	}
	if !approx(delta.Len(), DefaultMoveSpeed) {
		t.Errorf("expected a step of %v, got %v", DefaultMoveSpeed, delta.Len())
	}
	if !approx(delta[2], DefaultMoveSpeed) {
		t.Errorf("with yaw 0 forward is +Z, got %v", delta)
	}
}

func TestStrafeAndVertical(t *testing.T) {
	tests := []struct {
		name    string
		intents Intents
		want    mgl32.Vec3
	}{
		{"right", Intents{Right: true}, mgl32.Vec3{-DefaultMoveSpeed, 0, 0}},
		{"left", Intents{Left: true}, mgl32.Vec3{DefaultMoveSpeed, 0, 0}},
		{"up", Intents{Up: true}, mgl32.Vec3{0, DefaultMoveSpeed, 0}},
		{"down", Intents{Down: true}, mgl32.Vec3{0, -DefaultMoveSpeed, 0}},
		{"forward and back cancel", Intents{Forward: true, Back: true}, mgl32.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRig(WithPosition(0, 0, 0))
			s, _ := r.Update(tt.intents, LookInput{}, 0)
			if !approxVec(s.Position, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, s.Position)
			}
		})
	}
}

func TestChangeDetectionIsExactByDefault(t *testing.T) {
	r := NewRig()
	r.Update(Intents{}, LookInput{}, 0)

	if _, changed := r.Update(Intents{}, LookInput{Mode: LookLocked, DX: 1e-3}, 0); !changed {
		t.Error("a tiny look delta should count as a change with exact comparison")
	}

	tolerant := NewRig(WithChangeEpsilon(1e-3))
	tolerant.Update(Intents{}, LookInput{}, 0)
	if _, changed := tolerant.Update(Intents{}, LookInput{Mode: LookLocked, DX: 1e-3}, 0); changed {
		t.Error("a delta below the epsilon should not count as a change")
	}
}

func TestNonFiniteLookIsRejected(t *testing.T) {
	r := NewRig()
	r.Update(Intents{}, LookInput{}, 0)

	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	s, changed := r.Update(Intents{}, LookInput{Mode: LookLocked, DX: nan, DY: 1}, 0)
	if changed {
		t.Error("a rejected sample must not move the view")
	}
	if s.Yaw != 0 || s.Pitch != 0 {
		t.Errorf("orientation should be untouched, got yaw %v pitch %v", s.Yaw, s.Pitch)
	}

	r.Update(Intents{}, LookInput{Mode: LookDrag, DY: inf}, 0)
	if r.RejectedSamples() != 2 {
		t.Errorf("expected 2 rejected samples, got %d", r.RejectedSamples())
	}
}

func TestFrameRateIndependentMovement(t *testing.T) {
	r := NewRig(WithPosition(0, 0, 0), WithMoveSpeed(2), WithFrameRateIndependentMovement())

	s, _ := r.Update(Intents{Up: true}, LookInput{}, 0.5)
	if !approx(s.Position[1], 1) {
		t.Errorf("expected y=1 after 0.5s at 2 units/s, got %v", s.Position[1])
	}
}

func TestGPUCameraUniformMarshal(t *testing.T) {
	u := NewGPUCameraUniform(State{Position: mgl32.Vec3{1, 2, 3}}, 1.5)
	if u.Size() != 32 {
		t.Fatalf("expected 32 bytes, got %d", u.Size())
	}

	buf := u.Marshal()
	if len(buf) != 32 {
		t.Fatalf("expected 32 marshalled bytes, got %d", len(buf))
	}
	if got := math.Float32frombits(leUint32(buf[12:])); got != 1.5 {
		t.Errorf("aspect at offset 12: expected 1.5, got %v", got)
	}
	if got := math.Float32frombits(leUint32(buf[24:])); got != 1 {
		t.Errorf("direction.z at offset 24: expected 1, got %v", got)
	}
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
