package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-trace/common"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultMoveSpeed is the distance covered per tick along each active movement axis.
	DefaultMoveSpeed float32 = 0.01

	// DefaultLockedSensitivity is the radians-per-pixel factor of pointer-lock look.
	DefaultLockedSensitivity float32 = 0.0015

	// DefaultDragSensitivity is the radians-per-pixel factor of drag look.
	DefaultDragSensitivity float32 = 0.003
)

// MaxPitch is the absolute pitch limit in radians. It is the largest float32
// below pi/2, so cos(pitch) stays positive and horizontal movement keeps
// following the yaw when looking straight up or down.
var MaxPitch = math.Nextafter32(math.Pi/2, 0)

// State is a snapshot of the first-person camera.
type State struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32
}

// Direction derives the unit view direction from yaw and pitch.
//
// Returns:
//   - mgl32.Vec3: the view direction
func (s State) Direction() mgl32.Vec3 {
	return directionOf(s.Yaw, s.Pitch)
}

func directionOf(yaw, pitch float32) mgl32.Vec3 {
	sy, cy := math.Sincos(float64(yaw))
	sp, cp := math.Sincos(float64(pitch))
	return mgl32.Vec3{float32(cp * sy), float32(sp), float32(cp * cy)}
}

type rigImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	yaw      float32
	pitch    float32
	aspect   float32

	moveSpeed         float32
	lockedSensitivity float32
	dragSensitivity   float32
	changeEpsilon     float32
	scaleByDelta      bool

	lastPosition  mgl32.Vec3
	lastDirection mgl32.Vec3
	rejected      uint64
}

// Rig is a first-person camera. It integrates movement intents and pointer look into position,
// yaw and pitch, and reports whether the view moved since the previous update.
type Rig interface {
	// Update applies one tick of input.
	// Look is applied first and the pitch clamped, then movement follows the new direction.
	//
	// Parameters:
	//   - intents: the movement keys held this tick
	//   - look: the pointer delta gathered since the previous tick
	//   - dt: seconds since the previous tick, only used with frame-rate independent movement
	//
	// Returns:
	//   - State: the camera after the update
	//   - bool: true if the position or direction differs from the previous update
	Update(intents Intents, look LookInput, dt float32) (State, bool)

	// State returns the current camera snapshot.
	//
	// Returns:
	//   - State: the camera state
	State() State

	// Direction returns the current view direction.
	//
	// Returns:
	//   - mgl32.Vec3: the unit view direction
	Direction() mgl32.Vec3

	// SetPosition teleports the camera. The next Update reports a change.
	//
	// Parameters:
	//   - position: the new world-space position
	SetPosition(position mgl32.Vec3)

	// SetYaw sets the horizontal angle in radians.
	//
	// Parameters:
	//   - yaw: the new yaw
	SetYaw(yaw float32)

	// SetPitch sets the vertical angle in radians, clamped to [-MaxPitch, MaxPitch].
	//
	// Parameters:
	//   - pitch: the new pitch
	SetPitch(pitch float32)

	// Aspect returns the viewport aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// SetAspect sets the viewport aspect ratio. Non-positive or non-finite values are ignored.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// MoveSpeed returns the per-tick movement step.
	//
	// Returns:
	//   - float32: the movement step
	MoveSpeed() float32

	// LockedSensitivity returns the pointer-lock look factor.
	//
	// Returns:
	//   - float32: radians per pixel
	LockedSensitivity() float32

	// DragSensitivity returns the drag look factor.
	//
	// Returns:
	//   - float32: radians per pixel
	DragSensitivity() float32

	// ChangeEpsilon returns the tolerance used by change detection. Zero means exact equality.
	//
	// Returns:
	//   - float32: the tolerance
	ChangeEpsilon() float32

	// RejectedSamples returns how many non-finite look or time deltas were discarded.
	//
	// Returns:
	//   - uint64: the number of rejected samples
	RejectedSamples() uint64
}

var _ Rig = &rigImpl{}

// NewRig creates a first-person camera at (0, 1, -2) looking down +Z.
//
// Parameters:
//   - options: functional options to configure the rig
//
// Returns:
//   - Rig: the new camera rig
func NewRig(options ...RigBuilderOption) Rig {
	r := &rigImpl{
		mu:                &sync.Mutex{},
		position:          mgl32.Vec3{0, 1, -2},
		aspect:            1,
		moveSpeed:         DefaultMoveSpeed,
		lockedSensitivity: DefaultLockedSensitivity,
		dragSensitivity:   DefaultDragSensitivity,
		lastDirection:     mgl32.Vec3{1, 0, 0},
	}

	for _, opt := range options {
		opt(r)
	}

	r.pitch = common.Clamp(r.pitch, -MaxPitch, MaxPitch)
	return r
}

func (r *rigImpl) Update(intents Intents, look LookInput, dt float32) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.applyLook(look)
	r.pitch = common.Clamp(r.pitch, -MaxPitch, MaxPitch)

	dir := directionOf(r.yaw, r.pitch)
	r.applyMovement(intents, dir, dt)

	changed := !common.NearlyEqualVec3(r.position, r.lastPosition, r.changeEpsilon) ||
		!common.NearlyEqualVec3(dir, r.lastDirection, r.changeEpsilon)

	r.lastPosition = r.position
	r.lastDirection = dir

	return r.snapshot(), changed
}

func (r *rigImpl) applyLook(look LookInput) {
	if look.Mode == LookNone {
		return
	}
	if !common.Finite(look.DX) || !common.Finite(look.DY) {
		r.rejected++
		return
	}

	switch look.Mode {
	case LookLocked:
		r.yaw -= look.DX * r.lockedSensitivity
		r.pitch -= look.DY * r.lockedSensitivity
	case LookDrag:
		r.yaw += look.DX * r.dragSensitivity
		r.pitch += look.DY * r.dragSensitivity
	}
}

func (r *rigImpl) applyMovement(intents Intents, dir mgl32.Vec3, dt float32) {
	if !intents.Any() {
		return
	}

	step := r.moveSpeed
	if r.scaleByDelta {
		if !common.Finite(dt) || dt < 0 {
			r.rejected++
			return
		}
		step *= dt
	}

	forward := horizontal(dir[0], dir[2])
	right := horizontal(-dir[2], dir[0])

	var move mgl32.Vec3
	if intents.Forward {
		move = move.Add(forward)
	}
	if intents.Back {
		move = move.Sub(forward)
	}
	if intents.Right {
		move = move.Add(right)
	}
	if intents.Left {
		move = move.Sub(right)
	}
	if intents.Up {
		move[1] += 1
	}
	if intents.Down {
		move[1] -= 1
	}

	r.position = r.position.Add(move.Mul(step))
}

// horizontal returns the normalised (x, 0, z) vector, or zero when it has no length.
// This happens when looking straight up or down.
func horizontal(x, z float32) mgl32.Vec3 {
	v := mgl32.Vec3{x, 0, z}
	if v.Len() < 1e-8 {
		return mgl32.Vec3{}
	}
	return v.Normalize()
}

func (r *rigImpl) snapshot() State {
	return State{Position: r.position, Yaw: r.yaw, Pitch: r.pitch}
}

func (r *rigImpl) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

func (r *rigImpl) Direction() mgl32.Vec3 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return directionOf(r.yaw, r.pitch)
}

func (r *rigImpl) SetPosition(position mgl32.Vec3) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if common.FiniteVec3(position) {
		r.position = position
	}
}

func (r *rigImpl) SetYaw(yaw float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if common.Finite(yaw) {
		r.yaw = yaw
	}
}

func (r *rigImpl) SetPitch(pitch float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if common.Finite(pitch) {
		r.pitch = common.Clamp(pitch, -MaxPitch, MaxPitch)
	}
}

func (r *rigImpl) Aspect() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aspect
}

func (r *rigImpl) SetAspect(aspect float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if common.Finite(aspect) && aspect > 0 {
		r.aspect = aspect
	}
}

func (r *rigImpl) MoveSpeed() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.moveSpeed
}

func (r *rigImpl) LockedSensitivity() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lockedSensitivity
}

func (r *rigImpl) DragSensitivity() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dragSensitivity
}

func (r *rigImpl) ChangeEpsilon() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.changeEpsilon
}

func (r *rigImpl) RejectedSamples() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rejected
}
