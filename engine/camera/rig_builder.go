package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// RigBuilderOption is a functional option for configuring a Rig.
type RigBuilderOption func(*rigImpl)

// WithPosition sets the starting position.
//
// Parameters:
//   - x, y, z: world-space position components
//
// Returns:
//   - RigBuilderOption: a function that sets the starting position
func WithPosition(x, y, z float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.position = mgl32.Vec3{x, y, z}
	}
}

// WithYawPitch sets the starting orientation in radians. Pitch is clamped when the rig is built.
//
// Parameters:
//   - yaw: horizontal angle, 0 looks down +Z
//   - pitch: vertical angle, 0 is level
//
// Returns:
//   - RigBuilderOption: a function that sets the starting orientation
func WithYawPitch(yaw, pitch float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.yaw = yaw
		r.pitch = pitch
	}
}

// WithAspect sets the viewport aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio
//
// Returns:
//   - RigBuilderOption: a function that sets the aspect ratio
func WithAspect(aspect float32) RigBuilderOption {
	return func(r *rigImpl) {
		if aspect > 0 {
			r.aspect = aspect
		}
	}
}

// WithMoveSpeed sets the movement step per tick.
//
// Parameters:
//   - speed: distance per tick
//
// Returns:
//   - RigBuilderOption: a function that sets the movement step
func WithMoveSpeed(speed float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.moveSpeed = speed
	}
}

// WithLockedSensitivity sets the pointer-lock look factor.
//
// Parameters:
//   - sensitivity: radians per pixel
//
// Returns:
//   - RigBuilderOption: a function that sets the pointer-lock sensitivity
func WithLockedSensitivity(sensitivity float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.lockedSensitivity = sensitivity
	}
}

// WithDragSensitivity sets the drag look factor.
//
// Parameters:
//   - sensitivity: radians per pixel
//
// Returns:
//   - RigBuilderOption: a function that sets the drag sensitivity
func WithDragSensitivity(sensitivity float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.dragSensitivity = sensitivity
	}
}

// WithChangeEpsilon sets the per-component tolerance used when deciding whether the view moved.
// The default of 0 compares exactly.
//
// Parameters:
//   - epsilon: the tolerance
//
// Returns:
//   - RigBuilderOption: a function that sets the change tolerance
func WithChangeEpsilon(epsilon float32) RigBuilderOption {
	return func(r *rigImpl) {
		if epsilon >= 0 {
			r.changeEpsilon = epsilon
		}
	}
}

// WithFrameRateIndependentMovement scales the movement step by the tick's dt, so MoveSpeed
// becomes units per second.
//
// Returns:
//   - RigBuilderOption: a function that enables dt scaling
func WithFrameRateIndependentMovement() RigBuilderOption {
	return func(r *rigImpl) {
		r.scaleByDelta = true
	}
}
