package frame

import (
	"github.com/Carmen-Shannon/oxy-trace/engine/camera"
	"github.com/Carmen-Shannon/oxy-trace/engine/encoder"
	"github.com/Carmen-Shannon/oxy-trace/engine/scene"
)

// DriverBuilderOption is a functional option for configuring a Driver.
type DriverBuilderOption func(*driverImpl)

// WithRig sets the camera rig.
//
// Parameters:
//   - rig: the camera rig
//
// Returns:
//   - DriverBuilderOption: a function that sets the camera rig
func WithRig(rig camera.Rig) DriverBuilderOption {
	return func(d *driverImpl) {
		d.state.Rig = rig
	}
}

// WithScene sets the scene.
//
// Parameters:
//   - s: the scene
//
// Returns:
//   - DriverBuilderOption: a function that sets the scene
func WithScene(s scene.Scene) DriverBuilderOption {
	return func(d *driverImpl) {
		d.state.Scene = s
	}
}

// WithEncoder sets the scene encoder.
//
// Parameters:
//   - e: the encoder
//
// Returns:
//   - DriverBuilderOption: a function that sets the encoder
func WithEncoder(e encoder.Encoder) DriverBuilderOption {
	return func(d *driverImpl) {
		d.state.Encoder = e
	}
}

// WithInputLatch sets the input latch.
//
// Parameters:
//   - l: the input latch
//
// Returns:
//   - DriverBuilderOption: a function that sets the input latch
func WithInputLatch(l *InputLatch) DriverBuilderOption {
	return func(d *driverImpl) {
		d.state.Latch = l
	}
}
