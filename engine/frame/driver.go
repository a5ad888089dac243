// Package frame runs one tick of the progressive renderer: input, camera, invalidation, encoding,
// the shader pass, presentation and the ping-pong swap.
package frame

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-trace/engine/accumulation"
	"github.com/Carmen-Shannon/oxy-trace/engine/camera"
	"github.com/Carmen-Shannon/oxy-trace/engine/encoder"
	"github.com/Carmen-Shannon/oxy-trace/engine/scene"
	"github.com/Carmen-Shannon/oxy-trace/log"
)

var logger = log.New("frame")

// RendererState is all mutable renderer state, owned by a single Driver.
type RendererState struct {
	Rig     camera.Rig
	Scene   scene.Scene
	Encoder encoder.Encoder
	Buffer  accumulation.Buffer
	Latch   *InputLatch

	lastRevision uint64
}

// TickResult describes what happened during one tick.
type TickResult struct {
	// SampleIndex is the sample count after the tick: 1 on an invalidated tick, previous+1 otherwise.
	SampleIndex uint32

	CameraChanged bool
	SceneChanged  bool
	Invalidated   bool
	Truncated     bool

	Camera camera.State
}

// Stats are running totals over the driver's lifetime.
type Stats struct {
	Ticks               uint64
	CameraInvalidations uint64
	SceneInvalidations  uint64
	Resizes             uint64
	MaxSampleIndex      uint32
	SampleIndex         uint32
}

type driverImpl struct {
	mu *sync.Mutex

	state  RendererState
	shader ShaderPass
	stats  Stats
}

// Driver is the per-tick orchestrator.
type Driver interface {
	// Tick runs one frame.
	//
	// Parameters:
	//   - dt: seconds since the previous tick
	//
	// Returns:
	//   - TickResult: what happened this tick
	//   - error: an error from the shader pass or the accumulation buffer
	Tick(dt float32) (TickResult, error)

	// Resize reallocates the accumulation targets and updates the camera aspect.
	// The next tick starts a new accumulation.
	//
	// Parameters:
	//   - width, height: the viewport size in pixels
	//
	// Returns:
	//   - error: an error wrapping accumulation.ErrAllocation or ErrInvalidSize
	Resize(width, height int) error

	// ApplyEdit mutates the scene. An effective edit restarts accumulation on the next tick.
	//
	// Parameters:
	//   - cmd: the edit to apply
	//
	// Returns:
	//   - bool: true if the scene changed
	//   - error: an error if the edit was rejected
	ApplyEdit(cmd scene.EditCommand) (bool, error)

	// Latch returns the input latch that window callbacks write into.
	//
	// Returns:
	//   - *InputLatch: the input latch
	Latch() *InputLatch

	// Rig returns the camera rig.
	//
	// Returns:
	//   - camera.Rig: the camera
	Rig() camera.Rig

	// Scene returns the scene.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// Stats returns the running totals.
	//
	// Returns:
	//   - Stats: the totals
	Stats() Stats

	// Release frees the accumulation targets.
	Release()
}

var _ Driver = &driverImpl{}

// NewDriver creates a Driver over an accumulation buffer and a shader pass.
// Camera, scene, encoder and input latch default to fresh instances and can be replaced with options.
//
// Parameters:
//   - buffer: the accumulation buffer, already allocated for the viewport
//   - shader: the pass that renders a sample
//   - options: functional options to configure the driver
//
// Returns:
//   - Driver: the new driver
func NewDriver(buffer accumulation.Buffer, shader ShaderPass, options ...DriverBuilderOption) Driver {
	d := &driverImpl{
		mu:     &sync.Mutex{},
		shader: shader,
		state: RendererState{
			Buffer: buffer,
		},
	}

	for _, opt := range options {
		opt(d)
	}

	if d.state.Rig == nil {
		d.state.Rig = camera.NewRig()
	}
	if d.state.Scene == nil {
		d.state.Scene = scene.NewDefaultScene()
	}
	if d.state.Encoder == nil {
		d.state.Encoder = encoder.NewEncoder()
	}
	if d.state.Latch == nil {
		d.state.Latch = NewInputLatch()
	}

	if w, h := buffer.Size(); h > 0 {
		d.state.Rig.SetAspect(float32(w) / float32(h))
	}
	d.state.lastRevision = d.state.Scene.Revision()
	return d
}

func (d *driverImpl) Tick(dt float32) (TickResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := &d.state
	var res TickResult

	intents, look := s.Latch.Snapshot()
	camState, camChanged := s.Rig.Update(intents, look, dt)
	res.Camera = camState
	res.CameraChanged = camChanged

	if rev := s.Scene.Revision(); rev != s.lastRevision {
		res.SceneChanged = true
		s.lastRevision = rev
	}

	if res.CameraChanged || res.SceneChanged {
		s.Buffer.Invalidate()
		res.Invalidated = true
		if res.CameraChanged {
			d.stats.CameraInvalidations++
		}
		if res.SceneChanged {
			d.stats.SceneInvalidations++
			logger.Debugf("scene revision %d, restarting accumulation", s.lastRevision)
		}
	} else if s.Buffer.State() == accumulation.StateJustInvalidated {
		res.Invalidated = true
	}

	enc := s.Encoder.Encode(s.Scene)
	res.Truncated = enc.Truncated()

	u := Uniforms{
		Camera:       camState,
		Direction:    camState.Direction(),
		Aspect:       s.Rig.Aspect(),
		Scene:        enc,
		FloorPattern: enc.FloorPattern,
		History:      s.Buffer.BeginFrame(),
		SampleIndex:  s.Buffer.SampleIndex(),
	}

	write := s.Buffer.WriteTarget()
	if err := d.shader.Trace(u, write); err != nil {
		return res, fmt.Errorf("failed to trace sample %d: %w", u.SampleIndex, err)
	}
	if err := s.Buffer.EndFrame(write); err != nil {
		return res, err
	}
	if err := s.Buffer.ClearPending(); err != nil {
		return res, err
	}
	s.Buffer.Advance()

	res.SampleIndex = s.Buffer.SampleIndex()
	d.stats.Ticks++
	d.stats.SampleIndex = res.SampleIndex
	d.stats.MaxSampleIndex = max(d.stats.MaxSampleIndex, res.SampleIndex)
	return res, nil
}

func (d *driverImpl) Resize(width, height int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.state.Buffer.Resize(width, height); err != nil {
		return fmt.Errorf("failed to resize accumulation buffer: %w", err)
	}
	d.state.Rig.SetAspect(float32(width) / float32(height))
	d.stats.Resizes++
	return nil
}

func (d *driverImpl) ApplyEdit(cmd scene.EditCommand) (bool, error) {
	return d.state.Scene.ApplyEdit(cmd)
}

func (d *driverImpl) Latch() *InputLatch {
	return d.state.Latch
}

func (d *driverImpl) Rig() camera.Rig {
	return d.state.Rig
}

func (d *driverImpl) Scene() scene.Scene {
	return d.state.Scene
}

func (d *driverImpl) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

func (d *driverImpl) Release() {
	d.state.Buffer.Release()
}
