package frame

import (
	"github.com/Carmen-Shannon/oxy-trace/engine/accumulation"
	"github.com/Carmen-Shannon/oxy-trace/engine/camera"
	"github.com/Carmen-Shannon/oxy-trace/engine/encoder"
	"github.com/go-gl/mathgl/mgl32"
)

// Uniforms is everything a shader pass reads for one sample.
type Uniforms struct {
	Camera    camera.State
	Direction mgl32.Vec3
	Aspect    float32

	Scene        encoder.EncodedScene
	FloorPattern bool

	// History is the read target holding the running average of the previous SampleIndex samples.
	History     accumulation.Target
	SampleIndex uint32
}

// ShaderPass renders one sample per pixel into target.
// With SampleIndex n > 0 the result must be the running average (history*n + sample) / (n+1);
// with SampleIndex 0 the history is ignored.
type ShaderPass interface {
	Trace(u Uniforms, target accumulation.Target) error
}
