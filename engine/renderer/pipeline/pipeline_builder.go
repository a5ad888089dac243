package pipeline

import (
	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption configures a fullscreen pass pipeline before it is registered.
type PipelineBuilderOption func(*pipeline)

// WithShaders attaches the vertex and fragment stages. Every pass here shares the
// fullscreen triangle vertex stage and differs only in its fragment stage.
// A nil stage leaves that slot empty.
//
// Parameters:
//   - vertex: the vertex stage
//   - fragment: the fragment stage
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithShaders(vertex, fragment shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		if vertex != nil {
			p.vertexShader = vertex
		}
		if fragment != nil {
			p.fragmentShader = fragment
		}
	}
}

// WithTargetFormat overrides the colour attachment format. Trace passes keep the
// RGBA16Float default; the present pass writes the surface format.
func WithTargetFormat(format wgpu.TextureFormat) PipelineBuilderOption {
	return func(p *pipeline) {
		p.targetFormat = format
	}
}

// WithCullMode overrides the default of no culling.
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithWriteMask restricts which channels the pass writes.
func WithWriteMask(writeMask wgpu.ColorWriteMask) PipelineBuilderOption {
	return func(p *pipeline) {
		p.writeMask = writeMask
	}
}
