package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("trace")

	if p.PipelineKey() != "trace" {
		t.Errorf("key: expected trace, got %q", p.PipelineKey())
	}
	if p.TargetFormat() != wgpu.TextureFormatRGBA16Float {
		t.Errorf("target format: expected RGBA16Float, got %v", p.TargetFormat())
	}
	if p.CullMode() != wgpu.CullModeNone {
		t.Errorf("cull mode: expected none for a fullscreen triangle, got %v", p.CullMode())
	}
	if p.Topology() != wgpu.PrimitiveTopologyTriangleList {
		t.Errorf("topology: got %v", p.Topology())
	}
	if p.WriteMask() != wgpu.ColorWriteMaskAll {
		t.Errorf("write mask: got %v", p.WriteMask())
	}
	if p.RenderPipeline() != nil || p.BindGroupLayout(0) != nil {
		t.Error("an unregistered pipeline has no GPU objects")
	}
}

func TestPipelineOptions(t *testing.T) {
	vs, err := shader.NewShader("vs", shader.ShaderTypeVertex, "@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(); }")
	if err != nil {
		t.Fatal(err)
	}

	p := NewPipeline("present",
		WithShaders(vs, nil),
		WithTargetFormat(wgpu.TextureFormatBGRA8UnormSrgb),
		WithCullMode(wgpu.CullModeBack),
		WithWriteMask(wgpu.ColorWriteMaskRed),
	)

	if p.Shader(shader.ShaderTypeVertex) != vs {
		t.Error("vertex shader not set")
	}
	if p.Shader(shader.ShaderTypeFragment) != nil {
		t.Error("fragment shader should be unset")
	}
	if p.TargetFormat() != wgpu.TextureFormatBGRA8UnormSrgb {
		t.Errorf("target format: got %v", p.TargetFormat())
	}
	if p.CullMode() != wgpu.CullModeBack || p.WriteMask() != wgpu.ColorWriteMaskRed {
		t.Error("cull mode or write mask not applied")
	}
	if p.BindGroupLayout(-1) != nil || p.BindGroupLayout(5) != nil {
		t.Error("out of range groups must return nil")
	}
}
