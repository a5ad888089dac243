package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestEmbeddedShadersMatchBindings(t *testing.T) {
	vertex, err := shader.NewShader("fullscreen.vs", shader.ShaderTypeVertex, fullscreenSource)
	if err != nil {
		t.Fatal(err)
	}
	if vertex.EntryPoint() != "vs_main" {
		t.Errorf("vertex entry point: expected vs_main, got %q", vertex.EntryPoint())
	}

	trace, err := shader.NewShader("trace.fs", shader.ShaderTypeFragment, fullscreenSource+"\n"+traceSource)
	if err != nil {
		t.Fatal(err)
	}
	present, err := shader.NewShader("present.fs", shader.ShaderTypeFragment, fullscreenSource+"\n"+presentSource)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		s       shader.Shader
		binding int
		varName string
	}{
		{"trace camera", trace, bindingCamera, "camera"},
		{"trace scene", trace, bindingScene, "scene"},
		{"trace history", trace, bindingHistory, "historyTexture"},
		{"trace sampler", trace, bindingHistorySampler, "historySampler"},
		{"present frame", present, bindingFrame, "frameTexture"},
		{"present sampler", present, bindingFrameSampler, "frameSampler"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.BindGroupVarName(0, tt.binding); got != tt.varName {
				t.Errorf("binding %d: expected %q, got %q", tt.binding, tt.varName, got)
			}
		})
	}

	if n := len(trace.BindGroupLayoutDescriptors()[0].Entries); n != 4 {
		t.Errorf("trace group 0: expected 4 entries, got %d", n)
	}
	if n := len(present.BindGroupLayoutDescriptors()[0].Entries); n != 2 {
		t.Errorf("present group 0: expected 2 entries, got %d", n)
	}
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex},
		}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 2, Visibility: wgpu.ShaderStageFragment},
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
		1: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)
	if len(merged) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(merged))
	}

	g0 := merged[0].Entries
	if len(g0) != 2 || g0[0].Binding != 0 || g0[1].Binding != 2 {
		t.Fatalf("group 0: expected bindings [0 2], got %+v", g0)
	}
	if g0[0].Visibility != wgpu.ShaderStageVertex|wgpu.ShaderStageFragment {
		t.Errorf("shared binding should be visible to both stages, got %v", g0[0].Visibility)
	}
	if g0[1].Visibility != wgpu.ShaderStageFragment {
		t.Errorf("fragment-only binding changed visibility: %v", g0[1].Visibility)
	}
	if len(merged[1].Entries) != 1 {
		t.Errorf("group 1: expected 1 entry, got %d", len(merged[1].Entries))
	}
}

func TestPresentModeString(t *testing.T) {
	if PresentModeVSync.String() != "vsync" || PresentModeUncapped.String() != "uncapped" {
		t.Errorf("unexpected names: %s, %s", PresentModeVSync, PresentModeUncapped)
	}
}
