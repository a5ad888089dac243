package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const testFragment = `
//@oxy:include camera
//@oxy:include scene
//@oxy:group 0 0 uniform camera camera
//@oxy:group 0 1 uniform scene scene
@group(0) @binding(2) var historyTexture: texture_2d<f32>;
@group(0) @binding(3) var historySampler: sampler;
// @group(1) @binding(0) var ignored: texture_2d<f32>;
/* @fragment fn commented() {} */

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    return textureSample(historyTexture, historySampler, uv);
}
`

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantType AnnotationType
		wantNil  bool
		wantErr  bool
	}{
		{name: "plain comment", line: "// nothing here", wantNil: true},
		{name: "code", line: "let x = 1.0;", wantNil: true},
		{name: "include", line: "//@oxy:include camera", wantType: annotationTypeInclude},
		{name: "indented group", line: "   //@oxy:group 0 1 uniform scene scene", wantType: AnnotationTypeBindingGroup},
		{name: "empty", line: "//@oxy:", wantErr: true},
		{name: "unknown type", line: "//@oxy:define camera", wantErr: true},
		{name: "unknown struct", line: "//@oxy:include light", wantErr: true},
		{name: "include arity", line: "//@oxy:include camera scene", wantErr: true},
		{name: "group arity", line: "//@oxy:group 0 1 uniform scene", wantErr: true},
		{name: "bad group", line: "//@oxy:group x 1 uniform scene scene", wantErr: true},
		{name: "bad binding", line: "//@oxy:group 0 y uniform scene scene", wantErr: true},
		{name: "storage space", line: "//@oxy:group 0 1 storage scene scene", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseAnnotation(tt.line, 7)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got %+v", a)
				}
				if !strings.Contains(err.Error(), "line 7") {
					t.Errorf("error should carry the line number: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if a != nil {
					t.Errorf("expected no annotation, got %+v", a)
				}
				return
			}
			if a == nil || a.Type != tt.wantType {
				t.Fatalf("expected %q annotation, got %+v", tt.wantType, a)
			}
		})
	}
}

func TestPreProcessorExpandsAnnotations(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process(testFragment)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"struct CameraUniform",
		"struct SceneUniform",
		"@group(0) @binding(0) var<uniform> camera: CameraUniform;",
		"@group(0) @binding(1) var<uniform> scene: SceneUniform;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("processed source is missing %q", want)
		}
	}
	if strings.Contains(out, "@oxy:") {
		t.Error("annotations should be replaced")
	}

	decls := pp.Declarations()
	if len(decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(decls))
	}
	if *decls[1].Binding != 1 || decls[1].Args[1] != "scene" {
		t.Errorf("unexpected second declaration: %+v", decls[1])
	}

	// A second run starts from an empty declaration list.
	if _, err := pp.Process("//@oxy:group 2 0 uniform camera camera"); err != nil {
		t.Fatal(err)
	}
	if got := len(pp.Declarations()); got != 1 {
		t.Errorf("expected declarations to reset, got %d", got)
	}

	if _, err := pp.Process("//@oxy:group 0 0 uniform camera camera\n//@oxy:group 0 0 uniform scene scene"); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected a duplicate slot error on line 2, got %v", err)
	}
}

func TestStructSizes(t *testing.T) {
	sizes := NewPreProcessor().StructSizes()
	if sizes["CameraUniform"] != 32 {
		t.Errorf("CameraUniform: expected 32 bytes, got %d", sizes["CameraUniform"])
	}
	if sizes["SceneUniform"] == 0 || sizes["SceneUniform"]%16 != 0 {
		t.Errorf("SceneUniform size must be a non-zero multiple of 16, got %d", sizes["SceneUniform"])
	}
}

func TestNewShaderFragment(t *testing.T) {
	s, err := NewShader("trace.fs", ShaderTypeFragment, testFragment)
	if err != nil {
		t.Fatal(err)
	}

	if s.EntryPoint() != "fs_main" {
		t.Errorf("entry point: expected fs_main, got %q", s.EntryPoint())
	}
	if s.Module() == nil || s.Module().Label != "trace.fs" {
		t.Error("expected a labelled shader module")
	}

	layouts := s.BindGroupLayoutDescriptors()
	if len(layouts) != 1 {
		t.Fatalf("expected only group 0 (commented group 1 ignored), got %d groups", len(layouts))
	}
	entries := layouts[0].Entries
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	sizes := NewPreProcessor().StructSizes()
	for i, e := range entries {
		if e.Binding != uint32(i) {
			t.Errorf("entries must be sorted by binding: index %d has binding %d", i, e.Binding)
		}
		if e.Visibility != wgpu.ShaderStageFragment {
			t.Errorf("binding %d: expected fragment visibility", e.Binding)
		}
	}
	if entries[0].Buffer.Type != wgpu.BufferBindingTypeUniform || entries[0].Buffer.MinBindingSize != sizes["CameraUniform"] {
		t.Errorf("binding 0: unexpected buffer layout %+v", entries[0].Buffer)
	}
	if entries[1].Buffer.MinBindingSize != sizes["SceneUniform"] {
		t.Errorf("binding 1: expected min size %d, got %d", sizes["SceneUniform"], entries[1].Buffer.MinBindingSize)
	}
	if entries[2].Texture.SampleType != wgpu.TextureSampleTypeFloat || entries[2].Texture.ViewDimension != wgpu.TextureViewDimension2D {
		t.Errorf("binding 2: unexpected texture layout %+v", entries[2].Texture)
	}
	if entries[3].Sampler.Type != wgpu.SamplerBindingTypeFiltering {
		t.Errorf("binding 3: unexpected sampler layout %+v", entries[3].Sampler)
	}

	if got := s.BindGroupVarName(0, 2); got != "historyTexture" {
		t.Errorf("var name: expected historyTexture, got %q", got)
	}
	if got := s.BindGroupVarName(3, 0); got != "" {
		t.Errorf("missing binding should have no name, got %q", got)
	}
}

func TestNewShaderMissingEntryPoint(t *testing.T) {
	_, err := NewShader("trace.vs", ShaderTypeVertex, testFragment)
	if !errors.Is(err, ErrNoEntryPoint) {
		t.Errorf("expected ErrNoEntryPoint, got %v", err)
	}
}

func TestNewShaderBadAnnotation(t *testing.T) {
	_, err := NewShader("broken", ShaderTypeFragment, "//@oxy:include nope\n@fragment fn main() {}")
	if err == nil {
		t.Fatal("expected a pre-processing error")
	}
}

func TestStripComments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"line", "a // b\nc", "a \nc"},
		{"block", "a /* b */ c", "a  c"},
		{"nested block", "a /* b /* c */ d */ e", "a  e"},
		{"trailing line", "x // y", "x "},
		{"none", "fn main() {}", "fn main() {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripComments(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
