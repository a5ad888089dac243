package bind_group_provider

import (
	"slices"
	"testing"
)

func TestBindingsAreSortedAndDeduplicated(t *testing.T) {
	p := NewBindGroupProvider("history")
	p.SetSampler(3, nil)
	p.SetBuffer(0, nil)
	p.SetSharedTextureView(2, nil)
	p.SetSharedBuffer(1, nil)
	p.SetBuffer(1, nil)

	if got := p.Bindings(); !slices.Equal(got, []int{0, 1, 2, 3}) {
		t.Errorf("expected [0 1 2 3], got %v", got)
	}
	if p.Label() != "history" {
		t.Errorf("label: got %q", p.Label())
	}
}

func TestSharedFlags(t *testing.T) {
	p := NewBindGroupProvider("present", WithSharedSampler(1, nil), WithSharedTextureView(0, nil))

	if !p.Shared(0) || !p.Shared(1) {
		t.Fatal("resources passed as options should be shared")
	}

	p.SetTextureView(0, nil)
	if p.Shared(0) {
		t.Error("an owned resource replaces the shared flag")
	}
	if !p.Shared(1) {
		t.Error("other bindings keep their flag")
	}
}

func TestReleaseClearsState(t *testing.T) {
	p := NewBindGroupProvider("uniforms", WithSharedBuffer(0, nil))
	p.SetSampler(3, nil)

	p.Release()

	if len(p.Bindings()) != 0 {
		t.Errorf("expected no bindings after release, got %v", p.Bindings())
	}
	if p.Shared(0) {
		t.Error("shared flags should be reset")
	}
	if p.BindGroup() != nil || p.BindGroupLayout() != nil {
		t.Error("bind group and layout should be dropped")
	}
}
