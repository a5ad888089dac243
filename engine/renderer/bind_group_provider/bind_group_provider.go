// Package bind_group_provider holds the GPU resources behind a single bind group and tracks which
// of them the provider owns, so that shared uniforms and samplers outlive per-target groups.
package bind_group_provider

import (
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
)

type bindGroupProvider struct {
	label string

	bindGroup *wgpu.BindGroup

	// bindGroupLayout belongs to the pipeline that declared it and is never released here.
	bindGroupLayout *wgpu.BindGroupLayout

	buffers      map[int]*wgpu.Buffer
	textureViews map[int]*wgpu.TextureView
	samplers     map[int]*wgpu.Sampler

	// shared records bindings whose resource is owned elsewhere.
	shared map[int]bool
}

// BindGroupProvider stores the buffers, texture views and samplers bound at each binding of one
// bind group, together with the GPU bind group created from them.
type BindGroupProvider interface {
	// Release frees the bind group and every owned resource. Shared resources are left alone.
	Release()

	// Label returns the debug label used for GPU objects created for this provider.
	Label() string

	BindGroup() *wgpu.BindGroup
	BindGroupLayout() *wgpu.BindGroupLayout
	Buffer(binding int) *wgpu.Buffer
	TextureView(binding int) *wgpu.TextureView
	Sampler(binding int) *wgpu.Sampler

	// Shared reports whether the resource at binding is owned by another provider.
	Shared(binding int) bool

	// Bindings returns every binding index that has a resource, in ascending order.
	Bindings() []int

	// SetBindGroup replaces the bind group, releasing the previous one.
	SetBindGroup(bg *wgpu.BindGroup)

	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer stores an owned buffer.
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetTextureView stores an owned texture view.
	SetTextureView(binding int, tv *wgpu.TextureView)

	// SetSampler stores an owned sampler.
	SetSampler(binding int, s *wgpu.Sampler)

	// SetSharedBuffer stores a buffer owned elsewhere.
	SetSharedBuffer(binding int, buf *wgpu.Buffer)

	// SetSharedTextureView stores a texture view owned elsewhere.
	SetSharedTextureView(binding int, tv *wgpu.TextureView)

	// SetSharedSampler stores a sampler owned elsewhere.
	SetSharedSampler(binding int, s *wgpu.Sampler)
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider.
//
// Parameters:
//   - label: debug label for GPU objects created on behalf of this provider
//   - options: functional options applied after defaults
//
// Returns:
//   - BindGroupProvider: the provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
		shared:       make(map[int]bool),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) Shared(binding int) bool {
	return p.shared[binding]
}

func (p *bindGroupProvider) Bindings() []int {
	seen := make(map[int]bool, len(p.buffers)+len(p.textureViews)+len(p.samplers))
	for b := range p.buffers {
		seen[b] = true
	}
	for b := range p.textureViews {
		seen[b] = true
	}
	for b := range p.samplers {
		seen[b] = true
	}
	bindings := make([]int, 0, len(seen))
	for b := range seen {
		bindings = append(bindings, b)
	}
	sort.Ints(bindings)
	return bindings
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	if p.bindGroup != nil && p.bindGroup != bg {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
	delete(p.shared, binding)
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *wgpu.TextureView) {
	p.textureViews[binding] = tv
	delete(p.shared, binding)
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.samplers[binding] = s
	delete(p.shared, binding)
}

func (p *bindGroupProvider) SetSharedBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
	p.shared[binding] = true
}

func (p *bindGroupProvider) SetSharedTextureView(binding int, tv *wgpu.TextureView) {
	p.textureViews[binding] = tv
	p.shared[binding] = true
}

func (p *bindGroupProvider) SetSharedSampler(binding int, s *wgpu.Sampler) {
	p.samplers[binding] = s
	p.shared[binding] = true
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for i, tv := range p.textureViews {
		if tv != nil && !p.shared[i] {
			tv.Release()
		}
		delete(p.textureViews, i)
	}
	for i, s := range p.samplers {
		if s != nil && !p.shared[i] {
			s.Release()
		}
		delete(p.samplers, i)
	}
	for i, buf := range p.buffers {
		if buf != nil && !p.shared[i] {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	p.shared = make(map[int]bool)
	p.bindGroupLayout = nil
}
