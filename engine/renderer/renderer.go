// Package renderer is the WebGPU side of the viewer. It owns the two accumulation textures,
// runs the trace pass into the write slot while sampling the read slot, and presents the
// freshly written slot to the window surface.
package renderer

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-trace/common"
	"github.com/Carmen-Shannon/oxy-trace/engine/accumulation"
	"github.com/Carmen-Shannon/oxy-trace/engine/camera"
	"github.com/Carmen-Shannon/oxy-trace/engine/encoder"
	"github.com/Carmen-Shannon/oxy-trace/engine/frame"
	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-trace/log"
	"github.com/cogentcore/webgpu/wgpu"
)

var logger = log.New("renderer")

var (
	// ErrNoAdapter is returned when no GPU adapter compatible with the window surface exists.
	ErrNoAdapter = errors.New("no compatible GPU adapter")

	// ErrForeignTarget is returned when a target not allocated by this renderer is passed back to it.
	ErrForeignTarget = errors.New("target was not allocated by this renderer")

	// ErrReleased is returned by every operation after Shutdown.
	ErrReleased = errors.New("renderer has been released")
)

//go:embed assets/fullscreen.wgsl
var fullscreenSource string

//go:embed assets/trace.wgsl
var traceSource string

//go:embed assets/present.wgsl
var presentSource string

// AccumulationFormat is the texel format of both accumulation slots.
const AccumulationFormat = wgpu.TextureFormatRGBA16Float

const (
	tracePipelineKey   = "trace"
	presentPipelineKey = "present"
)

// Trace group bindings.
const (
	bindingCamera         = 0
	bindingScene          = 1
	bindingHistory        = 2
	bindingHistorySampler = 3
)

// Present group bindings.
const (
	bindingFrame        = 0
	bindingFrameSampler = 1
)

// Surface is the window the renderer presents into.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// gpuTarget is one accumulation slot.
type gpuTarget struct {
	owner         *renderer
	label         string
	width, height int
	texture       *wgpu.Texture
	view          *wgpu.TextureView

	// history binds this slot as the history input of the trace pass.
	history bind_group_provider.BindGroupProvider
	// present binds this slot as the input of the present pass.
	present bind_group_provider.BindGroupProvider
}

func (t *gpuTarget) Size() (int, int) {
	return t.width, t.height
}

type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	pipelines   map[string]pipeline.Pipeline
	layouts     map[string]wgpu.BindGroupLayoutDescriptor

	// uniforms owns the camera and scene buffers and the accumulation sampler.
	uniforms bind_group_provider.BindGroupProvider

	allocated uint64
	presented uint64
	released  bool

	// overflow is the last GPU capacity overflow that was logged.
	overflow int

	forceFallbackAdapter bool
	presentMode          PresentMode
}

// Renderer draws accumulation samples on the GPU and presents them to a window.
type Renderer interface {
	accumulation.TargetAllocator
	frame.ShaderPass

	// Resize reconfigures the swapchain for a new framebuffer size.
	// Accumulation slots are resized separately through the accumulation buffer.
	//
	// Parameters:
	//   - width, height: the framebuffer size in pixels
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	Resize(width, height int) error

	// SetPresentMode changes the present mode and reconfigures the swapchain.
	//
	// Parameters:
	//   - mode: VSync or Uncapped
	//   - width, height: the current framebuffer size
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	SetPresentMode(mode PresentMode, width, height int) error

	// Pipeline returns a registered pipeline by key, nil if unknown.
	Pipeline(key string) pipeline.Pipeline

	// Presented returns the number of successful presents.
	Presented() uint64

	// Shutdown frees the pipelines, shared uniforms and GPU device. Targets must be released first.
	Shutdown()
}

var (
	_ Renderer                     = &renderer{}
	_ accumulation.Target          = &gpuTarget{}
	_ accumulation.TargetAllocator = &renderer{}
)

// NewRenderer creates the GPU device for the surface, configures the swapchain and builds the
// trace and present pipelines.
//
// Parameters:
//   - surface: the window to present into
//   - options: variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the renderer
//   - error: ErrNoAdapter if no GPU is usable, or a pipeline creation error
func NewRenderer(surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: BackendTypeWGPU,
		pipelines:   make(map[string]pipeline.Pipeline),
		layouts:     make(map[string]wgpu.BindGroupLayoutDescriptor),
		presentMode: PresentModeVSync,
	}
	for _, opt := range options {
		opt(r)
	}

	var err error
	switch r.backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter)
	}
	if err != nil {
		return nil, err
	}

	r.backend.SetPresentMode(r.presentMode)
	if err := r.backend.ConfigureSurface(surface.Width(), surface.Height()); err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("failed to configure surface: %w", err)
	}

	if err := r.initPipelines(); err != nil {
		r.Shutdown()
		return nil, err
	}
	if err := r.initUniforms(); err != nil {
		r.Shutdown()
		return nil, err
	}

	logger.Infof("renderer ready: surface %dx%d format %v present mode %s",
		surface.Width(), surface.Height(), r.backend.SurfaceFormat(), r.presentMode)
	return r, nil
}

func (r *renderer) initPipelines() error {
	vertex, err := shader.NewShader("fullscreen.vs", shader.ShaderTypeVertex, fullscreenSource)
	if err != nil {
		return err
	}
	traceFragment, err := shader.NewShader("trace.fs", shader.ShaderTypeFragment, fullscreenSource+"\n"+traceSource)
	if err != nil {
		return err
	}
	presentFragment, err := shader.NewShader("present.fs", shader.ShaderTypeFragment, fullscreenSource+"\n"+presentSource)
	if err != nil {
		return err
	}

	pipelines := []pipeline.Pipeline{
		pipeline.NewPipeline(tracePipelineKey,
			pipeline.WithShaders(vertex, traceFragment),
			pipeline.WithTargetFormat(AccumulationFormat),
		),
		pipeline.NewPipeline(presentPipelineKey,
			pipeline.WithShaders(vertex, presentFragment),
			pipeline.WithTargetFormat(r.backend.SurfaceFormat()),
		),
	}
	for _, p := range pipelines {
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("failed to register %s pipeline: %w", p.PipelineKey(), err)
		}
		r.pipelines[p.PipelineKey()] = p
		r.layouts[p.PipelineKey()] = mergeBindGroupLayouts(
			p.Shader(shader.ShaderTypeVertex).BindGroupLayoutDescriptors(),
			p.Shader(shader.ShaderTypeFragment).BindGroupLayoutDescriptors(),
		)[0]
	}
	return nil
}

func (r *renderer) initUniforms() error {
	r.uniforms = bind_group_provider.NewBindGroupProvider("Frame Uniforms")
	if err := r.backend.InitUniformBuffers(r.uniforms, r.layouts[tracePipelineKey]); err != nil {
		return fmt.Errorf("failed to create uniform buffers: %w", err)
	}
	if err := r.backend.InitSampler(r.uniforms, bindingHistorySampler, common.AccumulationSampler); err != nil {
		return fmt.Errorf("failed to create accumulation sampler: %w", err)
	}
	return nil
}

func (r *renderer) Allocate(width, height int) (accumulation.Target, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return nil, ErrReleased
	}

	r.allocated++
	t := &gpuTarget{
		owner:  r,
		label:  fmt.Sprintf("Accumulation %d", r.allocated),
		width:  width,
		height: height,
	}

	var err error
	t.texture, t.view, err = r.backend.CreateRenderTarget(t.label, width, height, AccumulationFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to create %dx%d accumulation texture: %w", width, height, err)
	}

	sampler := r.uniforms.Sampler(bindingHistorySampler)
	t.history = bind_group_provider.NewBindGroupProvider(t.label+" History",
		bind_group_provider.WithBindGroupLayout(r.pipelines[tracePipelineKey].BindGroupLayout(0)),
		bind_group_provider.WithSharedBuffer(bindingCamera, r.uniforms.Buffer(bindingCamera)),
		bind_group_provider.WithSharedBuffer(bindingScene, r.uniforms.Buffer(bindingScene)),
		bind_group_provider.WithSharedTextureView(bindingHistory, t.view),
		bind_group_provider.WithSharedSampler(bindingHistorySampler, sampler),
	)
	t.present = bind_group_provider.NewBindGroupProvider(t.label+" Present",
		bind_group_provider.WithBindGroupLayout(r.pipelines[presentPipelineKey].BindGroupLayout(0)),
		bind_group_provider.WithSharedTextureView(bindingFrame, t.view),
		bind_group_provider.WithSharedSampler(bindingFrameSampler, sampler),
	)

	if err := r.backend.InitBindGroup(t.history, r.layouts[tracePipelineKey]); err != nil {
		r.releaseTarget(t)
		return nil, fmt.Errorf("failed to bind %s as history: %w", t.label, err)
	}
	if err := r.backend.InitBindGroup(t.present, r.layouts[presentPipelineKey]); err != nil {
		r.releaseTarget(t)
		return nil, fmt.Errorf("failed to bind %s for present: %w", t.label, err)
	}

	logger.Debugf("allocated %s (%dx%d)", t.label, width, height)
	return t, nil
}

func (r *renderer) Clear(target accumulation.Target) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.own(target)
	if err != nil {
		return err
	}
	return r.backend.DrawFullscreen(t.view, nil, nil)
}

func (r *renderer) Present(target accumulation.Target) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.own(target)
	if err != nil {
		return err
	}
	if err := r.backend.PresentFullscreen(r.pipelines[presentPipelineKey], t.present); err != nil {
		return err
	}
	r.presented++
	return nil
}

func (r *renderer) Release(target accumulation.Target) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := target.(*gpuTarget)
	if !ok || t.owner != r {
		return
	}
	r.releaseTarget(t)
}

func (r *renderer) Trace(u frame.Uniforms, target accumulation.Target) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.own(target)
	if err != nil {
		return err
	}
	history, err := r.own(u.History)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if history == t {
		return errors.New("history and write target must differ")
	}

	if n := encoder.GPUOverflow(u.Scene); n != r.overflow {
		r.overflow = n
		if n > 0 {
			logger.Warningf("%d primitives exceed the %d slots per kind the trace shader holds and are not drawn", n, encoder.GPUSceneCapacity)
		}
	}

	cam := camera.NewGPUCameraUniform(u.Camera, u.Aspect)
	scn := encoder.NewGPUSceneUniform(u.Scene, u.SampleIndex)
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: r.uniforms, Binding: bindingCamera, Data: cam.Marshal()},
		{Provider: r.uniforms, Binding: bindingScene, Data: scn.Marshal()},
	})

	return r.backend.DrawFullscreen(t.view, r.pipelines[tracePipelineKey], history.history)
}

func (r *renderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrReleased
	}
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode, width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrReleased
	}
	r.presentMode = mode
	r.backend.SetPresentMode(mode)
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelines[key]
}

func (r *renderer) Presented() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.presented
}

func (r *renderer) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return
	}
	r.released = true

	if r.uniforms != nil {
		r.uniforms.Release()
	}
	for _, p := range r.pipelines {
		p.Release()
	}
	r.backend.Release()
}

// own checks that target is a live slot allocated by r. Callers hold r.mu.
func (r *renderer) own(target accumulation.Target) (*gpuTarget, error) {
	if r.released {
		return nil, ErrReleased
	}
	t, ok := target.(*gpuTarget)
	if !ok || t == nil || t.owner != r {
		return nil, ErrForeignTarget
	}
	if t.view == nil {
		return nil, accumulation.ErrReleased
	}
	return t, nil
}

// releaseTarget frees a slot's bind groups and texture. Callers hold r.mu.
func (r *renderer) releaseTarget(t *gpuTarget) {
	if t.history != nil {
		t.history.Release()
		t.history = nil
	}
	if t.present != nil {
		t.present.Release()
		t.present = nil
	}
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
	logger.Debugf("released %s", t.label)
}
