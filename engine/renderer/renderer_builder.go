package renderer

// RendererBuilderOption is applied before the GPU backend is created, so it can
// only affect adapter and surface selection.
type RendererBuilderOption func(*renderer)

// WithPresentMode picks between Fifo (VSync) and Immediate (Uncapped)
// presentation. Uncapped lets accumulation run as fast as the GPU allows.
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithForceSoftwareRenderer asks the instance for its fallback adapter, which
// is how the viewer runs on machines without a usable GPU.
//
// Parameters:
//   - force: true to request the fallback adapter
//
// Returns:
//   - RendererBuilderOption: the option
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithBackendType selects the GPU backend. BackendTypeWGPU is the only one.
func WithBackendType(backendType RendererBackendType) RendererBuilderOption {
	return func(r *renderer) {
		r.backendType = backendType
	}
}
