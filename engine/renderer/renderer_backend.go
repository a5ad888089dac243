package renderer

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping the tick
	// rate to the monitor's refresh rate. This is the default.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// Samples accumulate as fast as the GPU allows, at the cost of tearing.
	PresentModeUncapped
)

// String returns the mode name used in logs and flags.
func (m PresentMode) String() string {
	switch m {
	case PresentModeUncapped:
		return "uncapped"
	default:
		return "vsync"
	}
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
