package window

// WindowBuilderOption configures the viewer window before it is opened.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the title bar text.
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial framebuffer size requested from the platform.
// A non-positive dimension keeps its default so an unset CLI flag is harmless.
//
// Parameters:
//   - width: initial width in pixels
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 {
			w.width = width
		}
		if height > 0 {
			w.height = height
		}
	}
}

// WithMinSize bounds how small the accumulation targets can be resized.
// Zero for either dimension removes that bound.
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width >= 0 {
			w.minWidth = width
		}
		if height >= 0 {
			w.minHeight = height
		}
	}
}
