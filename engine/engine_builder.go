package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-trace/engine/profiler"
	"github.com/Carmen-Shannon/oxy-trace/engine/window"
)

// EngineBuilderOption configures the tick loop before Run.
type EngineBuilderOption func(*engine)

// WithProfiling turns the samples-per-second report on from the first tick.
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithWindow hands the loop to a window's message pump and routes its input
// into the driver's latch. Without a window the engine runs headless and needs
// WithFrameBudget.
//
// Parameters:
//   - w: a spawned Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithPresenter registers the surface owner. It is resized before the driver
// reallocates its targets and is shut down after the driver releases them.
//
// Parameters:
//   - p: the presenter, usually the GPU renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPresenter(p Presenter) EngineBuilderOption {
	return func(e *engine) {
		e.presenter = p
	}
}

// WithRenderFrameLimit caps ticks per second by sleeping out the rest of each
// tick. A non-positive fps leaves the loop uncapped.
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}

// WithFrameBudget stops the loop after the given number of ticks.
// 0 runs until the window closes or Quit is called.
//
// Parameters:
//   - frames: the number of ticks to run
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameBudget(frames int) EngineBuilderOption {
	return func(e *engine) {
		if frames < 0 {
			frames = 0
		}
		e.frameBudget = frames
	}
}

// WithProfileInterval replaces the profiler with one that reports every
// interval. Non-positive intervals fall back to one second.
func WithProfileInterval(interval time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = profiler.NewProfiler(interval)
	}
}
