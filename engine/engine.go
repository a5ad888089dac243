// Package engine runs the viewer's cooperative main loop: window events, one driver tick per frame,
// resize fan-out, profiling and shutdown.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-trace/engine/frame"
	"github.com/Carmen-Shannon/oxy-trace/engine/profiler"
	"github.com/Carmen-Shannon/oxy-trace/engine/scene"
	"github.com/Carmen-Shannon/oxy-trace/engine/window"
	"github.com/Carmen-Shannon/oxy-trace/log"
)

var logger = log.New("engine")

// ErrNoFrameSource is returned by Run when there is neither a window nor a frame budget to stop the loop.
var ErrNoFrameSource = errors.New("engine: no window and no frame budget")

// Presenter is the surface side of the renderer: it follows window resizes and is shut down last.
type Presenter interface {
	Resize(width, height int) error
	Shutdown()
}

// engine implements the Engine interface.
type engine struct {
	mu *sync.Mutex

	driver    frame.Driver
	window    window.Window
	presenter Presenter
	router    *inputRouter

	profiler         *profiler.Profiler
	profilingEnabled bool

	frameCallback    func(result frame.TickResult)
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	frameBudget      int           // stop after this many frames; 0 = until the window closes

	frames   int
	err      error
	quit     bool
	quitOnce sync.Once
}

// Engine is the main entry point for the viewer.
// It drives one frame.Driver tick per loop iteration and owns shutdown.
type Engine interface {
	// Window returns the underlying window, or nil when running headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Driver returns the frame driver.
	//
	// Returns:
	//   - frame.Driver: the driver
	Driver() frame.Driver

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetFrameCallback registers a function called after every successful tick.
	//
	// Parameters:
	//   - callback: function receiving the tick result
	SetFrameCallback(callback func(result frame.TickResult))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Frames returns the number of ticks completed so far.
	//
	// Returns:
	//   - int: the tick count
	Frames() int

	// Run starts the main loop and blocks until the window closes, the frame budget is spent, Quit is
	// called, or a tick fails. The driver and presenter are released before Run returns.
	//
	// Returns:
	//   - error: the first tick or resize error, or ErrNoFrameSource
	Run() error

	// Quit stops the loop after the current frame. Safe to call multiple times.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine around a frame driver.
// Options are applied directly to the engine struct via the option-builder pattern.
// When a window is set, its resize, key, mouse and focus callbacks are wired to the driver.
//
// Parameters:
//   - driver: the frame driver ticked once per frame
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(driver frame.Driver, options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:       &sync.Mutex{},
		driver:   driver,
		profiler: profiler.NewProfiler(time.Second),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.router = newInputRouter(driver.Latch(), e.window, e.applyEdit, e.Quit)
		e.router.attach(e.window)
		e.window.SetResizeCallback(e.resize)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Driver() frame.Driver {
	return e.driver
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetFrameCallback(callback func(result frame.TickResult)) {
	e.frameCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Frames() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

func (e *engine) Run() error {
	defer e.shutdown()

	if e.window == nil {
		if e.frameBudget <= 0 {
			return ErrNoFrameSource
		}
		last := time.Now()
		for !e.stopped() {
			e.frame(&last)
		}
		return e.fatal()
	}

	last := time.Now()
	e.window.SetUpdateCallback(func() {
		e.frame(&last)
		if e.stopped() {
			e.window.RequestClose()
		}
	})
	e.window.ProcessMessages()
	return e.fatal()
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.quit = true
		e.mu.Unlock()
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

// frame runs one loop iteration: tick, callbacks, profiling and the optional frame cap.
func (e *engine) frame(last *time.Time) {
	start := time.Now()
	dt := float32(start.Sub(*last).Seconds())
	*last = start

	result, err := e.driver.Tick(dt)
	if err != nil {
		e.fail(fmt.Errorf("tick: %w", err))
		return
	}

	e.mu.Lock()
	e.frames++
	if e.frameBudget > 0 && e.frames >= e.frameBudget {
		e.quit = true
	}
	e.mu.Unlock()

	if result.Invalidated {
		logger.Debugf("accumulation restarted (camera=%v scene=%v)", result.CameraChanged, result.SceneChanged)
	}
	if e.frameCallback != nil {
		e.frameCallback(result)
	}
	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick(result.SampleIndex)
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// resize fans a framebuffer resize out to the presenter and the driver.
// A minimised window reports 0x0, which is skipped until it is restored.
func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if e.presenter != nil {
		if err := e.presenter.Resize(width, height); err != nil {
			e.fail(fmt.Errorf("resize surface to %dx%d: %w", width, height, err))
			return
		}
	}
	if err := e.driver.Resize(width, height); err != nil {
		e.fail(fmt.Errorf("resize accumulation to %dx%d: %w", width, height, err))
		return
	}
	logger.Infof("resized to %dx%d", width, height)
}

func (e *engine) applyEdit(cmd scene.EditCommand) {
	if _, err := e.driver.ApplyEdit(cmd); err != nil {
		logger.Warningf("edit rejected: %v", err)
	}
}

// fail records the first fatal error and stops the loop.
func (e *engine) fail(err error) {
	logger.Error(err)
	e.mu.Lock()
	if e.err == nil {
		e.err = err
	}
	e.mu.Unlock()
	e.Quit()
}

func (e *engine) stopped() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quit
}

func (e *engine) fatal() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// shutdown releases the accumulation targets before the device that owns them, then the window.
func (e *engine) shutdown() {
	e.driver.Release()
	if e.presenter != nil {
		e.presenter.Shutdown()
	}
	if e.window != nil {
		if err := e.window.Close(); err != nil {
			logger.Warningf("close window: %v", err)
		}
	}
	logger.Noticef("stopped after %d frames", e.Frames())
}
