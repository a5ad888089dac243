package main

import (
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-trace/engine"
	"github.com/Carmen-Shannon/oxy-trace/engine/accumulation"
	"github.com/Carmen-Shannon/oxy-trace/engine/encoder"
	"github.com/Carmen-Shannon/oxy-trace/engine/frame"
	"github.com/Carmen-Shannon/oxy-trace/engine/renderer"
	"github.com/Carmen-Shannon/oxy-trace/engine/window"
	"github.com/urfave/cli"
)

// View opens the interactive viewer.
func View(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	opts, err := parseViewerOptions(ctx)
	if err != nil {
		return err
	}
	requested := opts.capacity
	if opts.limitCapacity(encoder.GPUSceneCapacity) {
		logger.Warningf("capacity %d exceeds the GPU scene block, using %d", requested, opts.capacity)
	}

	win, err := window.NewWindow(
		window.WithTitle("oxy-trace"),
		window.WithSize(opts.width, opts.height),
	)
	if err != nil {
		return err
	}

	presentMode := renderer.PresentModeVSync
	if ctx.Bool("uncapped") {
		presentMode = renderer.PresentModeUncapped
	}
	r, err := renderer.NewRenderer(win,
		renderer.WithPresentMode(presentMode),
		renderer.WithForceSoftwareRenderer(ctx.Bool("force-software")),
	)
	if err != nil {
		_ = win.Close()
		return err
	}
	logger.Noticef("renderer ready (%s, %dx%d)", presentMode, win.Width(), win.Height())

	buf, err := accumulation.NewBuffer(r, win.Width(), win.Height(), opts.buffer...)
	if err != nil {
		r.Shutdown()
		_ = win.Close()
		return fmt.Errorf("allocate accumulation targets: %w", err)
	}

	driver := frame.NewDriver(buf, r, opts.driverOptions()...)
	eng := engine.NewEngine(driver,
		engine.WithWindow(win),
		engine.WithPresenter(r),
		engine.WithProfiling(ctx.Bool("profile")),
		engine.WithRenderFrameLimit(ctx.Float64("fps-limit")),
	)

	start := time.Now()
	runErr := eng.Run()
	displaySessionStats(driver.Stats(), eng.Frames(), time.Since(start))
	return runErr
}
