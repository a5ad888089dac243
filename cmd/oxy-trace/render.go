package main

import (
	"errors"
	"fmt"
	"image/png"
	"math"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-trace/engine"
	"github.com/Carmen-Shannon/oxy-trace/engine/accumulation"
	"github.com/Carmen-Shannon/oxy-trace/engine/camera"
	"github.com/Carmen-Shannon/oxy-trace/engine/frame"
	"github.com/Carmen-Shannon/oxy-trace/engine/software"
	"github.com/urfave/cli"
)

// Render accumulates frames on the CPU reference tracer and writes the last presented frame.
func Render(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	opts, err := parseViewerOptions(ctx)
	if err != nil {
		return err
	}
	frames := ctx.Int("frames")
	if frames <= 0 {
		return errors.New("frames must be positive")
	}

	tracerOpts := []software.TracerBuilderOption{
		software.WithMaxDepth(ctx.Int("depth")),
		software.WithSeed(ctx.Int64("seed")),
	}
	if w := ctx.Int("workers"); w > 0 {
		tracerOpts = append(tracerOpts, software.WithWorkers(w))
	}
	tracer := software.NewTracer(tracerOpts...)

	buf, err := accumulation.NewBuffer(tracer, opts.width, opts.height, opts.buffer...)
	if err != nil {
		return fmt.Errorf("allocate accumulation targets: %w", err)
	}

	driver := frame.NewDriver(buf, tracer, opts.driverOptions()...)
	eng := engine.NewEngine(driver, engine.WithFrameBudget(frames))

	script := newTurnScript(driver.Latch(), driver.Rig().DragSensitivity(), ctx.Int("turn-every"), ctx.Float64("turn-degrees"))
	eng.SetFrameCallback(func(r frame.TickResult) {
		logger.Debugf("frame %d: sample %d", eng.Frames(), r.SampleIndex)
		script.step(eng.Frames())
	})

	logger.Noticef("rendering %d frames at %dx%d", frames, opts.width, opts.height)
	start := time.Now()
	if err := eng.Run(); err != nil {
		return err
	}
	displaySessionStats(driver.Stats(), eng.Frames(), time.Since(start))

	img := tracer.LastPresented()
	if img == nil {
		return errors.New("no frame was presented")
	}
	return writePNG(ctx.String("out"), img)
}

// turnScript feeds a drag-look yaw turn into the latch every few frames.
type turnScript struct {
	latch *frame.InputLatch
	every int
	dx    float32
}

// newTurnScript converts degrees into drag pixels using the rig's own sensitivity.
func newTurnScript(latch *frame.InputLatch, sensitivity float32, every int, degrees float64) *turnScript {
	s := &turnScript{latch: latch, every: every}
	if sensitivity > 0 {
		s.dx = float32(degrees*math.Pi/180) / sensitivity
	}
	return s
}

// step runs after a frame completes; the turn is picked up by the next tick.
func (s *turnScript) step(frameCount int) {
	if s.every <= 0 || frameCount%s.every != 0 {
		return
	}
	s.latch.AddLook(camera.LookDrag, s.dx, 0)
}

func writePNG(path string, img *software.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img.RGBA()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Noticef("wrote %s", path)
	return nil
}
