package main

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-trace/engine/accumulation"
	"github.com/Carmen-Shannon/oxy-trace/engine/camera"
	"github.com/Carmen-Shannon/oxy-trace/engine/encoder"
	"github.com/Carmen-Shannon/oxy-trace/engine/frame"
	"github.com/urfave/cli"
)

// viewerOptions are the flags shared by both commands, translated into constructor options.
type viewerOptions struct {
	width, height int
	buffer        []accumulation.BufferBuilderOption
	rig           []camera.RigBuilderOption
	capacity      int
}

func parseViewerOptions(ctx *cli.Context) (viewerOptions, error) {
	opts := viewerOptions{
		width:    ctx.Int("width"),
		height:   ctx.Int("height"),
		capacity: ctx.Int("capacity"),
	}
	if opts.width <= 0 || opts.height <= 0 {
		return opts, fmt.Errorf("invalid viewport %dx%d", opts.width, opts.height)
	}
	if opts.capacity <= 0 {
		return opts, errors.New("capacity must be positive")
	}

	if s := ctx.Float64("supersample"); s > 0 {
		opts.buffer = append(opts.buffer, accumulation.WithSupersample(float32(s)))
	}

	opts.rig = append(opts.rig,
		camera.WithChangeEpsilon(float32(ctx.Float64("epsilon"))),
		camera.WithMoveSpeed(float32(ctx.Float64("move-speed"))),
	)
	if ctx.Bool("frame-rate-independent") {
		opts.rig = append(opts.rig, camera.WithFrameRateIndependentMovement())
	}
	return opts, nil
}

// limitCapacity caps the encoder capacity at what the GPU scene block holds so
// the encoder reports anything beyond it as dropped.
//
// Parameters:
//   - limit: the largest usable capacity
//
// Returns:
//   - bool: true if the requested capacity was lowered
func (o *viewerOptions) limitCapacity(limit int) bool {
	if o.capacity <= limit {
		return false
	}
	o.capacity = limit
	return true
}

// driverOptions builds the driver's rig and encoder from the parsed flags.
func (o viewerOptions) driverOptions() []frame.DriverBuilderOption {
	return []frame.DriverBuilderOption{
		frame.WithRig(camera.NewRig(o.rig...)),
		frame.WithEncoder(encoder.NewEncoder(encoder.WithCapacity(o.capacity))),
	}
}
