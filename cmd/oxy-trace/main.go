package main

import (
	"os"

	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "oxy-trace"
	app.Usage = "progressively ray trace a small scene with a first-person camera"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "log threshold: debug, info, notice, warning or error (overrides -v/-vv)",
		},
		cli.StringSliceFlag{
			Name:  "quiet",
			Usage: "limit a module (renderer, frame, profiler, ...) to warnings; repeatable",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "view",
			Usage: "open an interactive viewer window",
			Description: `
Open a window and accumulate samples until the camera or the scene changes.

Controls: W/S/A/D move, Q/E move down/up, drag with the left button to look,
click to capture the cursor, Escape to release it (twice to quit), F toggles
the checkered floor.`,
			Flags:  append(commonFlags(), viewFlags()...),
			Action: View,
		},
		{
			Name:  "render",
			Usage: "accumulate frames on the CPU reference tracer and write a PNG",
			Description: `
Run a fixed number of frames without a window. The camera can follow a scripted
turn so that accumulation restarts at regular intervals.`,
			Flags:  append(commonFlags(), renderFlags()...),
			Action: Render,
		},
	}
	app.Action = View
	app.Flags = append(app.Flags, append(commonFlags(), viewFlags()...)...)

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: 1280,
			Usage: "viewport width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 720,
			Usage: "viewport height",
		},
		cli.Float64Flag{
			Name:  "supersample",
			Value: 0,
			Usage: "accumulation resolution multiplier for both slots (0 keeps slot A at 2x and slot B at 1x)",
		},
		cli.Float64Flag{
			Name:  "epsilon",
			Value: 0,
			Usage: "camera change tolerance; 0 restarts accumulation on any movement",
		},
		cli.IntFlag{
			Name:  "capacity",
			Value: 8,
			Usage: "primitive slots per kind",
		},
		cli.Float64Flag{
			Name:  "move-speed",
			Value: 0.01,
			Usage: "camera step per frame",
		},
	}
}

func viewFlags() []cli.Flag {
	return []cli.Flag{
		cli.BoolFlag{
			Name:  "uncapped",
			Usage: "present without vsync",
		},
		cli.BoolFlag{
			Name:  "force-software",
			Usage: "request the fallback WebGPU adapter",
		},
		cli.Float64Flag{
			Name:  "fps-limit",
			Value: 0,
			Usage: "cap the frame rate (0 = uncapped)",
		},
		cli.BoolFlag{
			Name:  "profile",
			Usage: "log frame rate and memory statistics every second",
		},
		cli.BoolFlag{
			Name:  "frame-rate-independent",
			Usage: "scale camera movement by frame time",
		},
	}
}

func renderFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "frames, n",
			Value: 64,
			Usage: "number of frames to accumulate",
		},
		cli.StringFlag{
			Name:  "out, o",
			Value: "frame.png",
			Usage: "image filename for the final frame",
		},
		cli.IntFlag{
			Name:  "workers",
			Value: 0,
			Usage: "tracer worker count (0 = number of CPUs)",
		},
		cli.IntFlag{
			Name:  "depth",
			Value: 4,
			Usage: "bounces per path",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: 1,
			Usage: "random seed",
		},
		cli.IntFlag{
			Name:  "turn-every",
			Value: 0,
			Usage: "turn the camera every N frames (0 = static camera)",
		},
		cli.Float64Flag{
			Name:  "turn-degrees",
			Value: 5,
			Usage: "yaw change per scripted turn",
		},
	}
}
