package main

import (
	"github.com/Carmen-Shannon/oxy-trace/log"
	"github.com/urfave/cli"
)

var logger = log.New("oxy-trace")

// setupLogging applies -v/-vv, then --log-level, then the per-module --quiet list.
func setupLogging(ctx *cli.Context) error {
	if ctx.GlobalBool("v") || ctx.Bool("v") {
		log.SetLevel(log.Info)
	}
	if ctx.GlobalBool("vv") || ctx.Bool("vv") {
		log.SetLevel(log.Debug)
	}

	if name := firstNonEmpty(ctx.String("log-level"), ctx.GlobalString("log-level")); name != "" {
		level, err := log.ParseLevel(name)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}

	for _, module := range append(ctx.GlobalStringSlice("quiet"), ctx.StringSlice("quiet")...) {
		log.SetModuleLevel(module, log.Warning)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
