package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-trace/engine/frame"
	"github.com/olekukonko/tablewriter"
)

func displaySessionStats(stats frame.Stats, frames int, elapsed time.Duration) {
	logger.Noticef("session statistics\n%s", formatSessionStats(stats, frames, elapsed))
}

func formatSessionStats(stats frame.Stats, frames int, elapsed time.Duration) string {
	var avg time.Duration
	if frames > 0 {
		avg = elapsed / time.Duration(frames)
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.AppendBulk([][]string{
		{"Frames", fmt.Sprintf("%d", frames)},
		{"Final sample index", fmt.Sprintf("%d", stats.SampleIndex)},
		{"Longest accumulation", fmt.Sprintf("%d", stats.MaxSampleIndex)},
		{"Camera restarts", fmt.Sprintf("%d", stats.CameraInvalidations)},
		{"Scene restarts", fmt.Sprintf("%d", stats.SceneInvalidations)},
		{"Resizes", fmt.Sprintf("%d", stats.Resizes)},
		{"Average frame", avg.String()},
	})
	table.SetFooter([]string{"TOTAL", elapsed.Round(time.Millisecond).String()})
	table.Render()
	return buf.String()
}
