package main

import (
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-trace/engine/camera"
	"github.com/Carmen-Shannon/oxy-trace/engine/encoder"
	"github.com/Carmen-Shannon/oxy-trace/engine/frame"
)

func TestFormatSessionStats(t *testing.T) {
	out := formatSessionStats(frame.Stats{
		SampleIndex:         12,
		MaxSampleIndex:      40,
		CameraInvalidations: 3,
	}, 52, 520*time.Millisecond)

	for _, want := range []string{"Metric", "Final sample index", "12", "40", "10ms", "520ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in table:\n%s", want, out)
		}
	}
}

func TestTurnScript(t *testing.T) {
	latch := frame.NewInputLatch()
	s := newTurnScript(latch, camera.DefaultDragSensitivity, 3, 9)

	s.step(1)
	if _, look := latch.Snapshot(); look.Mode != camera.LookNone {
		t.Fatalf("no turn expected on frame 1, got %+v", look)
	}

	s.step(3)
	_, look := latch.Snapshot()
	if look.Mode != camera.LookDrag {
		t.Fatalf("expected a drag turn on frame 3, got %+v", look)
	}
	// 9 degrees at 0.003 rad per pixel.
	if look.DX < 52.35 || look.DX > 52.37 {
		t.Errorf("expected ~52.36 px, got %v", look.DX)
	}
}

func TestTurnScriptUsesRigSensitivity(t *testing.T) {
	latch := frame.NewInputLatch()
	s := newTurnScript(latch, 2*camera.DefaultDragSensitivity, 1, 9)

	s.step(1)
	_, look := latch.Snapshot()
	// Twice the sensitivity halves the pixels needed for the same 9 degrees.
	if look.DX < 26.17 || look.DX > 26.19 {
		t.Errorf("expected ~26.18 px, got %v", look.DX)
	}
}

func TestStaticScriptNeverTurns(t *testing.T) {
	latch := frame.NewInputLatch()
	s := newTurnScript(latch, camera.DefaultDragSensitivity, 0, 9)
	for i := 1; i <= 10; i++ {
		s.step(i)
	}
	if _, look := latch.Snapshot(); look.Mode != camera.LookNone {
		t.Errorf("expected no look input, got %+v", look)
	}
}

func TestLimitCapacity(t *testing.T) {
	tests := []struct {
		requested   int
		want        int
		wantLowered bool
	}{
		{4, 4, false},
		{encoder.GPUSceneCapacity, encoder.GPUSceneCapacity, false},
		{12, encoder.GPUSceneCapacity, true},
	}

	for _, tt := range tests {
		opts := viewerOptions{capacity: tt.requested}
		if lowered := opts.limitCapacity(encoder.GPUSceneCapacity); lowered != tt.wantLowered {
			t.Errorf("capacity %d: lowered expected %v, got %v", tt.requested, tt.wantLowered, lowered)
		}
		if opts.capacity != tt.want {
			t.Errorf("capacity %d: expected %d, got %d", tt.requested, tt.want, opts.capacity)
		}
	}
}
