package engine

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-trace/engine/accumulation"
	"github.com/Carmen-Shannon/oxy-trace/engine/frame"
	"github.com/Carmen-Shannon/oxy-trace/engine/software"
)

type failingPass struct {
	after int
	calls int
}

func (p *failingPass) Trace(frame.Uniforms, accumulation.Target) error {
	p.calls++
	if p.calls > p.after {
		return errors.New("device lost")
	}
	return nil
}

type fakePresenter struct {
	resizes  [][2]int
	shutdown int
	err      error
}

func (p *fakePresenter) Resize(width, height int) error {
	if p.err != nil {
		return p.err
	}
	p.resizes = append(p.resizes, [2]int{width, height})
	return nil
}

func (p *fakePresenter) Shutdown() { p.shutdown++ }

func newSoftwareDriver(t *testing.T) (frame.Driver, software.Tracer) {
	t.Helper()
	tracer := software.NewTracer(software.WithWorkers(2), software.WithSeed(7), software.WithMaxDepth(1))
	buf, err := accumulation.NewBuffer(tracer, 8, 4)
	if err != nil {
		t.Fatal(err)
	}
	return frame.NewDriver(buf, tracer), tracer
}

func TestHeadlessRunStopsAtFrameBudget(t *testing.T) {
	driver, tracer := newSoftwareDriver(t)
	presenter := &fakePresenter{}

	var samples []uint32
	e := NewEngine(driver, WithFrameBudget(5), WithPresenter(presenter))
	e.SetFrameCallback(func(r frame.TickResult) {
		samples = append(samples, r.SampleIndex)
	})

	if err := e.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if e.Frames() != 5 {
		t.Errorf("frames: expected 5, got %d", e.Frames())
	}
	want := []uint32{1, 2, 3, 4, 5}
	for i, s := range want {
		if i >= len(samples) || samples[i] != s {
			t.Fatalf("samples: expected %v, got %v", want, samples)
		}
	}
	if tracer.Presented() != 5 {
		t.Errorf("presented: expected 5, got %d", tracer.Presented())
	}
	if presenter.shutdown != 1 {
		t.Errorf("presenter shutdown: expected 1, got %d", presenter.shutdown)
	}
}

func TestHeadlessRunWithoutBudget(t *testing.T) {
	driver, _ := newSoftwareDriver(t)

	err := NewEngine(driver).Run()
	if !errors.Is(err, ErrNoFrameSource) {
		t.Errorf("expected ErrNoFrameSource, got %v", err)
	}
}

func TestRunStopsOnTickError(t *testing.T) {
	tracer := software.NewTracer()
	buf, err := accumulation.NewBuffer(tracer, 8, 4)
	if err != nil {
		t.Fatal(err)
	}
	pass := &failingPass{after: 2}
	e := NewEngine(frame.NewDriver(buf, pass), WithFrameBudget(10))

	err = e.Run()
	if err == nil {
		t.Fatal("expected the tick error to surface")
	}
	if e.Frames() != 2 {
		t.Errorf("frames: expected 2 before the failure, got %d", e.Frames())
	}
}

func TestQuitBeforeRunSkipsTheLoop(t *testing.T) {
	driver, _ := newSoftwareDriver(t)
	e := NewEngine(driver, WithFrameBudget(100))
	e.Quit()
	e.Quit()

	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if e.Frames() != 0 {
		t.Errorf("frames: expected 0 after an early quit, got %d", e.Frames())
	}
}

func TestResizeFansOut(t *testing.T) {
	driver, _ := newSoftwareDriver(t)
	presenter := &fakePresenter{}
	e := NewEngine(driver, WithPresenter(presenter), WithFrameBudget(1)).(*engine)

	e.resize(0, 0)
	if len(presenter.resizes) != 0 {
		t.Fatal("a minimised window must not resize the presenter")
	}

	e.resize(16, 8)
	if len(presenter.resizes) != 1 || presenter.resizes[0] != [2]int{16, 8} {
		t.Errorf("presenter resizes: got %v", presenter.resizes)
	}
	if driver.Stats().Resizes != 1 {
		t.Errorf("driver resizes: expected 1, got %d", driver.Stats().Resizes)
	}

	presenter.err = errors.New("surface lost")
	e.resize(32, 16)
	if e.fatal() == nil {
		t.Error("a presenter resize failure should be recorded")
	}
	if !e.stopped() {
		t.Error("a resize failure should stop the loop")
	}
}
