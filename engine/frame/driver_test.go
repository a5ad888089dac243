package frame

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-trace/engine/accumulation"
	"github.com/Carmen-Shannon/oxy-trace/engine/camera"
	"github.com/Carmen-Shannon/oxy-trace/engine/scene"
)

type fakeTarget struct {
	width, height int
}

func (t *fakeTarget) Size() (int, int) { return t.width, t.height }

type fakeAllocator struct {
	allocations int
	clears      int
	failNext    bool
}

func (a *fakeAllocator) Allocate(width, height int) (accumulation.Target, error) {
	if a.failNext {
		return nil, errors.New("device lost")
	}
	a.allocations++
	return &fakeTarget{width: width, height: height}, nil
}

func (a *fakeAllocator) Clear(accumulation.Target) error   { a.clears++; return nil }
func (a *fakeAllocator) Present(accumulation.Target) error { return nil }
func (a *fakeAllocator) Release(accumulation.Target)       {}

type recordingShader struct {
	seen    []uint32
	history []accumulation.Target
	targets []accumulation.Target
	err     error
}

func (s *recordingShader) Trace(u Uniforms, target accumulation.Target) error {
	if s.err != nil {
		return s.err
	}
	s.seen = append(s.seen, u.SampleIndex)
	s.history = append(s.history, u.History)
	s.targets = append(s.targets, target)
	return nil
}

func newTestDriver(t *testing.T) (Driver, *recordingShader, *fakeAllocator) {
	t.Helper()
	alloc := &fakeAllocator{}
	buf, err := accumulation.NewBuffer(alloc, 64, 32)
	if err != nil {
		t.Fatal(err)
	}
	shader := &recordingShader{}
	return NewDriver(buf, shader), shader, alloc
}

func tickN(t *testing.T, d Driver, n int) []uint32 {
	t.Helper()
	out := make([]uint32, 0, n)
	for range n {
		res, err := d.Tick(1.0 / 60)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, res.SampleIndex)
	}
	return out
}

func equal(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSteadyTicksCountUp(t *testing.T) {
	d, shader, _ := newTestDriver(t)

	got := tickN(t, d, 10)
	want := []uint32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if !equal(got, want) {
		t.Errorf("sample index after each tick: expected %v, got %v", want, got)
	}
	if !equal(shader.seen, []uint32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}) {
		t.Errorf("shader should see the index before the tick advances, got %v", shader.seen)
	}
}

func TestShaderReadsPreviousWrite(t *testing.T) {
	d, shader, _ := newTestDriver(t)
	tickN(t, d, 4)

	for i := 1; i < len(shader.targets); i++ {
		if shader.history[i] != shader.targets[i-1] {
			t.Errorf("tick %d: history should be the previous tick's write target", i)
		}
		if shader.targets[i] == shader.targets[i-1] {
			t.Errorf("tick %d: write target should alternate", i)
		}
	}
}

func TestMovementRestartsAccumulation(t *testing.T) {
	d, _, _ := newTestDriver(t)
	tickN(t, d, 5)

	d.Latch().SetMovement(MoveForward, true)
	res, err := d.Tick(1.0 / 60)
	if err != nil {
		t.Fatal(err)
	}
	d.Latch().SetMovement(MoveForward, false)

	if !res.CameraChanged || !res.Invalidated || res.SampleIndex != 1 {
		t.Errorf("movement tick: expected changed+invalidated at 1, got %+v", res)
	}

	if got := tickN(t, d, 3); !equal(got, []uint32{2, 3, 4}) {
		t.Errorf("accumulation should resume after the move, got %v", got)
	}
}

func TestLookRestartsAccumulation(t *testing.T) {
	d, _, _ := newTestDriver(t)
	tickN(t, d, 3)

	d.Latch().AddLook(camera.LookLocked, 10, 0)
	got := tickN(t, d, 2)
	if !equal(got, []uint32{1, 2}) {
		t.Errorf("expected [1 2], got %v", got)
	}
}

func TestResizeRestartsAccumulation(t *testing.T) {
	d, _, alloc := newTestDriver(t)
	tickN(t, d, 4)

	if err := d.Resize(128, 32); err != nil {
		t.Fatal(err)
	}
	if alloc.allocations != 4 {
		t.Errorf("expected both targets reallocated, %d allocations", alloc.allocations)
	}
	if aspect := d.Rig().Aspect(); aspect != 4 {
		t.Errorf("aspect: expected 4, got %v", aspect)
	}

	res, err := d.Tick(1.0 / 60)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Invalidated || res.SampleIndex != 1 {
		t.Errorf("first tick after resize: expected invalidated at 1, got %+v", res)
	}
	if d.Stats().Resizes != 1 {
		t.Errorf("expected 1 resize, got %d", d.Stats().Resizes)
	}
}

func TestResizeFailureIsSurfaced(t *testing.T) {
	d, _, alloc := newTestDriver(t)
	alloc.failNext = true

	if err := d.Resize(10, 10); !errors.Is(err, accumulation.ErrAllocation) {
		t.Errorf("expected ErrAllocation, got %v", err)
	}
}

func TestSceneEditRestartsAccumulation(t *testing.T) {
	d, _, _ := newTestDriver(t)
	tickN(t, d, 6)

	changed, err := d.ApplyEdit(scene.SetRoughness{Index: 0, Roughness: 0.5})
	if err != nil || !changed {
		t.Fatalf("edit should apply: changed %v err %v", changed, err)
	}

	res, err := d.Tick(1.0 / 60)
	if err != nil {
		t.Fatal(err)
	}
	if !res.SceneChanged || res.CameraChanged || res.SampleIndex != 1 {
		t.Errorf("expected a scene-only invalidation at 1, got %+v", res)
	}

	// a no-op edit must not restart
	d.ApplyEdit(scene.SetRoughness{Index: 0, Roughness: 0.5})
	if got := tickN(t, d, 1); got[0] != 2 {
		t.Errorf("a no-op edit should not invalidate, got %v", got)
	}
}

func TestInvalidatedTickClearsNextWriteTarget(t *testing.T) {
	d, _, alloc := newTestDriver(t)
	tickN(t, d, 3)
	before := alloc.clears

	d.Latch().SetMovement(MoveUp, true)
	tickN(t, d, 1)
	d.Latch().SetMovement(MoveUp, false)
	tickN(t, d, 2)

	if alloc.clears != before+1 {
		t.Errorf("expected one clear for the invalidation, got %d", alloc.clears-before)
	}
}

func TestShaderErrorStopsTheTick(t *testing.T) {
	d, shader, _ := newTestDriver(t)
	tickN(t, d, 2)

	shader.err = errors.New("pipeline lost")
	if _, err := d.Tick(1.0 / 60); !errors.Is(err, shader.err) {
		t.Fatalf("expected the shader error, got %v", err)
	}

	shader.err = nil
	if got := tickN(t, d, 1); got[0] != 3 {
		t.Errorf("a failed tick must not advance the sample index, got %v", got)
	}
}

func TestInputLatchPrefersLockedLook(t *testing.T) {
	l := NewInputLatch()
	l.AddLook(camera.LookDrag, 5, 5)
	l.AddLook(camera.LookLocked, 1, 2)
	l.AddLook(camera.LookLocked, 1, 2)

	_, look := l.Snapshot()
	if look.Mode != camera.LookLocked || look.DX != 2 || look.DY != 4 {
		t.Errorf("expected summed locked look (2,4), got %+v", look)
	}

	if _, look := l.Snapshot(); look.Mode != camera.LookNone {
		t.Errorf("snapshot should drain the deltas, got %+v", look)
	}
}

func TestInputLatchKeepsHeldKeys(t *testing.T) {
	l := NewInputLatch()
	l.SetMovement(MoveLeft, true)

	for range 2 {
		if intents, _ := l.Snapshot(); !intents.Left {
			t.Fatal("held keys should persist across snapshots")
		}
	}

	l.ReleaseAll()
	if intents, _ := l.Snapshot(); intents.Any() {
		t.Error("ReleaseAll should drop every key")
	}
}
