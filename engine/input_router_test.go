package engine

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-trace/common"
	"github.com/Carmen-Shannon/oxy-trace/engine/camera"
	"github.com/Carmen-Shannon/oxy-trace/engine/frame"
	"github.com/Carmen-Shannon/oxy-trace/engine/scene"
	"github.com/Carmen-Shannon/oxy-trace/engine/window"
)

type fakeCursor struct {
	locked bool
}

func (c *fakeCursor) SetCursorLocked(locked bool) { c.locked = locked }
func (c *fakeCursor) CursorLocked() bool          { return c.locked }

func newTestRouter() (*inputRouter, *frame.InputLatch, *fakeCursor, *[]scene.EditCommand, *int) {
	latch := frame.NewInputLatch()
	cursor := &fakeCursor{}
	edits := &[]scene.EditCommand{}
	quits := new(int)
	r := newInputRouter(latch, cursor,
		func(cmd scene.EditCommand) { *edits = append(*edits, cmd) },
		func() { *quits++ },
	)
	return r, latch, cursor, edits, quits
}

func TestMovementKeys(t *testing.T) {
	r, latch, _, _, _ := newTestRouter()

	r.keyDown(common.KeyW)
	r.keyDown(common.KeyQ)
	intents, _ := latch.Snapshot()
	if !intents.Forward || !intents.Down {
		t.Errorf("expected forward and down held, got %+v", intents)
	}

	r.keyUp(common.KeyW)
	intents, _ = latch.Snapshot()
	if intents.Forward || !intents.Down {
		t.Errorf("expected only down held, got %+v", intents)
	}
}

func TestDragThenClickLocks(t *testing.T) {
	r, latch, cursor, _, _ := newTestRouter()

	r.mouseDown(window.MouseButtonLeft, 100, 100)
	r.mouseMove(110, 95)
	_, look := latch.Snapshot()
	if look.Mode != camera.LookDrag || look.DX != 10 || look.DY != -5 {
		t.Errorf("expected drag look (10,-5), got %+v", look)
	}

	r.mouseUp(window.MouseButtonLeft, 110, 95)
	if !cursor.locked {
		t.Fatal("a completed click should lock the cursor")
	}

	// The first position after locking only re-anchors.
	r.mouseMove(500, 500)
	r.mouseMove(503, 499)
	_, look = latch.Snapshot()
	if look.Mode != camera.LookLocked || look.DX != 3 || look.DY != -1 {
		t.Errorf("expected locked look (3,-1), got %+v", look)
	}
}

func TestMoveWithoutButtonOrLockIsIgnored(t *testing.T) {
	r, latch, _, _, _ := newTestRouter()

	r.mouseMove(0, 0)
	r.mouseMove(50, 50)
	if _, look := latch.Snapshot(); look.Mode != camera.LookNone {
		t.Errorf("expected no look input, got %+v", look)
	}
}

func TestEscapeUnlocksThenQuits(t *testing.T) {
	r, _, cursor, _, quits := newTestRouter()
	cursor.locked = true

	r.keyDown(common.KeyEsc)
	if cursor.locked {
		t.Error("first escape should release the lock")
	}
	if *quits != 0 {
		t.Error("first escape must not quit")
	}

	r.keyDown(common.KeyEsc)
	if *quits != 1 {
		t.Errorf("second escape should quit, got %d quits", *quits)
	}
}

func TestFocusLossReleasesEverything(t *testing.T) {
	r, latch, cursor, _, _ := newTestRouter()
	cursor.locked = true
	r.keyDown(common.KeyD)
	r.mouseDown(window.MouseButtonLeft, 0, 0)

	r.focus(false)

	intents, _ := latch.Snapshot()
	if intents.Any() {
		t.Errorf("held keys should be dropped, got %+v", intents)
	}
	if cursor.locked || r.dragging {
		t.Error("focus loss should end the lock and the drag")
	}
}

func TestFloorToggleKey(t *testing.T) {
	r, _, _, edits, _ := newTestRouter()

	r.keyDown(common.KeyF)
	if len(*edits) != 1 {
		t.Fatalf("expected one edit, got %d", len(*edits))
	}
	if _, ok := (*edits)[0].(scene.ToggleFloorPattern); !ok {
		t.Errorf("expected ToggleFloorPattern, got %T", (*edits)[0])
	}
}
