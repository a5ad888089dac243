package engine

import (
	"github.com/Carmen-Shannon/oxy-trace/common"
	"github.com/Carmen-Shannon/oxy-trace/engine/camera"
	"github.com/Carmen-Shannon/oxy-trace/engine/frame"
	"github.com/Carmen-Shannon/oxy-trace/engine/scene"
	"github.com/Carmen-Shannon/oxy-trace/engine/window"
)

// cursorLock is the part of the window the router drives.
type cursorLock interface {
	SetCursorLocked(locked bool)
	CursorLocked() bool
}

var movementKeys = map[uint32]frame.Movement{
	common.KeyW: frame.MoveForward,
	common.KeyS: frame.MoveBack,
	common.KeyA: frame.MoveLeft,
	common.KeyD: frame.MoveRight,
	common.KeyE: frame.MoveUp,
	common.KeyQ: frame.MoveDown,
}

// inputRouter turns window events into latch updates.
//
// A left press starts drag look; releasing it completes a click, which locks the cursor.
// While locked every cursor delta is locked look. Escape unlocks, and Escape while unlocked quits.
type inputRouter struct {
	latch  *frame.InputLatch
	cursor cursorLock
	edit   func(cmd scene.EditCommand)
	quit   func()

	dragging     bool
	lastX, lastY float64
	havePos      bool
}

func newInputRouter(latch *frame.InputLatch, cursor cursorLock, edit func(scene.EditCommand), quit func()) *inputRouter {
	return &inputRouter{
		latch:  latch,
		cursor: cursor,
		edit:   edit,
		quit:   quit,
	}
}

// attach registers the router's handlers on the window.
func (r *inputRouter) attach(w window.Window) {
	w.SetKeyDownCallback(r.keyDown)
	w.SetKeyUpCallback(r.keyUp)
	w.SetMouseDownCallback(r.mouseDown)
	w.SetMouseUpCallback(r.mouseUp)
	w.SetMouseMoveCallback(r.mouseMove)
	w.SetFocusCallback(r.focus)
}

func (r *inputRouter) keyDown(code uint32) {
	if m, ok := movementKeys[code]; ok {
		r.latch.SetMovement(m, true)
		return
	}

	switch code {
	case common.KeyEsc:
		if r.cursor.CursorLocked() {
			r.setLocked(false)
			return
		}
		if r.quit != nil {
			r.quit()
		}
	case common.KeyF:
		if r.edit != nil {
			r.edit(scene.ToggleFloorPattern{})
		}
	}
}

func (r *inputRouter) keyUp(code uint32) {
	if m, ok := movementKeys[code]; ok {
		r.latch.SetMovement(m, false)
	}
}

func (r *inputRouter) mouseDown(button window.MouseButton, x, y float64) {
	if button != window.MouseButtonLeft {
		return
	}
	r.dragging = true
	r.lastX, r.lastY, r.havePos = x, y, true
}

func (r *inputRouter) mouseUp(button window.MouseButton, x, y float64) {
	if button != window.MouseButtonLeft {
		return
	}
	r.dragging = false
	if !r.cursor.CursorLocked() {
		r.setLocked(true)
	}
}

func (r *inputRouter) mouseMove(x, y float64) {
	if !r.havePos {
		r.lastX, r.lastY, r.havePos = x, y, true
		return
	}
	dx, dy := float32(x-r.lastX), float32(y-r.lastY)
	r.lastX, r.lastY = x, y

	switch {
	case r.cursor.CursorLocked():
		r.latch.AddLook(camera.LookLocked, dx, dy)
	case r.dragging:
		r.latch.AddLook(camera.LookDrag, dx, dy)
	}
}

// focus drops held keys and the lock when the window loses focus, so no key stays stuck down.
func (r *inputRouter) focus(focused bool) {
	if focused {
		return
	}
	r.latch.ReleaseAll()
	r.dragging = false
	r.setLocked(false)
}

// setLocked changes the lock and forgets the last cursor position, which jumps when the mode changes.
func (r *inputRouter) setLocked(locked bool) {
	r.cursor.SetCursorLocked(locked)
	r.havePos = false
}
