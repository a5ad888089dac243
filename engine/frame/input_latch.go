package frame

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-trace/engine/camera"
)

// Movement identifies one movement key.
type Movement int

const (
	MoveForward Movement = iota
	MoveBack
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
)

// InputLatch collects input events between ticks.
// Window callbacks write into it; the driver drains it once per tick with Snapshot.
type InputLatch struct {
	mu *sync.Mutex

	intents camera.Intents

	lockedDX, lockedDY float32
	dragDX, dragDY     float32
	hasLocked, hasDrag bool
}

// NewInputLatch creates an empty latch.
//
// Returns:
//   - *InputLatch: the new latch
func NewInputLatch() *InputLatch {
	return &InputLatch{mu: &sync.Mutex{}}
}

// SetMovement records a movement key going down or up. Held keys stay active across ticks.
//
// Parameters:
//   - m: the movement key
//   - active: true while the key is held
func (l *InputLatch) SetMovement(m Movement, active bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch m {
	case MoveForward:
		l.intents.Forward = active
	case MoveBack:
		l.intents.Back = active
	case MoveLeft:
		l.intents.Left = active
	case MoveRight:
		l.intents.Right = active
	case MoveUp:
		l.intents.Up = active
	case MoveDown:
		l.intents.Down = active
	}
}

// ReleaseAll drops every held movement key, e.g. when the window loses focus.
func (l *InputLatch) ReleaseAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intents = camera.Intents{}
}

// AddLook accumulates a pointer delta for the given look mode. LookNone deltas are ignored.
//
// Parameters:
//   - mode: the look mode the delta belongs to
//   - dx, dy: the pointer motion in pixels
func (l *InputLatch) AddLook(mode camera.LookMode, dx, dy float32) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch mode {
	case camera.LookLocked:
		l.lockedDX += dx
		l.lockedDY += dy
		l.hasLocked = true
	case camera.LookDrag:
		l.dragDX += dx
		l.dragDY += dy
		l.hasDrag = true
	}
}

// Snapshot returns the held movement keys and the look input gathered since the previous snapshot,
// then resets the look deltas. If both look modes produced motion, the locked motion is used and
// the drag motion discarded, so no sample is applied twice.
//
// Returns:
//   - camera.Intents: the held movement keys
//   - camera.LookInput: the look input for this tick
func (l *InputLatch) Snapshot() (camera.Intents, camera.LookInput) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var look camera.LookInput
	switch {
	case l.hasLocked:
		look = camera.LookInput{Mode: camera.LookLocked, DX: l.lockedDX, DY: l.lockedDY}
	case l.hasDrag:
		look = camera.LookInput{Mode: camera.LookDrag, DX: l.dragDX, DY: l.dragDY}
	}

	l.lockedDX, l.lockedDY, l.hasLocked = 0, 0, false
	l.dragDX, l.dragDY, l.hasDrag = 0, 0, false

	return l.intents, look
}
