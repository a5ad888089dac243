package camera

// Intents is the set of movement keys held during a tick.
type Intents struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Up      bool
	Down    bool
}

// Any reports whether at least one movement intent is active.
func (i Intents) Any() bool {
	return i.Forward || i.Back || i.Left || i.Right || i.Up || i.Down
}

// LookMode selects how a pointer delta is turned into yaw/pitch.
type LookMode int

const (
	// LookNone ignores the pointer delta.
	LookNone LookMode = iota

	// LookLocked is pointer-lock look: fine sensitivity, screen-right turns right, mouse-down looks down.
	LookLocked

	// LookDrag is button-held drag look without lock: coarse sensitivity, positive sign on both axes.
	LookDrag
)

// String returns a short name for the mode.
func (m LookMode) String() string {
	switch m {
	case LookLocked:
		return "locked"
	case LookDrag:
		return "drag"
	default:
		return "none"
	}
}

// LookInput is the pointer motion accumulated since the previous tick, tagged with exactly one mode
// so a single motion sample can never be applied by both look modes.
type LookInput struct {
	Mode LookMode
	DX   float32
	DY   float32
}
