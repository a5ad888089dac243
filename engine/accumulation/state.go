package accumulation

// State is the validity state of the accumulated image.
type State int

const (
	// StateSteady means the read target holds a valid running average.
	StateSteady State = iota

	// StateJustInvalidated means the camera, the scene or the viewport changed and the next write target
	// still has to be cleared.
	StateJustInvalidated
)

// String returns a short name for the state.
func (s State) String() string {
	if s == StateJustInvalidated {
		return "just-invalidated"
	}
	return "steady"
}
