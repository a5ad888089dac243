package scene

import (
	"sync"
)

// sceneImpl is the implementation of the Scene interface.
type sceneImpl struct {
	mu *sync.Mutex

	name         string
	floorPattern bool
	primitives   []Primitive

	// revision is bumped on every edit that changed something.
	revision uint64
}

// Scene holds the authoritative list of renderable primitives and the global scene flags.
// All mutation goes through ApplyEdit so every change is observable through Revision.
// Safe for concurrent use.
type Scene interface {
	// Name returns the scene's identifier.
	//
	// Returns:
	//   - string: the name given to NewScene
	Name() string

	// FloorPattern reports whether the checkered floor is enabled.
	//
	// Returns:
	//   - bool: true if the floor pattern is on
	FloorPattern() bool

	// Primitives returns a copy of the primitives in authoring order.
	//
	// Returns:
	//   - []Primitive: the primitives; mutating the slice does not affect the scene
	Primitives() []Primitive

	// Primitive returns a copy of the primitive at index.
	//
	// Parameters:
	//   - index: the primitive index
	//
	// Returns:
	//   - Primitive: the primitive
	//   - bool: false if index is out of range
	Primitive(index int) (Primitive, bool)

	// Len returns the number of primitives.
	//
	// Returns:
	//   - int: the primitive count
	Len() int

	// Revision returns a counter that increases every time an edit changes the scene.
	// Two equal revisions guarantee an identical encoding.
	//
	// Returns:
	//   - uint64: the current revision
	Revision() uint64

	// ApplyEdit applies a single mutation. Edits that leave the scene unchanged do not bump the revision.
	//
	// Parameters:
	//   - cmd: the edit to apply
	//
	// Returns:
	//   - bool: true if the scene changed
	//   - error: ErrIndexOutOfRange, ErrInvalidValue or ErrUnknownEdit
	ApplyEdit(cmd EditCommand) (bool, error)
}

var _ Scene = &sceneImpl{}

// NewScene creates a Scene. Without options the scene is empty with the floor pattern enabled.
//
// Parameters:
//   - name: the scene's identifier
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &sceneImpl{
		mu:           &sync.Mutex{},
		name:         name,
		floorPattern: true,
		primitives:   make([]Primitive, 0, 8),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// NewDefaultScene creates the stock viewer scene with DefaultPrimitives and the floor pattern on.
//
// Returns:
//   - Scene: the default scene
func NewDefaultScene() Scene {
	return NewScene("default", WithPrimitives(DefaultPrimitives()...))
}

func (s *sceneImpl) Name() string {
	return s.name
}

func (s *sceneImpl) FloorPattern() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.floorPattern
}

func (s *sceneImpl) Primitives() []Primitive {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Primitive, len(s.primitives))
	copy(out, s.primitives)
	return out
}

func (s *sceneImpl) Primitive(index int) (Primitive, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.primitives) {
		return Primitive{}, false
	}
	return s.primitives[index], true
}

func (s *sceneImpl) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.primitives)
}

func (s *sceneImpl) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

func (s *sceneImpl) ApplyEdit(cmd EditCommand) (bool, error) {
	if cmd == nil {
		return false, ErrUnknownEdit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed, err := cmd.apply(s)
	if err != nil {
		return false, err
	}
	if changed {
		s.revision++
	}
	return changed, nil
}

// primitive returns a pointer into the primitive slice for in-place edits.
// Caller must hold the mutex.
func (s *sceneImpl) primitive(index int) (*Primitive, error) {
	if index < 0 || index >= len(s.primitives) {
		return nil, ErrIndexOutOfRange
	}
	return &s.primitives[index], nil
}
