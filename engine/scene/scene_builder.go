package scene

// SceneBuilderOption is a functional option for configuring a Scene during construction.
type SceneBuilderOption func(*sceneImpl)

// WithFloorPattern sets the initial state of the checkered floor.
//
// Parameters:
//   - enabled: true to start with the floor pattern on
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithFloorPattern(enabled bool) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.floorPattern = enabled
	}
}

// WithPrimitives appends primitives in the given order.
//
// Parameters:
//   - primitives: the primitives to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPrimitives(primitives ...Primitive) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.primitives = append(s.primitives, primitives...)
	}
}
