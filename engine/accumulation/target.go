package accumulation

// Target is a render target owned by a TargetAllocator.
// The buffer never looks inside a target, it only hands it back to the allocator and the shader pass.
type Target interface {
	// Size returns the pixel dimensions of the target.
	//
	// Returns:
	//   - width, height: the target size in pixels
	Size() (width, height int)
}

// TargetAllocator creates, clears, presents and frees render targets.
// The WebGPU renderer and the CPU reference tracer both implement it.
type TargetAllocator interface {
	// Allocate creates a target of the given size. Contents are undefined.
	//
	// Parameters:
	//   - width, height: the target size in pixels
	//
	// Returns:
	//   - Target: the new target
	//   - error: an error if the target could not be created
	Allocate(width, height int) (Target, error)

	// Clear fills the target with the neutral accumulation value.
	//
	// Parameters:
	//   - t: the target to clear
	//
	// Returns:
	//   - error: an error if the clear could not be submitted
	Clear(t Target) error

	// Present shows the target on the display surface.
	//
	// Parameters:
	//   - t: the target to present
	//
	// Returns:
	//   - error: an error if presentation failed
	Present(t Target) error

	// Release frees the target. It must not be used afterwards.
	//
	// Parameters:
	//   - t: the target to release
	Release(t Target)
}
