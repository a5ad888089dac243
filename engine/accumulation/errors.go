package accumulation

import "errors"

var (
	// ErrAllocation is returned when a render target could not be created.
	ErrAllocation = errors.New("render target allocation failed")

	// ErrNotWriteTarget is returned by EndFrame when it is handed anything but the current write target.
	ErrNotWriteTarget = errors.New("target is not the current write target")

	// ErrReleased is returned once the buffer's targets have been released.
	ErrReleased = errors.New("accumulation buffer released")

	// ErrInvalidSize is returned for non-positive viewport dimensions.
	ErrInvalidSize = errors.New("invalid viewport size")
)
