// Package accumulation owns the ping-pong render target pair used for progressive refinement,
// together with the sample counter and the invalidation rule.
package accumulation

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-trace/log"
)

var logger = log.New("accumulation")

// Slot indices. Slot A is the target that is written first after construction.
const (
	SlotA = 0
	SlotB = 1
)

type bufferImpl struct {
	mu *sync.Mutex

	allocator TargetAllocator
	scale     [2]float32

	targets [2]Target
	read    int

	width  int
	height int

	sampleIndex  uint32
	state        State
	pendingClear bool
	released     bool
}

// Buffer is the two-slot accumulation target pair.
// At all times one target is the read (history) target and the other the write target; EndFrame
// swaps them.
type Buffer interface {
	// BeginFrame returns the read target, which holds the previous accumulated image.
	//
	// Returns:
	//   - Target: the history target
	BeginFrame() Target

	// WriteTarget returns the target the next shader pass renders into.
	//
	// Returns:
	//   - Target: the write target
	WriteTarget() Target

	// EndFrame presents the written target and then swaps the read and write roles.
	// If presentation fails the roles are left unchanged.
	//
	// Parameters:
	//   - written: the target the shader pass rendered into
	//
	// Returns:
	//   - error: ErrNotWriteTarget, ErrReleased or a presentation error
	EndFrame(written Target) error

	// Invalidate resets the sample index to 0 and schedules a clear of the next write target.
	Invalidate()

	// ClearPending clears the current write target if an invalidation is pending and returns the buffer
	// to StateSteady. It is called after EndFrame, so it clears the target that the just-invalidated
	// frame did not write.
	//
	// Returns:
	//   - error: an error if the clear failed; the clear stays pending
	ClearPending() error

	// Advance increments the sample index. Called once at the end of every tick.
	Advance()

	// Resize reallocates both targets for a new viewport size and invalidates.
	// On failure the previous targets are kept and the error wraps ErrAllocation.
	//
	// Parameters:
	//   - width, height: the viewport size in pixels
	//
	// Returns:
	//   - error: an error if either target could not be allocated
	Resize(width, height int) error

	// Release frees both targets. Calling it more than once is a no-op.
	Release()

	// SampleIndex returns the number of samples accumulated since the last invalidation.
	//
	// Returns:
	//   - uint32: the sample index
	SampleIndex() uint32

	// State returns the validity state.
	//
	// Returns:
	//   - State: StateSteady or StateJustInvalidated
	State() State

	// PendingClear reports whether the next write target still has to be cleared.
	//
	// Returns:
	//   - bool: true if a clear is pending
	PendingClear() bool

	// Size returns the viewport size the targets were allocated for.
	//
	// Returns:
	//   - width, height: the viewport size in pixels
	Size() (width, height int)

	// SlotSize returns the allocated size of a slot after scaling.
	//
	// Parameters:
	//   - slot: SlotA or SlotB
	//
	// Returns:
	//   - width, height: the slot's target size in pixels
	SlotSize(slot int) (width, height int)
}

var _ Buffer = &bufferImpl{}

// NewBuffer allocates both targets for the given viewport and starts in StateJustInvalidated with
// sample index 0.
//
// Parameters:
//   - allocator: the allocator that owns the targets
//   - width, height: the viewport size in pixels
//   - options: functional options to configure the buffer
//
// Returns:
//   - Buffer: the new buffer
//   - error: an error wrapping ErrAllocation or ErrInvalidSize
func NewBuffer(allocator TargetAllocator, width, height int, options ...BufferBuilderOption) (Buffer, error) {
	b := &bufferImpl{
		mu:        &sync.Mutex{},
		allocator: allocator,
		scale:     [2]float32{2, 1},
		read:      SlotB,
	}

	for _, opt := range options {
		opt(b)
	}

	targets, err := b.allocatePair(width, height)
	if err != nil {
		return nil, err
	}

	b.targets = targets
	b.width, b.height = width, height
	b.invalidate()
	return b, nil
}

func (b *bufferImpl) write() int {
	return 1 - b.read
}

func (b *bufferImpl) BeginFrame() Target {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.targets[b.read]
}

func (b *bufferImpl) WriteTarget() Target {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.targets[b.write()]
}

func (b *bufferImpl) EndFrame(written Target) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return ErrReleased
	}
	if written == nil || written != b.targets[b.write()] {
		return ErrNotWriteTarget
	}

	if err := b.allocator.Present(written); err != nil {
		return fmt.Errorf("failed to present accumulation target: %w", err)
	}

	b.read = b.write()
	return nil
}

func (b *bufferImpl) Invalidate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.invalidate()
}

func (b *bufferImpl) invalidate() {
	b.sampleIndex = 0
	b.pendingClear = true
	b.state = StateJustInvalidated
}

func (b *bufferImpl) ClearPending() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return ErrReleased
	}
	if !b.pendingClear {
		return nil
	}

	if err := b.allocator.Clear(b.targets[b.write()]); err != nil {
		return fmt.Errorf("failed to clear accumulation target: %w", err)
	}

	b.pendingClear = false
	b.state = StateSteady
	return nil
}

func (b *bufferImpl) Advance() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sampleIndex++
}

func (b *bufferImpl) Resize(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return ErrReleased
	}

	targets, err := b.allocatePair(width, height)
	if err != nil {
		return err
	}

	for _, t := range b.targets {
		b.allocator.Release(t)
	}
	b.targets = targets
	b.width, b.height = width, height
	b.invalidate()

	logger.Debugf("resized to %dx%d (slot A %v, slot B %v)", width, height, b.scale[SlotA], b.scale[SlotB])
	return nil
}

// allocatePair creates both slots. If the second allocation fails the first is released again.
func (b *bufferImpl) allocatePair(width, height int) ([2]Target, error) {
	var targets [2]Target

	if width <= 0 || height <= 0 {
		return targets, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	for slot := range targets {
		w, h := scaled(width, b.scale[slot]), scaled(height, b.scale[slot])
		t, err := b.allocator.Allocate(w, h)
		if err != nil {
			for i := range slot {
				b.allocator.Release(targets[i])
			}
			return [2]Target{}, fmt.Errorf("%w: slot %d at %dx%d: %w", ErrAllocation, slot, w, h, err)
		}
		targets[slot] = t
	}

	return targets, nil
}

func scaled(v int, scale float32) int {
	return max(1, int(float32(v)*scale))
}

func (b *bufferImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return
	}
	for i, t := range b.targets {
		if t != nil {
			b.allocator.Release(t)
		}
		b.targets[i] = nil
	}
	b.released = true
}

func (b *bufferImpl) SampleIndex() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sampleIndex
}

func (b *bufferImpl) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *bufferImpl) PendingClear() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pendingClear
}

func (b *bufferImpl) Size() (width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *bufferImpl) SlotSize(slot int) (width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if slot != SlotA && slot != SlotB {
		return 0, 0
	}
	return scaled(b.width, b.scale[slot]), scaled(b.height, b.scale[slot])
}
