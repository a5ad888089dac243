// Package encoder packs a scene into fixed-capacity arrays with a layout that never changes
// with the number of primitives.
package encoder

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-trace/common"
	"github.com/Carmen-Shannon/oxy-trace/engine/scene"
	"github.com/Carmen-Shannon/oxy-trace/log"
)

var logger = log.New("encoder")

type encoderImpl struct {
	mu *sync.Mutex

	capacity int

	// last overflow that was logged per kind, so a persistent overflow warns once
	warnedSpheres int
	warnedBoxes   int
}

// Encoder turns a scene into an EncodedScene.
type Encoder interface {
	// Encode partitions the scene's primitives by kind, keeping their relative order, and writes the
	// first Capacity of each kind into the output. The rest are dropped and counted.
	// Colour and roughness are clamped to [0, 1], emission to >= 0, and non-finite values replaced
	// by the padding value.
	//
	// Parameters:
	//   - s: the scene to encode
	//
	// Returns:
	//   - EncodedScene: the encoded scene
	Encode(s scene.Scene) EncodedScene

	// Capacity returns the number of slots per kind.
	//
	// Returns:
	//   - int: the capacity
	Capacity() int
}

var _ Encoder = &encoderImpl{}

// NewEncoder creates an Encoder with DefaultCapacity slots per kind.
//
// Parameters:
//   - options: functional options to configure the encoder
//
// Returns:
//   - Encoder: the new encoder
func NewEncoder(options ...EncoderBuilderOption) Encoder {
	e := &encoderImpl{
		mu:       &sync.Mutex{},
		capacity: DefaultCapacity,
	}

	for _, opt := range options {
		opt(e)
	}

	return e
}

func (e *encoderImpl) Capacity() int {
	return e.capacity
}

func (e *encoderImpl) Encode(s scene.Scene) EncodedScene {
	out := EncodedScene{
		Capacity:     e.capacity,
		FloorPattern: s.FloorPattern(),
		Revision:     s.Revision(),
		Spheres:      newKindBlock(e.capacity),
		Boxes:        newKindBlock(e.capacity),
	}

	for _, p := range s.Primitives() {
		var block *KindBlock
		switch p.Kind {
		case scene.KindSphere:
			block = &out.Spheres
		case scene.KindBox:
			block = &out.Boxes
		default:
			continue
		}

		if block.Count >= e.capacity {
			block.Dropped++
			continue
		}
		writeSlot(block, block.Count, p)
		block.Count++
	}

	e.mu.Lock()
	e.warnedSpheres = warnOverflow(scene.KindSphere, out.Spheres, e.capacity, e.warnedSpheres)
	e.warnedBoxes = warnOverflow(scene.KindBox, out.Boxes, e.capacity, e.warnedBoxes)
	e.mu.Unlock()

	return out
}

func writeSlot(b *KindBlock, i int, p scene.Primitive) {
	for c := range 3 {
		b.Positions[i][c] = common.FiniteOr(p.Position[c], PaddingPosition[c])
		b.Colors[i][c] = common.Clamp(common.FiniteOr(p.Color[c], PaddingColor[c]), 0, 1)
	}

	b.Sizes[i] = common.FiniteOr(p.Size, PaddingSize)
	if b.Sizes[i] < 0 {
		b.Sizes[i] = PaddingSize
	}

	b.Roughness[i] = common.Clamp(common.FiniteOr(p.Roughness, PaddingRoughness), 0, 1)

	b.Emission[i] = common.FiniteOr(p.Emission, PaddingEmission)
	if b.Emission[i] < 0 {
		b.Emission[i] = 0
	}
}

func warnOverflow(kind scene.Kind, b KindBlock, capacity, warned int) int {
	if b.Dropped == 0 || b.Dropped == warned {
		return b.Dropped
	}
	logger.Warningf("scene has %d %s primitives, only the first %d are encoded (%d dropped)",
		b.Count+b.Dropped, kind, capacity, b.Dropped)
	return b.Dropped
}
