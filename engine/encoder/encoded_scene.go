package encoder

// DefaultCapacity is the number of slots per primitive kind in the reference configuration.
const DefaultCapacity = 8

// Padding values written to unused slots.
var (
	PaddingPosition  = [3]float32{0, 0, 0}
	PaddingColor     = [3]float32{1, 1, 1}
	PaddingSize      float32
	PaddingRoughness float32
	PaddingEmission  float32
)

// KindBlock holds the fixed-length parallel arrays for one primitive kind.
// Every slice has exactly the encoder's capacity; entries at or past Count are padding.
type KindBlock struct {
	Count   int
	Dropped int

	Positions [][3]float32
	Sizes     []float32
	Colors    [][3]float32
	Roughness []float32
	Emission  []float32
}

func newKindBlock(capacity int) KindBlock {
	b := KindBlock{
		Positions: make([][3]float32, capacity),
		Sizes:     make([]float32, capacity),
		Colors:    make([][3]float32, capacity),
		Roughness: make([]float32, capacity),
		Emission:  make([]float32, capacity),
	}
	for i := range capacity {
		b.Positions[i] = PaddingPosition
		b.Sizes[i] = PaddingSize
		b.Colors[i] = PaddingColor
		b.Roughness[i] = PaddingRoughness
		b.Emission[i] = PaddingEmission
	}
	return b
}

// EncodedScene is the shape-stable form of a scene handed to the tracer.
type EncodedScene struct {
	Capacity     int
	FloorPattern bool
	Revision     uint64

	Spheres KindBlock
	Boxes   KindBlock
}

// Truncated reports whether any primitive was left out of the encoding.
//
// Returns:
//   - bool: true if spheres or boxes exceeded the capacity
func (e EncodedScene) Truncated() bool {
	return e.Spheres.Dropped > 0 || e.Boxes.Dropped > 0
}
