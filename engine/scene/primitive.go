package scene

// Kind identifies the shape of a Primitive.
type Kind int

const (
	// KindSphere is a sphere; Primitive.Size is its radius.
	KindSphere Kind = iota

	// KindBox is an axis-aligned box; Primitive.Size is its size.
	KindBox
)

// String returns the lowercase shape name.
func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindBox:
		return "box"
	default:
		return "unknown"
	}
}

// Primitive is a single renderable shape with its material properties.
// Primitives are addressed by their index in the scene, which never changes after creation.
type Primitive struct {
	Kind Kind

	Position [3]float32

	// Color is the albedo in [0,1]^3.
	Color [3]float32

	// Roughness in [0,1]; 0 is a perfect mirror.
	Roughness float32

	// Emission is the emitted radiance scale, >= 0.
	Emission float32

	// Size is the radius for spheres and the size for boxes. Always > 0.
	Size float32
}

// NewSphere builds a sphere primitive.
//
// Parameters:
//   - position: world-space center
//   - radius: sphere radius (> 0)
//   - color: albedo in [0,1]^3
//   - roughness: surface roughness in [0,1]
//   - emission: emitted radiance scale (>= 0)
//
// Returns:
//   - Primitive: the sphere
func NewSphere(position [3]float32, radius float32, color [3]float32, roughness, emission float32) Primitive {
	return Primitive{
		Kind:      KindSphere,
		Position:  position,
		Color:     color,
		Roughness: roughness,
		Emission:  emission,
		Size:      radius,
	}
}

// NewBox builds a box primitive.
//
// Parameters:
//   - position: world-space center
//   - size: box size (> 0)
//   - color: albedo in [0,1]^3
//   - roughness: surface roughness in [0,1]
//   - emission: emitted radiance scale (>= 0)
//
// Returns:
//   - Primitive: the box
func NewBox(position [3]float32, size float32, color [3]float32, roughness, emission float32) Primitive {
	return Primitive{
		Kind:      KindBox,
		Position:  position,
		Color:     color,
		Roughness: roughness,
		Emission:  emission,
		Size:      size,
	}
}

// DefaultPrimitives returns the stock three-object scene: a golden mirror sphere,
// a rough blue sphere and a diffuse green box.
//
// Returns:
//   - []Primitive: the default primitives in authoring order
func DefaultPrimitives() []Primitive {
	return []Primitive{
		NewSphere([3]float32{0, 0.5, 0}, 0.5, [3]float32{1, 0.8, 0.2}, 0.0, 0.0),
		NewSphere([3]float32{-1.5, 0.3, 1.0}, 0.3, [3]float32{0.2, 0.6, 1.0}, 0.7, 0.0),
		NewBox([3]float32{1.5, 0.2, 1.5}, 0.4, [3]float32{0.2, 1.0, 0.4}, 1.0, 0.0),
	}
}
