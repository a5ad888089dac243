package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCameraUniformSource is the WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (32 bytes).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the GPU-aligned camera block read by the trace shader.
type GPUCameraUniform struct {
	Position  [3]float32 // offset  0: world-space camera position (vec3<f32>)
	Aspect    float32    // offset 12: width / height
	Direction [3]float32 // offset 16: unit view direction (vec3<f32>)
	_pad      float32    // offset 28: padding to 32 bytes
}

// NewGPUCameraUniform packs a camera state for upload.
//
// Parameters:
//   - s: the camera state
//   - aspect: the viewport aspect ratio
//
// Returns:
//   - GPUCameraUniform: the packed block
func NewGPUCameraUniform(s State, aspect float32) GPUCameraUniform {
	dir := s.Direction()
	return GPUCameraUniform{
		Position:  [3]float32(s.Position),
		Aspect:    aspect,
		Direction: [3]float32(dir),
	}
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Position[i]))
	}
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(g.Aspect))
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(g.Direction[i]))
	}
	binary.LittleEndian.PutUint32(buf[28:], 0) // _pad
	return buf
}
