package encoder

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUSceneCapacity is the array length baked into the SceneUniform WGSL struct.
const GPUSceneCapacity = 8

// GPUSceneUniformSource is the WGSL definition of the SceneUniform struct.
// Matches GPUSceneUniform layout exactly (784 bytes).
//
//go:embed assets/scene_uniform.wgsl
var GPUSceneUniformSource string

// GPUSceneUniform is the GPU-aligned scene block read by the trace shader.
// Uniform arrays use a 16-byte stride, so each slot is a vec4.
type GPUSceneUniform struct {
	SphereCount  uint32 // offset 0
	BoxCount     uint32 // offset 4
	FloorPattern uint32 // offset 8: 1 when the checkered floor is on
	SampleIndex  uint32 // offset 12: 0 on the first sample after an invalidation

	SpherePosRadius  [GPUSceneCapacity][4]float32 // offset  16: xyz position, w radius
	SphereColorRough [GPUSceneCapacity][4]float32 // offset 144: rgb colour, w roughness
	SphereEmission   [GPUSceneCapacity][4]float32 // offset 272: x emission
	BoxPosSize       [GPUSceneCapacity][4]float32 // offset 400: xyz position, w size
	BoxColorRough    [GPUSceneCapacity][4]float32 // offset 528: rgb colour, w roughness
	BoxEmission      [GPUSceneCapacity][4]float32 // offset 656: x emission
}

// NewGPUSceneUniform packs an encoded scene for upload.
// Slots past GPUSceneCapacity are not representable and are left out.
//
// Parameters:
//   - enc: the encoded scene
//   - sampleIndex: the accumulation sample index for this pass
//
// Returns:
//   - GPUSceneUniform: the packed block
func NewGPUSceneUniform(enc EncodedScene, sampleIndex uint32) GPUSceneUniform {
	g := GPUSceneUniform{SampleIndex: sampleIndex}
	if enc.FloorPattern {
		g.FloorPattern = 1
	}

	g.SphereCount = packKind(enc.Spheres, &g.SpherePosRadius, &g.SphereColorRough, &g.SphereEmission)
	g.BoxCount = packKind(enc.Boxes, &g.BoxPosSize, &g.BoxColorRough, &g.BoxEmission)
	return g
}

// GPUOverflow counts the encoded slots of both kinds that do not fit in
// GPUSceneCapacity. These are on top of the Dropped count the encoder itself reports.
//
// Parameters:
//   - enc: the encoded scene
//
// Returns:
//   - int: the number of slots NewGPUSceneUniform leaves out
func GPUOverflow(enc EncodedScene) int {
	return max(enc.Spheres.Count-GPUSceneCapacity, 0) + max(enc.Boxes.Count-GPUSceneCapacity, 0)
}

func packKind(b KindBlock, posSize, colorRough, emission *[GPUSceneCapacity][4]float32) uint32 {
	for i := range GPUSceneCapacity {
		pos, col := PaddingPosition, PaddingColor
		size, rough, emis := PaddingSize, PaddingRoughness, PaddingEmission
		if i < len(b.Positions) {
			pos, col = b.Positions[i], b.Colors[i]
			size, rough, emis = b.Sizes[i], b.Roughness[i], b.Emission[i]
		}
		posSize[i] = [4]float32{pos[0], pos[1], pos[2], size}
		colorRough[i] = [4]float32{col[0], col[1], col[2], rough}
		emission[i] = [4]float32{emis, 0, 0, 0}
	}
	return uint32(min(b.Count, GPUSceneCapacity))
}

// Size returns the size of the GPUSceneUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (784)
func (g *GPUSceneUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSceneUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUSceneUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], g.SphereCount)
	binary.LittleEndian.PutUint32(buf[4:], g.BoxCount)
	binary.LittleEndian.PutUint32(buf[8:], g.FloorPattern)
	binary.LittleEndian.PutUint32(buf[12:], g.SampleIndex)

	offset := 16
	for _, arr := range []*[GPUSceneCapacity][4]float32{
		&g.SpherePosRadius, &g.SphereColorRough, &g.SphereEmission,
		&g.BoxPosSize, &g.BoxColorRough, &g.BoxEmission,
	} {
		for i := range GPUSceneCapacity {
			for c := range 4 {
				binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(arr[i][c]))
				offset += 4
			}
		}
	}
	return buf
}
