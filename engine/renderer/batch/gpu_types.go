package batch

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// NoSkeleton marks an instance drawn without skinning.
const NoSkeleton uint32 = 0xFFFFFFFF

// GPUInstanceSource is the canonical WGSL definition of the Instance struct.
// Matches GPUInstance layout exactly (144 bytes).
//
//go:embed assets/instance.wgsl
var GPUInstanceSource string

// GPUInstance is the GPU-aligned per-instance record read by the geometry pass.
// Matches the WGSL Instance struct layout exactly (see GPUInstanceSource).
// Size: 144 bytes.
type GPUInstance struct {
	Model      [16]float32 // offset   0: model-to-world matrix (mat4x4<f32>)
	Normal     [16]float32 // offset  64: inverse-transpose of Model (mat4x4<f32>)
	SkinOffset uint32      // offset 128: first joint of the instance's skeleton, or NoSkeleton
	_pad       [3]uint32   // offset 132: padding to 144 bytes
}

// Size returns the size of the GPUInstance struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (144)
func (g *GPUInstance) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUInstance struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 144-byte buffer ready for GPU upload
func (g *GPUInstance) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.marshalInto(buf)
	return buf
}

func (g *GPUInstance) marshalInto(buf []byte) {
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Normal[i]))
	}
	binary.LittleEndian.PutUint32(buf[128:], g.SkinOffset)
	clear(buf[132:144])
}

// SkinMatrixSize is the size of one joint matrix in the skin buffer.
const SkinMatrixSize = 64
