package model

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct for the geometry pass.
// Matches GPUVertex layout exactly (48 bytes).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU representation of a single mesh vertex.
// Joint indices travel as uint8x4 and weights as unorm8x4, so a skinned vertex costs no more than a rigid one.
// Size: 48 bytes.
type GPUVertex struct {
	Position [3]float32 // offset  0: model-space position (12 bytes)
	_        float32    // offset 12: padding
	Normal   [3]float32 // offset 16: model-space normal (12 bytes)
	_        float32    // offset 28: padding
	TexCoord [2]float32 // offset 32: UV coordinate (8 bytes)
	Joints   [4]uint8   // offset 40: skeleton joint indices (4 bytes)
	Weights  [4]uint8   // offset 44: joint weights scaled to 0..255 (4 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 48)
	g.marshalInto(buf)
	return buf
}

func (g *GPUVertex) marshalInto(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Normal[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Normal[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Normal[2]))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(g.TexCoord[1]))
	copy(buf[40:44], g.Joints[:])
	copy(buf[44:48], g.Weights[:])
}

// NewGPUVertex converts an authored vertex, quantizing weights to unorm8.
func NewGPUVertex(v Vertex) GPUVertex {
	g := GPUVertex{
		Position: v.Position,
		Normal:   v.Normal,
		TexCoord: v.TexCoord,
		Joints:   v.Joints,
	}
	for i, w := range v.Weights {
		w = min(max(w, 0), 1)
		g.Weights[i] = uint8(math.Round(float64(w) * 255))
	}
	return g
}

// MarshalVertices packs every vertex of the mesh into one vertex buffer upload.
func (m *Mesh) MarshalVertices() []byte {
	var stride GPUVertex
	size := stride.Size()
	buf := make([]byte, len(m.Vertices)*size)
	for i, v := range m.Vertices {
		g := NewGPUVertex(v)
		g.marshalInto(buf[i*size : (i+1)*size])
	}
	return buf
}

// MarshalIndices packs the index list as uint32 values.
func (m *Mesh) MarshalIndices() []byte {
	buf := make([]byte, len(m.Indices)*4)
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], idx)
	}
	return buf
}

// VertexLayout returns the vertex buffer layout matching GPUVertex and GPUVertexSource.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout for pipeline creation
func VertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 48,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 16, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 32, ShaderLocation: 2},
			{Format: wgpu.VertexFormatUint8x4, Offset: 40, ShaderLocation: 3},
			{Format: wgpu.VertexFormatUnorm8x4, Offset: 44, ShaderLocation: 4},
		},
	}
}

// GPUMaterialSource is the canonical WGSL definition of the MaterialUniform struct.
// Matches GPUMaterial layout exactly (32 bytes).
//
//go:embed assets/material.wgsl
var GPUMaterialSource string

// GPUMaterial is the GPU representation of a material's factors.
// Size: 32 bytes.
type GPUMaterial struct {
	AlbedoFactor    [4]float32 // offset  0: RGBA multiplier for the albedo texture (16 bytes)
	AOFactor        float32    // offset 16: ambient occlusion factor (4 bytes)
	RoughnessFactor float32    // offset 20: roughness factor (4 bytes)
	MetalnessFactor float32    // offset 24: metalness factor (4 bytes)
	_               float32    // offset 28: padding
}

// Size returns the size of the GPUMaterial struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterial) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterial struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUMaterial) Marshal() []byte {
	buf := make([]byte, 32)
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(g.AlbedoFactor[i]))
	}
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.AOFactor))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.RoughnessFactor))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.MetalnessFactor))
	return buf
}
