package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeshRejectsBadIndex(t *testing.T) {
	_, err := NewMesh("tri", make([]Vertex, 3), []uint32{0, 1, 3})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestMeshSkinned(t *testing.T) {
	rigid, err := NewMesh("rigid", make([]Vertex, 3), []uint32{0, 1, 2})
	require.NoError(t, err)
	assert.False(t, rigid.Skinned())

	column, err := NewSegmentedColumn(3, 1, 2)
	require.NoError(t, err)
	assert.True(t, column.Skinned())
	assert.Len(t, column.Vertices, 3*24)
	assert.Equal(t, uint32(3*36), column.IndexCount())
	assert.Equal(t, uint8(2), column.Vertices[len(column.Vertices)-1].Joints[0])

	_, err = NewSegmentedColumn(0, 1, 1)
	assert.Error(t, err)
}

func TestCubeMesh(t *testing.T) {
	cube := NewCubeMesh(2)
	assert.Len(t, cube.Vertices, 24)
	assert.Len(t, cube.Indices, 36)
	assert.InDelta(t, math.Sqrt(3), cube.BoundingRadius(), 1e-5)

	// every face's first triangle winds counter-clockwise around its normal
	for f := 0; f < 6; f++ {
		a := cube.Vertices[cube.Indices[f*6]].Position
		b := cube.Vertices[cube.Indices[f*6+1]].Position
		c := cube.Vertices[cube.Indices[f*6+2]].Position
		n := cube.Vertices[cube.Indices[f*6]].Normal
		e1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		e2 := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		cross := [3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		assert.Greater(t, cross[0]*n[0]+cross[1]*n[1]+cross[2]*n[2], float32(0), "face %d", f)
	}
}

func TestGPUVertexLayout(t *testing.T) {
	var v GPUVertex
	assert.Equal(t, 48, v.Size())
	assert.Equal(t, uint64(48), VertexLayout().ArrayStride)

	g := NewGPUVertex(Vertex{
		Position: [3]float32{1, 2, 3},
		Normal:   [3]float32{0, 1, 0},
		TexCoord: [2]float32{0.25, 0.75},
		Joints:   [4]uint8{4, 3, 2, 1},
		Weights:  [4]float32{1, 0.5, -1, 2},
	})
	buf := g.Marshal()
	require.Len(t, buf, 48)
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[20:24])))
	assert.Equal(t, float32(0.75), math.Float32frombits(binary.LittleEndian.Uint32(buf[36:40])))
	assert.Equal(t, []byte{4, 3, 2, 1}, buf[40:44])
	assert.Equal(t, []byte{255, 128, 0, 255}, buf[44:48])
}

func TestMarshalMesh(t *testing.T) {
	plane := NewPlaneMesh(4, 2)
	assert.Len(t, plane.MarshalVertices(), 4*48)
	idx := plane.MarshalIndices()
	require.Len(t, idx, 24)
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(idx[20:24]))
}

func TestMaterialDefaults(t *testing.T) {
	m := NewMaterial(WithAlbedoFactor([4]float32{1, 0, 0, 1}), WithSurfaceFactors(0.5, 0.4, 0.1))
	assert.Nil(t, m.AlbedoTexture)
	u := m.Uniform()
	assert.Equal(t, 32, u.Size())
	buf := u.Marshal()
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])))
	assert.Equal(t, float32(0.4), math.Float32frombits(binary.LittleEndian.Uint32(buf[20:24])))
}

func TestModelPrimitives(t *testing.T) {
	cube := NewCubeMesh(1)
	mat := NewMaterial()
	m := NewModel(WithName("crate"), WithPrimitive(cube, mat), WithPrimitive(nil, mat))
	require.Len(t, m.Primitives(), 1)
	assert.Same(t, cube, m.Primitives()[0].Mesh)
	assert.False(t, m.Skinned())
	assert.Equal(t, "crate", m.Name())
}
