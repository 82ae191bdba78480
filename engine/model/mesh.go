package model

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/google/uuid"
)

// ErrIndexOutOfRange is returned by NewMesh when an index references a missing vertex.
var ErrIndexOutOfRange = errors.New("model: index out of range")

// Vertex is one mesh vertex as authored. Joints index into the skeleton bound to the drawing
// entity and Weights blend their skin matrices; a vertex with all-zero weights is rigid.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Joints   [4]uint8
	Weights  [4]float32
}

// Mesh is indexed triangle geometry. Its ID keys the vertex and index buffers the renderer
// derives from it, so the vertex data must not change after the mesh is first drawn.
type Mesh struct {
	ID       uuid.UUID
	Name     string
	Vertices []Vertex
	Indices  []uint32

	skinned bool
}

// NewMesh validates indices against vertices and creates a Mesh.
//
// Parameters:
//   - name: the mesh name, used in GPU resource labels
//   - vertices: the vertices
//   - indices: triangle-list indices into vertices
//
// Returns:
//   - *Mesh: the mesh
//   - error: ErrIndexOutOfRange when an index has no vertex
func NewMesh(name string, vertices []Vertex, indices []uint32) (*Mesh, error) {
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("%w: mesh %q index %d is %d, %d vertices", ErrIndexOutOfRange, name, i, idx, len(vertices))
		}
	}
	m := &Mesh{
		ID:       uuid.New(),
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
	for _, v := range vertices {
		if v.Weights != [4]float32{} {
			m.skinned = true
			break
		}
	}
	return m, nil
}

// Skinned reports whether any vertex carries joint weights.
func (m *Mesh) Skinned() bool {
	return m.skinned
}

// IndexCount returns the number of indices drawn.
func (m *Mesh) IndexCount() uint32 {
	return uint32(len(m.Indices))
}

// BoundingRadius returns the largest vertex distance from the mesh origin.
func (m *Mesh) BoundingRadius() float32 {
	var maxDistSq float32
	for _, v := range m.Vertices {
		p := v.Position
		maxDistSq = max(maxDistSq, p[0]*p[0]+p[1]*p[1]+p[2]*p[2])
	}
	return math32.Sqrt(maxDistSq)
}
