package model

import "fmt"

// cubeFaces lists each face of an axis-aligned box as (normal, u, v) with u × v = normal,
// so corners emitted in (-u-v, +u-v, +u+v, -u+v) order wind counter-clockwise from outside.
var cubeFaces = [6][3][3]float32{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

var quadCorners = [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

func appendBox(vertices []Vertex, indices []uint32, center, half [3]float32, joint uint8, weight float32) ([]Vertex, []uint32) {
	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		base := uint32(len(vertices))
		for _, c := range quadCorners {
			var p [3]float32
			for k := 0; k < 3; k++ {
				p[k] = center[k] + (n[k]+u[k]*c[0]+v[k]*c[1])*half[k]
			}
			vertices = append(vertices, Vertex{
				Position: p,
				Normal:   n,
				TexCoord: [2]float32{(c[0] + 1) / 2, (1 - c[1]) / 2},
				Joints:   [4]uint8{joint},
				Weights:  [4]float32{weight},
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}

// NewCubeMesh creates an axis-aligned cube centred on the origin with outward normals.
//
// Parameters:
//   - size: the edge length
//
// Returns:
//   - *Mesh: 24 vertices and 36 indices
func NewCubeMesh(size float32) *Mesh {
	h := size / 2
	vertices, indices := appendBox(nil, nil, [3]float32{}, [3]float32{h, h, h}, 0, 0)
	m, _ := NewMesh("cube", vertices, indices)
	return m
}

// NewPlaneMesh creates a square in the XZ plane facing +Y.
//
// Parameters:
//   - size: the edge length
//   - tiling: how many times the texture repeats along each edge
//
// Returns:
//   - *Mesh: 4 vertices and 6 indices
func NewPlaneMesh(size, tiling float32) *Mesh {
	h := size / 2
	vertices := make([]Vertex, 0, 4)
	for _, c := range quadCorners {
		vertices = append(vertices, Vertex{
			Position: [3]float32{c[0] * h, 0, -c[1] * h},
			Normal:   [3]float32{0, 1, 0},
			TexCoord: [2]float32{(c[0] + 1) / 2 * tiling, (1 - c[1]) / 2 * tiling},
		})
	}
	m, _ := NewMesh("plane", vertices, []uint32{0, 1, 2, 0, 2, 3})
	return m
}

// NewSegmentedColumn creates a vertical stack of boxes rising from the origin. Box i is fully
// weighted to joint i, so a chain of joints spaced segmentHeight apart bends the column.
//
// Parameters:
//   - segments: the number of boxes, at most 256
//   - width: the box width and depth
//   - segmentHeight: the box height
//
// Returns:
//   - *Mesh: the skinned mesh
//   - error: an error if segments is out of range
func NewSegmentedColumn(segments int, width, segmentHeight float32) (*Mesh, error) {
	if segments < 1 || segments > 256 {
		return nil, fmt.Errorf("model: column needs 1 to 256 segments, got %d", segments)
	}
	var (
		vertices []Vertex
		indices  []uint32
	)
	half := [3]float32{width / 2, segmentHeight / 2, width / 2}
	for i := 0; i < segments; i++ {
		center := [3]float32{0, (float32(i) + 0.5) * segmentHeight, 0}
		vertices, indices = appendBox(vertices, indices, center, half, uint8(i), 1)
	}
	return NewMesh(fmt.Sprintf("column-%d", segments), vertices, indices)
}
