package scene

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is the merged output of a piece: flat buffers with 3 floats per
// vertex in Positions, Normals and Colors, and 3 indices per triangle.
// The three float arrays always have the same length.
type Mesh struct {
	Positions []float32
	Normals   []float32
	Colors    []float32
	Indices   []uint16
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds returns the axis-aligned bounding box of the positions,
// computed over the stored float32 values so it matches the serialized
// buffer exactly. An empty mesh returns zero vectors.
func (m *Mesh) Bounds() (min, max v3.Vec) {
	if len(m.Positions) == 0 {
		return v3.Vec{}, v3.Vec{}
	}
	min = v3.Vec{X: float64(m.Positions[0]), Y: float64(m.Positions[1]), Z: float64(m.Positions[2])}
	max = min
	for i := 3; i < len(m.Positions); i += 3 {
		p := v3.Vec{X: float64(m.Positions[i]), Y: float64(m.Positions[i+1]), Z: float64(m.Positions[i+2])}
		min = min.Min(p)
		max = max.Max(p)
	}
	return min, max
}

// Validate checks the merged-mesh invariants: parallel buffer lengths,
// index count a multiple of three, and every index strictly below the
// vertex count.
func (m *Mesh) Validate() error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("scene: position buffer length %d is not a multiple of 3", len(m.Positions))
	}
	if len(m.Normals) != len(m.Positions) {
		return fmt.Errorf("scene: %d normal floats for %d position floats", len(m.Normals), len(m.Positions))
	}
	if len(m.Colors) != len(m.Positions) {
		return fmt.Errorf("scene: %d color floats for %d position floats", len(m.Colors), len(m.Positions))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("scene: index count %d is not a multiple of 3", len(m.Indices))
	}
	n := m.VertexCount()
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("scene: index %d at offset %d out of range (vertex count %d)", idx, i, n)
		}
	}
	return nil
}
