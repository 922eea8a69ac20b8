// Package geom builds primitive triangle meshes (boxes, cylinders,
// spheres) with outward-facing unit normals. Geometry is indexed:
// positions and normals are parallel arrays, triangles reference
// them by 16-bit offset.
package geom

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Geometry is a primitive mesh produced by one of the builders.
// Positions and Normals always have the same length; Indices holds
// triangle triples referencing them.
type Geometry struct {
	Positions []v3.Vec
	Normals   []v3.Vec
	Indices   []uint16
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// Validate checks the structural invariants of the geometry: normals
// parallel positions, the index count is a multiple of three, and every
// index references an existing vertex.
func (g *Geometry) Validate() error {
	if len(g.Normals) != len(g.Positions) {
		return fmt.Errorf("geom: %d normals for %d positions", len(g.Normals), len(g.Positions))
	}
	if len(g.Indices)%3 != 0 {
		return fmt.Errorf("geom: index count %d is not a multiple of 3", len(g.Indices))
	}
	n := len(g.Positions)
	for i, idx := range g.Indices {
		if int(idx) >= n {
			return fmt.Errorf("geom: index %d at offset %d out of range (vertex count %d)", idx, i, n)
		}
	}
	return nil
}
