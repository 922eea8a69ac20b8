package scene

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
)

// maxVertices is the largest vertex count addressable by the 16-bit
// index buffer of the container format.
const maxVertices = math.MaxUint16 + 1

// Merge concatenates an ordered list of placed parts into one mesh.
//
// For each part, positions and normals are rotated about the vertical
// axis by the part's rotation angle; positions are then translated
// (normals never are). Every vertex receives the part's flat color.
// Index values are offset by the vertex count of all prior parts, so
// triangle topology is preserved inside one globally valid index space.
//
// Merging is order-dependent and deterministic: the same part list
// always produces byte-identical buffers.
func Merge(parts []Part) (*Mesh, error) {
	total := 0
	for _, p := range parts {
		total += p.Geometry.VertexCount()
	}
	if total > maxVertices {
		return nil, fmt.Errorf("scene: %d vertices exceed the 16-bit index space (%d)", total, maxVertices)
	}

	m := &Mesh{
		Positions: make([]float32, 0, 3*total),
		Normals:   make([]float32, 0, 3*total),
		Colors:    make([]float32, 0, 3*total),
	}

	base := 0
	for i, p := range parts {
		g := p.Geometry
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("scene: part %d: %w", i, err)
		}

		rot := sdf.RotateY(p.RotationY)
		for j, pos := range g.Positions {
			v := rot.MulPosition(pos).Add(p.Translation)
			m.Positions = append(m.Positions, float32(v.X), float32(v.Y), float32(v.Z))

			// Rotation only; normals have no location.
			n := rot.MulPosition(g.Normals[j])
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))

			m.Colors = append(m.Colors, float32(p.Color.R), float32(p.Color.G), float32(p.Color.B))
		}

		for _, idx := range g.Indices {
			m.Indices = append(m.Indices, uint16(base+int(idx)))
		}
		base += g.VertexCount()
	}

	return m, nil
}
