package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Sphere builds a UV sphere centered at the origin: a latitude/longitude
// grid of (heightSegments+1) rows by (widthSegments+1) columns with
// spherical normals, triangulated as two triangles per grid quad. The
// seam column is duplicated so the grid indexing stays uniform.
func Sphere(radius float64, widthSegments, heightSegments int) *Geometry {
	rows := heightSegments + 1
	cols := widthSegments + 1

	g := &Geometry{
		Positions: make([]v3.Vec, 0, rows*cols),
		Normals:   make([]v3.Vec, 0, rows*cols),
		Indices:   make([]uint16, 0, 6*widthSegments*heightSegments),
	}

	for iy := 0; iy < rows; iy++ {
		theta := math.Pi * float64(iy) / float64(heightSegments) // latitude, 0 at the north pole
		sinT, cosT := math.Sin(theta), math.Cos(theta)
		for ix := 0; ix < cols; ix++ {
			phi := 2 * math.Pi * float64(ix) / float64(widthSegments) // longitude
			n := v3.Vec{
				X: sinT * math.Cos(phi),
				Y: cosT,
				Z: sinT * math.Sin(phi),
			}
			g.Positions = append(g.Positions, n.MulScalar(radius))
			g.Normals = append(g.Normals, n)
		}
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint16(iy*cols + ix)
			b := uint16((iy+1)*cols + ix)
			c := uint16((iy+1)*cols + ix + 1)
			d := uint16(iy*cols + ix + 1)
			g.Indices = append(g.Indices,
				a, d, b,
				b, d, c,
			)
		}
	}

	return g
}
