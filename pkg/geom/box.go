package geom

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// boxFace describes one face of an axis-aligned box: its outward normal
// and the two in-plane tangents. The tangents are chosen so that
// u cross v equals the normal, which keeps the winding consistently
// counter-clockwise when viewed from outside.
type boxFace struct {
	normal v3.Vec
	u, v   v3.Vec
}

var boxFaces = []boxFace{
	{normal: v3.Vec{X: 1}, u: v3.Vec{Z: -1}, v: v3.Vec{Y: 1}},
	{normal: v3.Vec{X: -1}, u: v3.Vec{Z: 1}, v: v3.Vec{Y: 1}},
	{normal: v3.Vec{Y: 1}, u: v3.Vec{X: 1}, v: v3.Vec{Z: -1}},
	{normal: v3.Vec{Y: -1}, u: v3.Vec{X: 1}, v: v3.Vec{Z: 1}},
	{normal: v3.Vec{Z: 1}, u: v3.Vec{X: 1}, v: v3.Vec{Y: 1}},
	{normal: v3.Vec{Z: -1}, u: v3.Vec{X: -1}, v: v3.Vec{Y: 1}},
}

// Box builds an axis-aligned box centered at the origin. Vertices are
// not shared between faces (4 per face, 24 total) so each face carries
// flat per-vertex normals.
func Box(width, height, depth float64) *Geometry {
	half := v3.Vec{X: width / 2, Y: height / 2, Z: depth / 2}

	g := &Geometry{
		Positions: make([]v3.Vec, 0, 24),
		Normals:   make([]v3.Vec, 0, 24),
		Indices:   make([]uint16, 0, 36),
	}

	for _, f := range boxFaces {
		// Half-extents along the face's own axes.
		hn := extent(f.normal, half)
		hu := extent(f.u, half)
		hv := extent(f.v, half)

		base := uint16(len(g.Positions))
		center := f.normal.MulScalar(hn)
		for _, st := range [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			p := center.Add(f.u.MulScalar(hu * st[0])).Add(f.v.MulScalar(hv * st[1]))
			g.Positions = append(g.Positions, p)
			g.Normals = append(g.Normals, f.normal)
		}
		g.Indices = append(g.Indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}

	return g
}

// extent returns the box half-extent along a signed unit axis.
func extent(axis, half v3.Vec) float64 {
	return abs(axis.Dot(half))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
