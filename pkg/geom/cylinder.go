package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Cylinder builds a cylinder along the Y axis, centered at the origin.
// The side wall is a ring of quads between the top and bottom vertex
// rings with normals smooth around the radial direction. Each cap is a
// separate triangle fan with its own center vertex and a flat straight
// up/down normal, so caps stay flat-shaded while the wall is smooth.
//
// A radius of zero at either end degenerates that ring to a point and
// yields a cone; the same fan triangulation applies without special
// casing.
func Cylinder(radiusTop, radiusBottom, height float64, segments int) *Geometry {
	half := height / 2
	g := &Geometry{
		Positions: make([]v3.Vec, 0, 4*segments+2),
		Normals:   make([]v3.Vec, 0, 4*segments+2),
		Indices:   make([]uint16, 0, 12*segments),
	}

	// Side wall: bottom ring then top ring. The wall normal leans by
	// the slope of the radius change, which covers cones for free.
	slope := (radiusBottom - radiusTop) / height
	for _, ring := range []struct {
		y, r float64
	}{
		{y: -half, r: radiusBottom},
		{y: half, r: radiusTop},
	} {
		for i := 0; i < segments; i++ {
			theta := 2 * math.Pi * float64(i) / float64(segments)
			sin, cos := math.Sin(theta), math.Cos(theta)
			g.Positions = append(g.Positions, v3.Vec{X: ring.r * cos, Y: ring.y, Z: ring.r * sin})
			g.Normals = append(g.Normals, v3.Vec{X: cos, Y: slope, Z: sin}.Normalize())
		}
	}
	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		bi, bj := uint16(i), uint16(j)
		ti, tj := uint16(segments+i), uint16(segments+j)
		g.Indices = append(g.Indices,
			bi, ti, tj,
			bi, tj, bj,
		)
	}

	// Caps: one fan each, with dedicated vertices for flat shading.
	g.addCap(radiusTop, half, 1, segments)
	g.addCap(radiusBottom, -half, -1, segments)

	return g
}

// addCap appends a triangle fan closing one end of a cylinder.
// dir is +1 for the top cap, -1 for the bottom cap; it selects both the
// normal direction and the winding.
func (g *Geometry) addCap(radius, y, dir float64, segments int) {
	normal := v3.Vec{Y: dir}
	center := uint16(len(g.Positions))
	g.Positions = append(g.Positions, v3.Vec{Y: y})
	g.Normals = append(g.Normals, normal)

	ring := uint16(len(g.Positions))
	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		g.Positions = append(g.Positions, v3.Vec{X: radius * math.Cos(theta), Y: y, Z: radius * math.Sin(theta)})
		g.Normals = append(g.Normals, normal)
	}

	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		ri, rj := ring+uint16(i), ring+uint16(j)
		if dir > 0 {
			g.Indices = append(g.Indices, center, rj, ri)
		} else {
			g.Indices = append(g.Indices, center, ri, rj)
		}
	}
}

// Cone builds a cylinder whose top ring has degenerated to a point.
func Cone(radius, height float64, segments int) *Geometry {
	return Cylinder(0, radius, height, segments)
}
