package scene_test

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/karlerikg/edwardbolt/pkg/geom"
	"github.com/karlerikg/edwardbolt/pkg/scene"
)

const epsilon = 1e-6

// boxPart places a unit box with the given transform and color.
func boxPart(at v3.Vec, rotY float64, c scene.Color) scene.Part {
	return scene.Part{
		Geometry:    geom.Box(1, 1, 1),
		Translation: at,
		RotationY:   rotY,
		Color:       c,
	}
}

func TestMergeEmptyParts(t *testing.T) {
	m, err := scene.Merge(nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if m.VertexCount() != 0 || m.TriangleCount() != 0 {
		t.Errorf("expected empty mesh, got %d verts, %d tris", m.VertexCount(), m.TriangleCount())
	}
}

func TestMergeSinglePartZeroTransform(t *testing.T) {
	g := geom.Box(2, 2, 2)
	m, err := scene.Merge([]scene.Part{{Geometry: g, Color: scene.Color{R: 1, G: 0.5, B: 0}}})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if m.VertexCount() != g.VertexCount() {
		t.Fatalf("vertex count = %d, want %d", m.VertexCount(), g.VertexCount())
	}

	// With no rotation or translation, positions and normals pass through
	// unchanged up to float32 rounding.
	for i, p := range g.Positions {
		if math.Abs(float64(m.Positions[3*i])-p.X) > epsilon ||
			math.Abs(float64(m.Positions[3*i+1])-p.Y) > epsilon ||
			math.Abs(float64(m.Positions[3*i+2])-p.Z) > epsilon {
			t.Fatalf("position %d changed under identity transform", i)
		}
		n := g.Normals[i]
		if math.Abs(float64(m.Normals[3*i])-n.X) > epsilon ||
			math.Abs(float64(m.Normals[3*i+1])-n.Y) > epsilon ||
			math.Abs(float64(m.Normals[3*i+2])-n.Z) > epsilon {
			t.Fatalf("normal %d changed under identity transform", i)
		}
	}

	// Flat color replicated per vertex.
	for i := 0; i < m.VertexCount(); i++ {
		if m.Colors[3*i] != 1 || m.Colors[3*i+1] != 0.5 || m.Colors[3*i+2] != 0 {
			t.Fatalf("vertex %d color = (%g, %g, %g), want (1, 0.5, 0)",
				i, m.Colors[3*i], m.Colors[3*i+1], m.Colors[3*i+2])
		}
	}
}

func TestMergeTranslation(t *testing.T) {
	at := v3.Vec{X: 3, Y: -1, Z: 2}
	m, err := scene.Merge([]scene.Part{boxPart(at, 0, scene.Color{})})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	min, max := m.Bounds()
	wantMin := v3.Vec{X: 2.5, Y: -1.5, Z: 1.5}
	wantMax := v3.Vec{X: 3.5, Y: -0.5, Z: 2.5}
	if min.Sub(wantMin).Length() > epsilon || max.Sub(wantMax).Length() > epsilon {
		t.Errorf("bounds [%+v, %+v], want [%+v, %+v]", min, max, wantMin, wantMax)
	}
}

func TestMergeRotationBeforeTranslation(t *testing.T) {
	// Rotate a tall thin box a quarter turn about the vertical axis: its
	// X extent and Z extent swap. Then translate. If the order were
	// reversed, the translation offset would be rotated too.
	g := geom.Box(4, 1, 2)
	at := v3.Vec{X: 10, Y: 0, Z: 0}
	m, err := scene.Merge([]scene.Part{{Geometry: g, Translation: at, RotationY: math.Pi / 2}})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	min, max := m.Bounds()
	if math.Abs(max.X-min.X-2) > epsilon {
		t.Errorf("rotated X extent = %g, want 2", max.X-min.X)
	}
	if math.Abs(max.Z-min.Z-4) > epsilon {
		t.Errorf("rotated Z extent = %g, want 4", max.Z-min.Z)
	}
	center := min.Add(max).MulScalar(0.5)
	if center.Sub(at).Length() > epsilon {
		t.Errorf("center = %+v, want %+v", center, at)
	}
}

func TestMergeRotationPreservesY(t *testing.T) {
	g := geom.Cylinder(0.1, 0.2, 1.0, 12)
	m, err := scene.Merge([]scene.Part{{Geometry: g, RotationY: 1.234}})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	// Rotation about the vertical axis never moves a vertex vertically.
	for i, p := range g.Positions {
		if math.Abs(float64(m.Positions[3*i+1])-p.Y) > epsilon {
			t.Fatalf("vertex %d Y moved under Y-axis rotation", i)
		}
	}
}

func TestMergeNormalsIgnoreTranslation(t *testing.T) {
	g := geom.Box(1, 1, 1)
	m, err := scene.Merge([]scene.Part{boxPart(v3.Vec{X: 100, Y: 200, Z: 300}, 0, scene.Color{})})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	for i, n := range g.Normals {
		if math.Abs(float64(m.Normals[3*i])-n.X) > epsilon ||
			math.Abs(float64(m.Normals[3*i+1])-n.Y) > epsilon ||
			math.Abs(float64(m.Normals[3*i+2])-n.Z) > epsilon {
			t.Fatalf("normal %d affected by translation", i)
		}
	}
}

func TestMergeNormalsStayUnit(t *testing.T) {
	g := geom.Sphere(1, 8, 6)
	m, err := scene.Merge([]scene.Part{{Geometry: g, RotationY: 0.7}})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	for i := 0; i < m.VertexCount(); i++ {
		n := v3.Vec{
			X: float64(m.Normals[3*i]),
			Y: float64(m.Normals[3*i+1]),
			Z: float64(m.Normals[3*i+2]),
		}
		if math.Abs(n.Length()-1) > 1e-5 {
			t.Fatalf("normal %d has length %g after rotation", i, n.Length())
		}
	}
}

func TestMergeIndexRebasing(t *testing.T) {
	a := geom.Box(1, 1, 1)
	b := geom.Box(2, 2, 2)
	m, err := scene.Merge([]scene.Part{{Geometry: a}, {Geometry: b}})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if m.VertexCount() != a.VertexCount()+b.VertexCount() {
		t.Fatalf("vertex count = %d, want %d", m.VertexCount(), a.VertexCount()+b.VertexCount())
	}
	if m.TriangleCount() != a.TriangleCount()+b.TriangleCount() {
		t.Fatalf("triangle count = %d, want %d", m.TriangleCount(), a.TriangleCount()+b.TriangleCount())
	}

	// The second part's indices are shifted by the first part's vertex count.
	off := len(a.Indices)
	for i, idx := range b.Indices {
		want := uint16(a.VertexCount()) + idx
		if m.Indices[off+i] != want {
			t.Fatalf("index %d = %d, want %d", off+i, m.Indices[off+i], want)
		}
	}

	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestMergePartOrderPreserved(t *testing.T) {
	red := scene.Color{R: 1}
	blue := scene.Color{B: 1}
	m, err := scene.Merge([]scene.Part{
		boxPart(v3.Vec{}, 0, red),
		boxPart(v3.Vec{X: 5}, 0, blue),
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	// First 24 vertices red, next 24 blue.
	if m.Colors[0] != 1 || m.Colors[2] != 0 {
		t.Error("first part's color is not first in the buffer")
	}
	last := m.VertexCount() - 1
	if m.Colors[3*last] != 0 || m.Colors[3*last+2] != 1 {
		t.Error("second part's color is not last in the buffer")
	}
}

func TestMergeDeterministic(t *testing.T) {
	parts := []scene.Part{
		boxPart(v3.Vec{X: 1}, 0.3, scene.Color{R: 0.5}),
		{Geometry: geom.Sphere(0.5, 8, 6), RotationY: 1.1},
	}

	a, err := scene.Merge(parts)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	b, err := scene.Merge(parts)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	for i := range a.Positions {
		if a.Positions[i] != b.Positions[i] {
			t.Fatalf("position %d differs between identical merges", i)
		}
	}
	for i := range a.Indices {
		if a.Indices[i] != b.Indices[i] {
			t.Fatalf("index %d differs between identical merges", i)
		}
	}
}

func TestMergeVertexOverflow(t *testing.T) {
	// 2731 boxes exceed the 65536-vertex index space (2731 * 24 = 65544).
	g := geom.Box(1, 1, 1)
	parts := make([]scene.Part, 2731)
	for i := range parts {
		parts[i] = scene.Part{Geometry: g}
	}

	if _, err := scene.Merge(parts); err == nil {
		t.Error("expected vertex overflow error")
	}
}

func TestSceneAddPiece(t *testing.T) {
	sc := scene.New()

	if err := sc.AddPiece(scene.Piece{Name: "table", Parts: []scene.Part{boxPart(v3.Vec{}, 0, scene.Color{})}}); err != nil {
		t.Fatalf("AddPiece: %v", err)
	}
	if err := sc.AddPiece(scene.Piece{Name: "chair"}); err != nil {
		t.Fatalf("AddPiece: %v", err)
	}

	if sc.PieceCount() != 2 {
		t.Errorf("piece count = %d, want 2", sc.PieceCount())
	}
	if p := sc.Lookup("table"); p == nil {
		t.Error("Lookup(table) failed")
	} else if len(p.Parts) != 1 {
		t.Errorf("table has %d parts, want 1", len(p.Parts))
	}
	if sc.Lookup("sofa") != nil {
		t.Error("Lookup(sofa) unexpectedly succeeded")
	}

	// Names are unique.
	if err := sc.AddPiece(scene.Piece{Name: "table"}); err == nil {
		t.Error("expected duplicate name error")
	}
}
