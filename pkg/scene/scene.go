// Package scene models placed furniture parts and merges them into
// flat vertex buffers ready for container serialization. A scene is an
// ordered list of named pieces; each piece is an ordered list of placed
// parts. Order is significant: it fixes both the merged vertex-buffer
// layout and draw order, so the same scene always serializes to the
// same bytes.
package scene

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/karlerikg/edwardbolt/pkg/geom"
)

// Color is a flat RGB color with components in [0, 1]. It is applied
// uniformly to every vertex of a placed part.
type Color struct {
	R, G, B float64
}

// Part is a primitive geometry with its placement: a rotation about
// the vertical (Y) axis, a translation, and a flat color. A Part is
// immutable once constructed and consumed exactly once by Merge.
type Part struct {
	Geometry    *geom.Geometry
	Translation v3.Vec
	RotationY   float64 // radians
	Color       Color
}

// Piece is a named, ordered group of placed parts that merges into one
// container artifact.
type Piece struct {
	Name  string
	Parts []Part
}

// Scene is the ordered result of evaluating a scene script.
type Scene struct {
	Pieces []Piece

	names map[string]int
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{names: make(map[string]int)}
}

// AddPiece appends a piece, preserving script order. Duplicate names
// are rejected so output files cannot silently overwrite each other.
func (s *Scene) AddPiece(p Piece) error {
	if _, exists := s.names[p.Name]; exists {
		return fmt.Errorf("scene: piece %q already defined", p.Name)
	}
	s.names[p.Name] = len(s.Pieces)
	s.Pieces = append(s.Pieces, p)
	return nil
}

// Lookup returns the piece with the given name, or nil.
func (s *Scene) Lookup(name string) *Piece {
	i, ok := s.names[name]
	if !ok {
		return nil
	}
	return &s.Pieces[i]
}

// PieceCount returns the number of pieces.
func (s *Scene) PieceCount() int {
	return len(s.Pieces)
}

// PartCount returns the total number of placed parts across all pieces.
func (s *Scene) PartCount() int {
	n := 0
	for _, p := range s.Pieces {
		n += len(p.Parts)
	}
	return n
}
