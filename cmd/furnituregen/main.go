// Command furnituregen evaluates the embedded furniture scene script
// and writes one binary glTF (.glb) file per furniture piece into the
// output directory.
package main

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/karlerikg/edwardbolt/pkg/engine"
	"github.com/karlerikg/edwardbolt/pkg/gltf"
	"github.com/karlerikg/edwardbolt/pkg/scene"
)

//go:embed furniture.lisp
var furnitureSource string

// outDir is where the .glb files land, relative to the working directory.
const outDir = "assets/models"

func main() {
	if err := run(outDir); err != nil {
		log.Fatalf("furnituregen: %v", err)
	}
}

func run(outDir string) error {
	eng := engine.New()

	sc, evalErrs, err := eng.Evaluate(furnitureSource)
	if err != nil {
		return fmt.Errorf("evaluate scene script: %w", err)
	}
	if len(evalErrs) > 0 {
		for _, ee := range evalErrs {
			log.Printf("scene script error: %s", ee.Error())
		}
		return fmt.Errorf("scene script failed with %d error(s)", len(evalErrs))
	}
	if sc.PieceCount() == 0 {
		return fmt.Errorf("scene script produced no pieces")
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, piece := range sc.Pieces {
		mesh, err := scene.Merge(piece.Parts)
		if err != nil {
			return fmt.Errorf("merge piece %q: %w", piece.Name, err)
		}
		if err := mesh.Validate(); err != nil {
			return fmt.Errorf("validate piece %q: %w", piece.Name, err)
		}

		data, err := gltf.Encode(mesh, piece.Name)
		if err != nil {
			return fmt.Errorf("encode piece %q: %w", piece.Name, err)
		}

		path := filepath.Join(outDir, piece.Name+".glb")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}

		log.Printf("wrote %s (%d vertices, %d triangles, %d bytes)",
			path, mesh.VertexCount(), mesh.TriangleCount(), len(data))
	}

	log.Printf("generated %d piece(s) in %s", sc.PieceCount(), outDir)
	return nil
}
