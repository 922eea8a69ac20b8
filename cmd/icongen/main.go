// Command icongen rasterizes the procedural app icon at a set of
// square sizes and writes each one as a PNG into the output directory.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/karlerikg/edwardbolt/pkg/icon"
	"github.com/karlerikg/edwardbolt/pkg/pngenc"
)

// iconSizes are the square resolutions emitted on every run.
var iconSizes = []int{512, 192}

// outDir is where the .png files land, relative to the working directory.
const outDir = "assets/icons"

func main() {
	if err := run(outDir); err != nil {
		log.Fatalf("icongen: %v", err)
	}
}

func run(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, size := range iconSizes {
		img := icon.Paint(size)

		path := filepath.Join(outDir, fmt.Sprintf("icon-%d.png", size))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := pngenc.Encode(f, img); err != nil {
			f.Close()
			return fmt.Errorf("encode %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}

		log.Printf("wrote %s (%dx%d)", path, size, size)
	}

	log.Printf("generated %d icon(s) in %s", len(iconSizes), outDir)
	return nil
}
