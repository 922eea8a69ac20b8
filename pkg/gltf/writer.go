// Package gltf serializes merged meshes into binary glTF 2.0 (GLB)
// containers: a 12-byte header, one JSON metadata chunk and one binary
// buffer chunk, with the alignment and padding rules the format
// requires. The writer assumes well-formed merger output and performs
// no input validation of its own.
package gltf

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/karlerikg/edwardbolt/pkg/scene"
)

const (
	glbMagic   = 0x46546C67 // "glTF"
	glbVersion = 2

	chunkTypeJSON = 0x4E4F534A // "JSON"
	chunkTypeBIN  = 0x004E4942 // "BIN\0"

	headerSize      = 12
	chunkHeaderSize = 8
)

// generator is written into the asset metadata of every container.
const generator = "edwardbolt-furnituregen"

// Encode serializes a merged mesh into a complete GLB artifact. The
// node inside the container carries the given name.
func Encode(m *scene.Mesh, name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, m, name); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write serializes a merged mesh as GLB to w. The total length in the
// header is computed from the finalized chunk sizes before any byte is
// emitted.
func Write(w io.Writer, m *scene.Mesh, name string) error {
	bin := buildBinChunk(m)
	doc := buildDocument(m, name, len(bin))

	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("gltf: marshal metadata: %w", err)
	}
	// The JSON chunk is padded to 4-byte alignment with spaces so the
	// chunk stays valid JSON-with-trailing-whitespace.
	jsonBytes = pad(jsonBytes, ' ')

	total := headerSize +
		chunkHeaderSize + len(jsonBytes) +
		chunkHeaderSize + len(bin)

	var out bytes.Buffer
	out.Grow(total)

	writeU32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		out.Write(b[:])
	}

	writeU32(glbMagic)
	writeU32(glbVersion)
	writeU32(uint32(total))

	writeU32(uint32(len(jsonBytes)))
	writeU32(chunkTypeJSON)
	out.Write(jsonBytes)

	writeU32(uint32(len(bin)))
	writeU32(chunkTypeBIN)
	out.Write(bin)

	if _, err := w.Write(out.Bytes()); err != nil {
		return fmt.Errorf("gltf: write container: %w", err)
	}
	return nil
}

// buildBinChunk lays out the four buffer regions back to back:
// indices (zero-padded to a 4-byte boundary), positions, normals,
// colors. The float regions are 4-byte aligned by construction.
func buildBinChunk(m *scene.Mesh) []byte {
	indexBytes := 2 * len(m.Indices)
	floatBytes := 4 * len(m.Positions)
	size := align4(indexBytes) + 3*floatBytes

	bin := make([]byte, 0, size)
	var b [4]byte

	for _, idx := range m.Indices {
		binary.LittleEndian.PutUint16(b[:2], idx)
		bin = append(bin, b[:2]...)
	}
	bin = pad(bin, 0)

	for _, region := range [][]float32{m.Positions, m.Normals, m.Colors} {
		for _, f := range region {
			binary.LittleEndian.PutUint32(b[:], math.Float32bits(f))
			bin = append(bin, b[:]...)
		}
	}
	return bin
}

// buildDocument assembles the metadata chunk: one mesh with one
// primitive referencing three vertex attributes and the index list,
// buffer views for the four regions, and accessors carrying element
// types and the position bounding box.
func buildDocument(m *scene.Mesh, name string, binLen int) document {
	vcount := m.VertexCount()
	indexBytes := 2 * len(m.Indices)
	floatBytes := 4 * len(m.Positions)

	posOffset := align4(indexBytes)
	normOffset := posOffset + floatBytes
	colorOffset := normOffset + floatBytes

	min, max := m.Bounds()

	return document{
		Asset: asset{Version: "2.0", Generator: generator},
		Scene: 0,
		Scenes: []sceneDef{
			{Nodes: []int{0}},
		},
		Nodes: []node{
			{Mesh: 0, Name: name},
		},
		Meshes: []mesh{
			{Primitives: []primitive{{
				Attributes: map[string]int{
					"POSITION": 1,
					"NORMAL":   2,
					"COLOR_0":  3,
				},
				Indices: 0,
			}}},
		},
		Accessors: []accessor{
			{BufferView: 0, ComponentType: componentUnsignedShort, Count: len(m.Indices), Type: "SCALAR"},
			{
				BufferView:    1,
				ComponentType: componentFloat,
				Count:         vcount,
				Type:          "VEC3",
				Min:           []float64{min.X, min.Y, min.Z},
				Max:           []float64{max.X, max.Y, max.Z},
			},
			{BufferView: 2, ComponentType: componentFloat, Count: vcount, Type: "VEC3"},
			{BufferView: 3, ComponentType: componentFloat, Count: vcount, Type: "VEC3"},
		},
		BufferViews: []bufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: indexBytes, Target: targetElementArrayBuffer},
			{Buffer: 0, ByteOffset: posOffset, ByteLength: floatBytes, Target: targetArrayBuffer},
			{Buffer: 0, ByteOffset: normOffset, ByteLength: floatBytes, Target: targetArrayBuffer},
			{Buffer: 0, ByteOffset: colorOffset, ByteLength: floatBytes, Target: targetArrayBuffer},
		},
		Buffers: []buffer{
			{ByteLength: binLen},
		},
	}
}

// align4 rounds n up to the next multiple of 4.
func align4(n int) int {
	return (n + 3) &^ 3
}

// pad appends filler bytes until the slice length is 4-byte aligned.
func pad(b []byte, filler byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, filler)
	}
	return b
}
