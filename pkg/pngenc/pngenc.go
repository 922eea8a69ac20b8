// Package pngenc encodes RGBA rasters into PNG containers using
// uncompressed (stored) deflate blocks inside the zlib envelope.
// Trading file size for simplicity is intentional: the output is still
// a fully conformant PNG that any standard decoder reads back
// byte-for-byte, it just skips entropy coding.
package pngenc

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"io"
)

// signature is the fixed 8-byte PNG file signature.
var signature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

const (
	bitDepth      = 8
	colorTypeRGBA = 6
	filterNone    = 0
)

// Encode writes img to w as a PNG container: signature, IHDR, a single
// IDAT holding the whole zlib-wrapped pixel stream, and IEND. Every
// row is prefixed with the mandatory filter-type byte (0, no filter)
// before compression.
//
// Encoding is total over well-formed images; the only errors are
// writer failures.
func Encode(w io.Writer, img *image.NRGBA) error {
	if _, err := w.Write(signature); err != nil {
		return fmt.Errorf("pngenc: signature: %w", err)
	}

	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(height))
	ihdr[8] = bitDepth
	ihdr[9] = colorTypeRGBA
	// compression 0, filter 0, interlace 0
	if err := writeChunk(w, "IHDR", ihdr[:]); err != nil {
		return err
	}

	idat, err := compressPixels(img, width, height)
	if err != nil {
		return err
	}
	if err := writeChunk(w, "IDAT", idat); err != nil {
		return err
	}

	return writeChunk(w, "IEND", nil)
}

// compressPixels produces the zlib envelope for the filtered row
// stream. zlib at NoCompression emits exactly the stored-block layout
// this format wants: a 2-byte header, stored deflate blocks capped at
// 65535 bytes with a final-block flag and one's-complement length
// check, and a trailing big-endian Adler-32 of the filtered stream.
func compressPixels(img *image.NRGBA, width, height int) ([]byte, error) {
	raw := make([]byte, 0, height*(1+4*width))
	for y := 0; y < height; y++ {
		raw = append(raw, filterNone)
		row := img.Pix[y*img.Stride : y*img.Stride+4*width]
		raw = append(raw, row...)
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.NoCompression)
	if err != nil {
		return nil, fmt.Errorf("pngenc: zlib writer: %w", err)
	}
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("pngenc: compress rows: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("pngenc: flush rows: %w", err)
	}
	return buf.Bytes(), nil
}

// writeChunk frames one PNG chunk: big-endian payload length, 4-byte
// ASCII type, payload, and a CRC-32 over type+payload using the
// standard reversed-polynomial table.
func writeChunk(w io.Writer, typ string, payload []byte) error {
	var head [8]byte
	binary.BigEndian.PutUint32(head[0:4], uint32(len(payload)))
	copy(head[4:8], typ)

	crc := crc32.NewIEEE()
	crc.Write(head[4:8])
	crc.Write(payload)

	var tail [4]byte
	binary.BigEndian.PutUint32(tail[:], crc.Sum32())

	for _, part := range [][]byte{head[:], payload, tail[:]} {
		if _, err := w.Write(part); err != nil {
			return fmt.Errorf("pngenc: chunk %s: %w", typ, err)
		}
	}
	return nil
}
