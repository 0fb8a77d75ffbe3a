package transform

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/matzehuels/packopt/pkg/errors"
)

// fixturePNG returns an uncompressed PNG with a simple repeating pattern.
func fixturePNG(t *testing.T) ([]byte, image.Image) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.NoCompression}
	if err := enc.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes(), img
}

func TestRecompressPNGShrinksLosslessly(t *testing.T) {
	data, want := fixturePNG(t)

	out, err := RecompressPNG(data)
	if err != nil {
		t.Fatalf("RecompressPNG() error = %v", err)
	}
	if len(out) >= len(data) {
		t.Errorf("RecompressPNG() size = %d, want < %d", len(out), len(data))
	}

	got, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	b := want.Bounds()
	if got.Bounds() != b {
		t.Fatalf("bounds = %v, want %v", got.Bounds(), b)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r1, g1, b1, a1 := got.At(x, y).RGBA()
			r2, g2, b2, a2 := want.At(x, y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				t.Fatalf("pixel (%d,%d) differs", x, y)
			}
		}
	}
}

func TestRecompressPNGNeverGrows(t *testing.T) {
	data, _ := fixturePNG(t)
	once, err := RecompressPNG(data)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := RecompressPNG(once)
	if err != nil {
		t.Fatal(err)
	}
	if len(twice) > len(once) {
		t.Errorf("second pass grew file: %d > %d", len(twice), len(once))
	}
}

// withChunk inserts a chunk right after IHDR.
func withChunk(data []byte, typ string, body []byte) []byte {
	const ihdrEnd = 8 + 4 + 4 + 13 + 4
	chunk := make([]byte, 8, 12+len(body))
	binary.BigEndian.PutUint32(chunk, uint32(len(body)))
	copy(chunk[4:], typ)
	chunk = append(chunk, body...)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(chunk[4:]))

	out := append([]byte{}, data[:ihdrEnd]...)
	out = append(out, chunk...)
	return append(out, data[ihdrEnd:]...)
}

func TestRecompressPNGKeepsColorManagedFiles(t *testing.T) {
	data, _ := fixturePNG(t)

	tests := []struct {
		name string
		typ  string
		body []byte
	}{
		{"gamma", "gAMA", []byte{0, 0, 0xb1, 0x8f}},
		{"srgb", "sRGB", []byte{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := withChunk(data, tt.typ, tt.body)
			if _, err := png.Decode(bytes.NewReader(input)); err != nil {
				t.Fatalf("fixture does not decode: %v", err)
			}

			out, err := RecompressPNG(input)
			if err != nil {
				t.Fatalf("RecompressPNG() error = %v", err)
			}
			if !bytes.Equal(out, input) {
				t.Errorf("RecompressPNG() rewrote a file carrying %s", tt.typ)
			}
		})
	}
}

func TestRecompressPNGDropsTextChunks(t *testing.T) {
	data, _ := fixturePNG(t)
	input := withChunk(data, "tEXt", []byte("Comment\x00hi"))

	out, err := RecompressPNG(input)
	if err != nil {
		t.Fatalf("RecompressPNG() error = %v", err)
	}
	if len(out) >= len(input) {
		t.Errorf("RecompressPNG() size = %d, want < %d", len(out), len(input))
	}
}

func TestRecompressPNGErrors(t *testing.T) {
	data, _ := fixturePNG(t)

	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", nil},
		{"not a png", []byte("GIF89a")},
		{"truncated", data[:40]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RecompressPNG(tt.input)
			if err == nil {
				t.Fatal("RecompressPNG() should fail")
			}
			if !errors.Is(err, errors.ErrCodeCodec) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeCodec)
			}
		})
	}
}
