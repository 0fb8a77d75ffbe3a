package transform

import (
	"bytes"
	"encoding/binary"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/packopt/pkg/errors"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// colorChunks change how decoded pixels are rendered. image/png drops them
// on encode.
var colorChunks = map[string]bool{
	"gAMA": true,
	"cHRM": true,
	"sRGB": true,
	"iCCP": true,
	"sBIT": true,
}

// RecompressPNG decodes a PNG and re-encodes it losslessly at the best
// compression level. When the result is not smaller, data is returned
// unchanged, so a pass never grows a file. Files carrying colour
// management chunks are also returned unchanged.
func RecompressPNG(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, errors.New(errors.ErrCodeCodec, "decode png: missing png signature")
	}
	if hasColorChunk(data) {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "decode png")
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "encode png")
	}

	if buf.Len() >= len(data) {
		return data, nil
	}
	return buf.Bytes(), nil
}

// hasColorChunk walks the chunk list up to IEND. A malformed list stops the
// walk and is left for the decoder to report.
func hasColorChunk(data []byte) bool {
	rest := data[len(pngSignature):]
	for len(rest) >= 12 {
		n := binary.BigEndian.Uint32(rest[:4])
		typ := string(rest[4:8])
		if colorChunks[typ] {
			return true
		}
		if typ == "IEND" || uint64(n) > uint64(len(rest)-12) {
			return false
		}
		rest = rest[12+n:]
	}
	return false
}
