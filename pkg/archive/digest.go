package archive

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/packopt/pkg/errors"
)

// Digest names a checksum algorithm.
type Digest string

// Supported digests.
const (
	SHA1   Digest = "sha1"
	SHA256 Digest = "sha256"
	XXHash Digest = "xxhash"
)

// DefaultDigest is the digest reported when none is configured.
const DefaultDigest = SHA1

// checksumBufferSize is the fixed read buffer used while hashing.
const checksumBufferSize = 1024

// ParseDigest parses a digest name (case-insensitive). Empty selects the default.
func ParseDigest(s string) (Digest, error) {
	switch d := Digest(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DefaultDigest, nil
	case SHA1, SHA256, XXHash:
		return d, nil
	default:
		return "", errors.New(errors.ErrCodeValidation, "invalid digest: %q (must be one of: sha1, sha256, xxhash)", s)
	}
}

// New returns a fresh hash for d.
func (d Digest) New() hash.Hash {
	switch d {
	case SHA256:
		return sha256.New()
	case XXHash:
		return xxhash.New()
	default:
		return sha1.New()
	}
}

// Label returns the display name, e.g. "SHA-1".
func (d Digest) Label() string {
	switch d {
	case SHA256:
		return "SHA-256"
	case XXHash:
		return "XXH64"
	default:
		return "SHA-1"
	}
}

// Checksum streams the file at path through d using a fixed-size buffer and
// returns the hex-encoded sum.
func Checksum(path string, d Digest) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	h := d.New()
	buf := make([]byte, checksumBufferSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
