package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/packopt/pkg/errors"
	"github.com/matzehuels/packopt/pkg/observability"
	"github.com/matzehuels/packopt/pkg/tree"
)

// DefaultLevel is the deflate level used when Options.Level is zero.
const DefaultLevel = flate.BestCompression

// Options configures archive writing.
type Options struct {
	Digest Digest
	// Level is the deflate level, 1 (fastest) to 9 (best). Zero selects DefaultLevel.
	Level int
}

// DefaultOptions returns SHA-1 digest and best compression.
func DefaultOptions() Options {
	return Options{Digest: DefaultDigest, Level: DefaultLevel}
}

// Validate checks the digest and level and fills in defaults.
func (o *Options) Validate() error {
	d, err := ParseDigest(string(o.Digest))
	if err != nil {
		return err
	}
	o.Digest = d
	if o.Level == 0 {
		o.Level = DefaultLevel
	}
	if o.Level < flate.BestSpeed || o.Level > flate.BestCompression {
		return errors.New(errors.ErrCodeValidation, "invalid compression level: %d (must be between %d and %d)",
			o.Level, flate.BestSpeed, flate.BestCompression)
	}
	return nil
}

// Summary describes a finished archive.
type Summary struct {
	Path     string
	Files    int
	Bytes    int64
	Digest   Digest
	Sum      string
	Duration time.Duration
}

// Write zips every file under root into dest and digests the result. If
// dest lies inside root it is left out of the archive. A partially written
// archive is removed on failure.
func Write(ctx context.Context, root, dest string, opts Options) (sum *Summary, err error) {
	start := time.Now()
	defer func() {
		var files int
		var size int64
		if sum != nil {
			files, size = sum.Files, sum.Bytes
		}
		observability.Pipeline().OnArchive(ctx, dest, files, size, time.Since(start), err)
	}()

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if root, err = filepath.Abs(root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "resolve archive root")
	}
	if dest, err = filepath.Abs(dest); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "resolve archive path")
	}

	entries, err := tree.Walk(root, tree.All, tree.Except(dest))
	if err != nil {
		return nil, err
	}

	files, err := writeZip(ctx, root, dest, entries, opts.Level)
	if err != nil {
		_ = os.Remove(dest)
		return nil, err
	}

	info, err := os.Stat(dest)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "stat %s", dest)
	}
	checksum, err := Checksum(dest, opts.Digest)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Path:     dest,
		Files:    files,
		Bytes:    info.Size(),
		Digest:   opts.Digest,
		Sum:      checksum,
		Duration: time.Since(start),
	}, nil
}

func writeZip(ctx context.Context, root, dest string, entries []tree.Entry, level int) (files int, err error) {
	f, err := os.Create(dest)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeIO, err, "create %s", dest)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeIO, cerr, "close %s", dest)
		}
	}()

	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return files, err
		}
		if err := addFile(zw, root, e.Path); err != nil {
			return files, err
		}
		files++
	}

	if err := zw.Close(); err != nil {
		return files, errors.Wrap(errors.ErrCodeIO, err, "finish %s", dest)
	}
	return files, nil
}

func addFile(zw *zip.Writer, root, path string) error {
	rel, err := tree.Rel(root, path)
	if err != nil {
		return err
	}

	in, err := os.Open(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "stat %s", path)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "zip header %s", path)
	}
	header.Name = filepath.ToSlash(rel)
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "start entry %s", header.Name)
	}
	if _, err := io.Copy(w, in); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write entry %s", header.Name)
	}
	return nil
}
