package stage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/packopt/pkg/errors"
	"github.com/matzehuels/packopt/pkg/tree"
)

// Fixed batch names for the tree-level operations.
const (
	NameClone = "clone"
	NameEmpty = "empty"
)

// DefaultExcludes are the suffixes dropped while cloning the source tree:
// documentation and backup files.
var DefaultExcludes = []string{".md", ".old"}

// KeepFilter returns a predicate that keeps every path not ending in one of
// suffixes. With no suffixes it keeps everything.
func KeepFilter(suffixes ...string) tree.Predicate {
	if len(suffixes) == 0 {
		return nil
	}
	return tree.Not(tree.HasSuffix(suffixes...))
}

// Clone mirrors src into dst. Every directory is recreated, including empty
// ones and ones rejected by keep. Files rejected by keep are skipped; the
// rest are copied byte for byte with their permission bits. A nil keep
// copies everything.
func (e *Executor) Clone(ctx context.Context, src, dst string, keep tree.Predicate) (Report, error) {
	entries, err := tree.Walk(src, tree.All, nil)
	if err != nil {
		return Report{Stage: NameClone}, err
	}

	units := make([]tree.Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || keep == nil || keep(entry.Path) {
			units = append(units, entry)
		}
	}

	report, err := e.Run(ctx, NameClone, units, Parallel, func(_ context.Context, entry tree.Entry) error {
		target, err := tree.Map(entry.Path, src, dst)
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "create directory %s", target)
			}
			return nil
		}
		return copyFile(entry.Path, target)
	})
	if err != nil {
		return report, err
	}
	e.done(report, "Cloned", "directory items")
	return report, nil
}

// Empty removes every child of dir, leaving dir itself in place.
func (e *Executor) Empty(ctx context.Context, dir string) (Report, error) {
	children, err := os.ReadDir(dir)
	if err != nil {
		return Report{Stage: NameEmpty}, errors.Wrap(errors.ErrCodeIO, err, "read directory %s", dir)
	}

	units := make([]tree.Entry, len(children))
	for i, c := range children {
		kind := tree.KindFile
		if c.IsDir() {
			kind = tree.KindDir
		}
		units[i] = tree.Entry{Path: filepath.Join(dir, c.Name()), Kind: kind}
	}

	report, err := e.Run(ctx, NameEmpty, units, Parallel, func(_ context.Context, entry tree.Entry) error {
		if err := os.RemoveAll(entry.Path); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "remove %s", entry.Path)
		}
		return nil
	})
	if err != nil {
		return report, err
	}
	e.done(report, "Emptied", "directory items")
	return report, nil
}

// IsEmpty reports whether dir has no children.
func IsEmpty(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeIO, err, "open directory %s", dir)
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if err == io.EOF {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeIO, err, "read directory %s", dir)
	}
	return false, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "open %s", src)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "stat %s", src)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create directory %s", filepath.Dir(dst))
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", dst)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeIO, cerr, "close %s", dst)
		}
	}()

	if err := out.Chmod(info.Mode().Perm()); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "chmod %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "copy %s to %s", src, dst)
	}
	return nil
}
