package tree

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/matzehuels/packopt/pkg/errors"
)

// Kind discriminates filesystem entries.
type Kind int

const (
	KindFile Kind = iota
	KindDir
)

// String returns "file" or "dir".
func (k Kind) String() string {
	if k == KindDir {
		return "dir"
	}
	return "file"
}

// Entry is a path discovered under a root plus its kind.
type Entry struct {
	Path string
	Kind Kind
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool { return e.Kind == KindDir }

// Mode selects which kinds of entries a walk reports.
type Mode int

const (
	All Mode = iota
	FilesOnly
	DirsOnly
)

func (m Mode) accepts(k Kind) bool {
	switch m {
	case FilesOnly:
		return k == KindFile
	case DirsOnly:
		return k == KindDir
	default:
		return true
	}
}

// Walk lists the entries below root. Entries rejected by pred are not
// reported, but rejected directories are still descended into. A nil pred
// reports everything. Any directory that cannot be read aborts the walk.
func Walk(root string, mode Mode, pred Predicate) ([]Entry, error) {
	var entries []Entry
	if err := walk(root, mode, pred, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func walk(dir string, mode Mode, pred Predicate, out *[]Entry) error {
	children, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "read directory %s", dir)
	}

	for _, child := range children {
		path := filepath.Join(dir, child.Name())
		kind, ok, err := classify(path, child)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		if (pred == nil || pred(path)) && mode.accepts(kind) {
			*out = append(*out, Entry{Path: path, Kind: kind})
		}

		if kind == KindDir {
			if err := walk(path, mode, pred, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// classify resolves symlinks to their target kind. Entries that are neither
// regular files nor directories are skipped.
func classify(path string, d fs.DirEntry) (Kind, bool, error) {
	t := d.Type()
	if t&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			return 0, false, errors.Wrap(errors.ErrCodeIO, err, "resolve symlink %s", path)
		}
		t = info.Mode().Type()
	}
	switch {
	case t.IsDir():
		return KindDir, true, nil
	case t.IsRegular():
		return KindFile, true, nil
	default:
		return 0, false, nil
	}
}
