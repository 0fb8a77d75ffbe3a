package tree

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/packopt/pkg/errors"
)

// Rel returns path relative to root. It fails if path does not lie within root.
func Rel(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "strip prefix %s from %s", root, path)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New(errors.ErrCodeInternal, "%s is not inside %s", path, root)
	}
	return rel, nil
}

// Map moves path from root from onto root to, keeping its relative position.
func Map(path, from, to string) (string, error) {
	rel, err := Rel(from, path)
	if err != nil {
		return "", err
	}
	return filepath.Join(to, rel), nil
}

// Within reports whether path equals root or lies below it. Both paths are
// made absolute and cleaned first.
func Within(root, path string) (bool, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false, nil
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)), nil
}
