package tree

import (
	"path/filepath"
	"strings"
)

// Predicate decides whether a path is eligible. Predicates look only at the
// path string and never touch the filesystem.
type Predicate func(path string) bool

// HasSuffix matches paths ending in any of the given suffixes. Matching is
// case-sensitive.
func HasSuffix(suffixes ...string) Predicate {
	return func(path string) bool {
		for _, s := range suffixes {
			if strings.HasSuffix(path, s) {
				return true
			}
		}
		return false
	}
}

// Not inverts p.
func Not(p Predicate) Predicate {
	return func(path string) bool { return !p(path) }
}

// Except rejects the given paths (compared after cleaning) and accepts
// everything else.
func Except(paths ...string) Predicate {
	skip := make(map[string]bool, len(paths))
	for _, p := range paths {
		skip[filepath.Clean(p)] = true
	}
	return func(path string) bool { return !skip[filepath.Clean(path)] }
}
