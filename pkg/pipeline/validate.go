package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/packopt/pkg/errors"
	"github.com/matzehuels/packopt/pkg/tree"
)

// ValidatePaths checks the input and output directories. The input must be
// an existing directory, the output must be an existing directory, they must
// differ, and the output must not be nested inside the input. Paths are
// compared in absolute, symlink-resolved form.
func ValidatePaths(input, output string) error {
	_, _, err := resolvePaths(input, output)
	return err
}

func resolvePaths(input, output string) (string, string, error) {
	if input == "" {
		return "", "", errors.New(errors.ErrCodeValidation, "Input directory is required")
	}
	if output == "" {
		return "", "", errors.New(errors.ErrCodeValidation, "Output directory is required")
	}

	in, ok := resolveDir(input)
	if !ok {
		return "", "", errors.New(errors.ErrCodeValidation, "Input directory does not exist or is not a directory")
	}
	out, ok := resolveDir(output)
	if !ok {
		return "", "", errors.New(errors.ErrCodeValidation, "Output directory does not exist or is not a directory")
	}

	if in == out {
		return "", "", errors.New(errors.ErrCodeValidation, "Input directory is the same as output directory")
	}
	nested, err := tree.Within(in, out)
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeValidation, err, "compare input and output directories")
	}
	if nested {
		return "", "", errors.New(errors.ErrCodeValidation, "Output directory is a subdirectory or a descendant of input directory")
	}
	return in, out, nil
}

// ValidateZipName rejects archive names that are not a single file name,
// so the archive always lands directly inside the output directory.
func ValidateZipName(name string) error {
	if name == "" {
		return nil
	}
	clean := filepath.Clean(name)
	if clean == "." || clean == ".." || filepath.IsAbs(name) ||
		strings.ContainsAny(name, `/`+string(filepath.Separator)) {
		return errors.New(errors.ErrCodeValidation, "zip name %q must be a file name without directories", name)
	}
	return nil
}

func resolveDir(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", false
	}
	info, err := os.Stat(resolved)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return resolved, true
}
