package stage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/packopt/pkg/errors"
	"github.com/matzehuels/packopt/pkg/transform"
	"github.com/matzehuels/packopt/pkg/tree"
)

// Stage names, in pipeline order.
const (
	NameJSON   = "json"
	NameYAML   = "yaml"
	NameShader = "shader"
	NamePNG    = "png"
)

// Stage describes one in-place transform over the working tree.
type Stage struct {
	Name      string
	Prompt    string // shown by the confirmation gate
	Verb      string // completion log, e.g. "Minified"
	Noun      string // completion log, e.g. "json-like files"
	Match     tree.Predicate
	Transform transform.Func
	Policy    Policy
}

// Defaults returns the transform stages in the order the pipeline runs them.
func Defaults() []Stage {
	return []Stage{
		{
			Name:      NameJSON,
			Prompt:    "Minify all .json and .mcmeta files",
			Verb:      "Minified",
			Noun:      "json-like files",
			Match:     tree.HasSuffix(".json", ".mcmeta"),
			Transform: transform.MinifyJSON,
			Policy:    Parallel,
		},
		{
			Name:      NameYAML,
			Prompt:    "Minify all .yml and .yaml files",
			Verb:      "Minified",
			Noun:      "yaml-like files",
			Match:     tree.HasSuffix(".yml", ".yaml"),
			Transform: transform.MinifyYAML,
			Policy:    Parallel,
		},
		{
			Name:      NameShader,
			Prompt:    "Minify all .vsh and .fsh files",
			Verb:      "Minified",
			Noun:      "shader files",
			Match:     tree.HasSuffix(".vsh", ".fsh"),
			Transform: transform.StripShaderComments,
			Policy:    Parallel,
		},
		{
			Name:      NamePNG,
			Prompt:    "Compress all .png files",
			Verb:      "Compressed",
			Noun:      "png files",
			Match:     tree.HasSuffix(".png"),
			Transform: transform.RecompressPNG,
			Policy:    Sequential,
		},
	}
}

// Apply walks root fresh and rewrites every file matched by s in place.
func (e *Executor) Apply(ctx context.Context, root string, s Stage) (Report, error) {
	files, err := tree.Walk(root, tree.FilesOnly, s.Match)
	if err != nil {
		return Report{Stage: s.Name}, fmt.Errorf("%s stage: %w", s.Name, err)
	}

	report, err := e.Run(ctx, s.Name, files, s.Policy, Rewrite(root, root, s.Transform))
	if err != nil {
		return report, fmt.Errorf("%s stage: %w", s.Name, err)
	}
	e.done(report, s.Verb, s.Noun)
	return report, nil
}

// Rewrite returns a unit that reads a file under from, transforms it and
// writes the result to the same relative path under to. When from and to are
// the same root the file is rewritten in place.
func Rewrite(from, to string, fn transform.Func) UnitFunc {
	return func(_ context.Context, e tree.Entry) error {
		info, err := os.Stat(e.Path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "stat %s", e.Path)
		}
		data, err := os.ReadFile(e.Path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "read %s", e.Path)
		}

		out, err := fn(data)
		if err != nil {
			return errors.WithCode(errors.ErrCodeInternal, err, "transform %s", e.Path)
		}

		dst, err := tree.Map(e.Path, from, to)
		if err != nil {
			return err
		}
		if dst == e.Path && bytes.Equal(out, data) {
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "create directory %s", filepath.Dir(dst))
		}
		if err := os.WriteFile(dst, out, info.Mode().Perm()); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "write %s", dst)
		}
		return nil
	}
}
