package stage

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/packopt/pkg/errors"
	"github.com/matzehuels/packopt/pkg/tree"
)

// writeFiles creates files under root; names ending in "/" become empty directories.
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// snapshot returns relative path -> content for files and "" -> "dir" markers for directories.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	entries, err := tree.Walk(root, tree.All, nil)
	require.NoError(t, err)

	out := map[string]string{}
	for _, e := range entries {
		rel, err := tree.Rel(root, e.Path)
		require.NoError(t, err)
		rel = filepath.ToSlash(rel)
		if e.IsDir() {
			out[rel+"/"] = ""
			continue
		}
		out[rel] = readFile(t, e.Path)
	}
	return out
}

func TestDefaultsOrderAndPolicy(t *testing.T) {
	stages := Defaults()
	require.Len(t, stages, 4)

	var names []string
	for _, s := range stages {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{NameJSON, NameYAML, NameShader, NamePNG}, names)

	for _, s := range stages {
		want := Parallel
		if s.Name == NamePNG {
			want = Sequential
		}
		assert.Equal(t, want, s.Policy, s.Name)
	}
}

func TestDefaultsMatch(t *testing.T) {
	tests := []struct {
		stage string
		path  string
		want  bool
	}{
		{NameJSON, "a/b.json", true},
		{NameJSON, "pack.mcmeta", true},
		{NameJSON, "b.yml", false},
		{NameYAML, "c.yml", true},
		{NameYAML, "c.yaml", true},
		{NameShader, "s.vsh", true},
		{NameShader, "s.fsh", true},
		{NameShader, "s.glsl", false},
		{NamePNG, "i.png", true},
		{NamePNG, "i.PNG", false},
	}

	byName := map[string]Stage{}
	for _, s := range Defaults() {
		byName[s.Name] = s
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, byName[tt.stage].Match(tt.path), "%s matches %s", tt.stage, tt.path)
	}
}

func TestApplyInPlace(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a/b.json":      `{"x": 1,  "y": 2}`,
		"pack.mcmeta":   "{\n  \"pack\": {}\n}\n",
		"c/d.yml":       "k: v\n",
		"shader.fsh":    "vec4 color; // comment\n\n   \nfoo;",
		"untouched.txt": "  keep me  \n",
	})

	e := NewExecutor(2, nil)
	for _, s := range Defaults()[:3] {
		_, err := e.Apply(context.Background(), root, s)
		require.NoError(t, err, s.Name)
	}

	assert.Equal(t, `{"x":1,"y":2}`, readFile(t, filepath.Join(root, "a", "b.json")))
	assert.Equal(t, `{"pack":{}}`, readFile(t, filepath.Join(root, "pack.mcmeta")))
	assert.Equal(t, `{"k":"v"}`, readFile(t, filepath.Join(root, "c", "d.yml")))
	assert.Equal(t, "vec4 color;\nfoo;", readFile(t, filepath.Join(root, "shader.fsh")))
	assert.Equal(t, "  keep me  \n", readFile(t, filepath.Join(root, "untouched.txt")))
}

func TestApplyReportsMatchedFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"1.json": "{}", "2.json": "[]", "x/3.mcmeta": "1", "4.yml": "a: 1",
	})

	report, err := NewExecutor(0, nil).Apply(context.Background(), root, Defaults()[0])
	require.NoError(t, err)
	assert.Equal(t, 3, report.Units)
}

func TestApplyParseErrorIsFatal(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"good.json":   `{"a": 1}`,
		"broken.json": `{"a": `,
	})

	_, err := NewExecutor(1, nil).Apply(context.Background(), root, Defaults()[0])
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeParse), "got %v", err)
	assert.Contains(t, err.Error(), "broken.json")
}

func TestApplyEmptyJSONIsParseError(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"empty.json": "  \n"})

	_, err := NewExecutor(1, nil).Apply(context.Background(), root, Defaults()[0])
	assert.True(t, errors.Is(err, errors.ErrCodeParse), "got %v", err)
}

func TestApplyPNG(t *testing.T) {
	root := t.TempDir()
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	var buf bytes.Buffer
	require.NoError(t, (&png.Encoder{CompressionLevel: png.NoCompression}).Encode(&buf, img))
	path := filepath.Join(root, "textures", "stone.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	report, err := NewExecutor(4, nil).Apply(context.Background(), root, Defaults()[3])
	require.NoError(t, err)
	assert.Equal(t, 1, report.Units)

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Less(t, len(out), buf.Len())
	_, err = png.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
}

func TestApplyCorruptPNGIsCodecError(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"bad.png": "not really a png"})

	_, err := NewExecutor(1, nil).Apply(context.Background(), root, Defaults()[3])
	assert.True(t, errors.Is(err, errors.ErrCodeCodec), "got %v", err)
}

func TestRewriteToOtherRoot(t *testing.T) {
	from, to := t.TempDir(), t.TempDir()
	writeFiles(t, from, map[string]string{"deep/nested/s.vsh": "a; // x\nb;"})

	unit := Rewrite(from, to, Defaults()[2].Transform)
	err := unit(context.Background(), tree.Entry{Path: filepath.Join(from, "deep", "nested", "s.vsh")})
	require.NoError(t, err)

	assert.Equal(t, "a;\nb;", readFile(t, filepath.Join(to, "deep", "nested", "s.vsh")))
	assert.Equal(t, "a; // x\nb;", readFile(t, filepath.Join(from, "deep", "nested", "s.vsh")))
}
