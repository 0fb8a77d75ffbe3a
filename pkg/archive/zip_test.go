package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/packopt/pkg/errors"
)

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

func readZip(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	out := map[string]string{}
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(data)
	}
	return out
}

func TestWriteArchivesFilesOnly(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"pack.mcmeta":                        `{"pack":{"pack_format":15}}`,
		"assets/minecraft/models/block.json": `{"parent":"cube"}`,
		"assets/minecraft/shaders/core.fsh":  "void main(){}",
		"empty/":                             "",
	}
	writeFiles(t, root, files)
	dest := filepath.Join(t.TempDir(), "pack.zip")

	sum, err := Write(context.Background(), root, dest, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Files)
	assert.Equal(t, SHA1, sum.Digest)
	assert.Len(t, sum.Sum, 40)
	assert.Positive(t, sum.Bytes)

	want := map[string]string{}
	for k, v := range files {
		if k[len(k)-1] != '/' {
			want[k] = v
		}
	}
	assert.Equal(t, want, readZip(t, dest))
}

func TestWriteSkipsArchiveInsideTree(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.txt": "a", "b/c.txt": "c"})
	dest := filepath.Join(root, "out.zip")

	sum, err := Write(context.Background(), root, dest, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Files)
	got := readZip(t, dest)
	assert.NotContains(t, got, "out.zip")
	assert.Equal(t, map[string]string{"a.txt": "a", "b/c.txt": "c"}, got)
}

func TestWriteDigestMatchesChecksum(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"x.json": "{}"})

	for _, d := range []Digest{SHA1, SHA256, XXHash} {
		t.Run(string(d), func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "p.zip")
			sum, err := Write(context.Background(), root, dest, Options{Digest: d})
			require.NoError(t, err)

			again, err := Checksum(dest, d)
			require.NoError(t, err)
			assert.Equal(t, again, sum.Sum)
		})
	}
}

func TestWriteMissingRoot(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "p.zip")
	_, err := Write(context.Background(), filepath.Join(t.TempDir(), "missing"), dest, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeIO))
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    Options
		wantErr bool
	}{
		{"defaults", Options{}, Options{Digest: SHA1, Level: DefaultLevel}, false},
		{"explicit", Options{Digest: "SHA256", Level: 1}, Options{Digest: SHA256, Level: 1}, false},
		{"bad digest", Options{Digest: "md5"}, Options{}, true},
		{"level too high", Options{Level: 10}, Options{}, true},
		{"negative level", Options{Level: -1}, Options{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, errors.ErrCodeValidation), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, opts)
		})
	}
}
