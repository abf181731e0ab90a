package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("{}"), 0o600))
	}
}

func TestCanonicalPath(t *testing.T) {
	t.Parallel()

	t.Run("resolves symlinks", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		target := filepath.Join(dir, "target")
		require.NoError(t, os.Mkdir(target, 0o755))

		link := filepath.Join(dir, "link")
		require.NoError(t, os.Symlink(target, link))

		canonical, err := CanonicalPath(link)
		require.NoError(t, err)

		expected, _ := filepath.EvalSymlinks(target)
		assert.Equal(t, expected, canonical)
		assert.True(t, filepath.IsAbs(canonical))
	})

	t.Run("returns error for non-existent path", func(t *testing.T) {
		t.Parallel()
		_, err := CanonicalPath(filepath.Join(t.TempDir(), "non-existent"))
		require.Error(t, err)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestHasExtension(t *testing.T) {
	t.Parallel()

	assert.True(t, HasExtension("a/ois.json", DefaultExtensions))
	assert.True(t, HasExtension("a/OIS.YML", DefaultExtensions))
	assert.False(t, HasExtension("a/ois.txt", DefaultExtensions))
	assert.False(t, HasExtension("a/json", DefaultExtensions))
}

func TestListDocuments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		files   []string
		want    []string
		wantErr bool
	}{
		{
			name:  "sorted across subdirectories",
			files: []string{"b.json", "a.yaml", "sub/c.yml", "notes.md"},
			want:  []string{"a.yaml", "b.json", "sub/c.yml"},
		},
		{
			name:  "skips hidden entries",
			files: []string{".hidden.json", ".git/config.json", "ois.json"},
			want:  []string{"ois.json"},
		},
		{
			name: "empty directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeFiles(t, dir, tt.files...)

			got, err := ListDocuments(dir, DefaultExtensions)
			require.NoError(t, err)

			var want []string
			for _, w := range tt.want {
				want = append(want, filepath.Join(dir, w))
			}
			assert.Equal(t, want, got)
		})
	}

	t.Run("non-existent directory", func(t *testing.T) {
		t.Parallel()
		_, err := ListDocuments(filepath.Join(t.TempDir(), "missing"), DefaultExtensions)
		require.Error(t, err)
	})
}

func TestExpandPaths(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFiles(t, dir, "docs/a.json", "docs/b.json", "single.txt")

	got, err := ExpandPaths([]string{
		filepath.Join(dir, "docs", "b.json"),
		filepath.Join(dir, "docs"),
		filepath.Join(dir, "single.txt"),
	}, DefaultExtensions)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "docs", "b.json"),
		filepath.Join(dir, "docs", "a.json"),
		filepath.Join(dir, "single.txt"),
	}, got)

	_, err = ExpandPaths([]string{filepath.Join(dir, "missing.json")}, DefaultExtensions)
	require.Error(t, err)
}

func TestEnvProviders(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, NewEnvProvider().Get("PATH"))
	assert.Empty(t, NewEnvProvider().Get("UNLIKELY_TO_BE_SET_12345"))

	m := MapEnvProvider{"OIS_CONFIG": "ois-config.yml"}
	assert.Equal(t, "ois-config.yml", m.Get("OIS_CONFIG"))
	assert.Empty(t, m.Get("MISSING"))
	assert.Empty(t, MapEnvProvider(nil).Get("ANY"))
}
