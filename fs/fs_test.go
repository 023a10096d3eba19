package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/codediff"
	"github.com/fwojciec/codediff/differ"
	"github.com/fwojciec/codediff/fs"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigPath(t *testing.T) {
	homedir.DisableCache = true

	t.Run("explicit override", func(t *testing.T) {
		t.Setenv("CODEDIFF_CONFIG", "/etc/codediff.yaml")
		t.Setenv("XDG_CONFIG_HOME", "/xdg")
		assert.Equal(t, "/etc/codediff.yaml", fs.DefaultConfigPath())
	})

	t.Run("xdg config home", func(t *testing.T) {
		t.Setenv("CODEDIFF_CONFIG", "")
		t.Setenv("XDG_CONFIG_HOME", "/xdg")
		assert.Equal(t, filepath.Join("/xdg", "codediff", "config.yaml"), fs.DefaultConfigPath())
	})

	t.Run("home directory", func(t *testing.T) {
		t.Setenv("CODEDIFF_CONFIG", "")
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", "/home/user")
		assert.Equal(t, filepath.Join("/home/user", ".config", "codediff", "config.yaml"), fs.DefaultConfigPath())
	})

	t.Run("override under home", func(t *testing.T) {
		t.Setenv("CODEDIFF_CONFIG", "~/codediff.yaml")
		t.Setenv("HOME", "/home/user")
		assert.Equal(t, filepath.Join("/home/user", "codediff.yaml"), fs.DefaultConfigPath())
	})
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestReadTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.txt":          "alpha\n",
		"sub/b.txt":      "beta\n",
		"sub/deep/c.txt": "",
		".git/HEAD":      "ref: refs/heads/main\n",
		"image.bin":      "PNG\x00\x01\x02",
	})

	files, err := fs.ReadTree(root)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"a.txt":          "alpha\n",
		"sub/b.txt":      "beta\n",
		"sub/deep/c.txt": "",
	}, files)
}

func TestReadTree_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := fs.ReadTree(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading tree")
}

func TestPairs(t *testing.T) {
	t.Parallel()

	pairs := fs.Pairs(
		map[string]string{"keep.txt": "1\n", "gone.txt": "2\n", "b.txt": "x\n"},
		map[string]string{"keep.txt": "1\n", "added.txt": "3\n", "b.txt": "y\n"},
	)

	assert.Equal(t, []differ.FilePair{
		{OldPath: codediff.DevNull, NewPath: "added.txt", New: "3\n"},
		{OldPath: "b.txt", NewPath: "b.txt", Old: "x\n", New: "y\n"},
		{OldPath: "gone.txt", NewPath: codediff.DevNull, Old: "2\n"},
		{OldPath: "keep.txt", NewPath: "keep.txt", Old: "1\n", New: "1\n"},
	}, pairs)
}

func TestWriteTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	before := map[string]string{"same.txt": "same\n", "changed.txt": "old\n", "gone.txt": "bye\n"}
	writeFiles(t, root, before)

	after := map[string]string{"same.txt": "same\n", "changed.txt": "new\n", "dir/new.txt": "hi\n"}
	require.NoError(t, fs.WriteTree(root, before, after))

	got, err := fs.ReadTree(root)
	require.NoError(t, err)
	assert.Equal(t, after, got)
}
