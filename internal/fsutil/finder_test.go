package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestFindFilesByExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.hcl"))
	writeFile(t, filepath.Join(dir, "nested", "b.hcl"))
	writeFile(t, filepath.Join(dir, "c.txt"))

	files, err := FindFilesByExtension(dir, ".hcl")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.hcl"),
		filepath.Join(dir, "nested", "b.hcl"),
	}, files)
}

func TestFindFilesByExtension_EmptyExtensionPanics(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = FindFilesByExtension(t.TempDir(), "")
	})
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.hcl"))
	single := filepath.Join(dir, "single.hcl")
	writeFile(t, single)

	t.Run("mix of files and directories", func(t *testing.T) {
		files, err := ExpandPaths([]string{dir, single}, ".hcl")
		require.NoError(t, err)
		// The explicit file appears twice: once from the walk, once as-is.
		assert.Len(t, files, 3)
	})

	t.Run("plain file with wrong extension fails", func(t *testing.T) {
		bad := filepath.Join(dir, "not.txt")
		writeFile(t, bad)
		_, err := ExpandPaths([]string{bad}, ".hcl")
		assert.Error(t, err)
	})

	t.Run("missing path fails", func(t *testing.T) {
		_, err := ExpandPaths([]string{filepath.Join(dir, "absent")}, ".hcl")
		assert.Error(t, err)
	})
}
