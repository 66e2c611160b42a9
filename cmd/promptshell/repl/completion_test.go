package repl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "src"), 0o755))

	t.Run("unique match completes", func(t *testing.T) {
		got := completePath("cat " + filepath.Join(dir, "rep"))
		assert.Equal(t, "cat "+filepath.Join(dir, "report.txt"), got)
	})

	t.Run("directory gets a trailing separator", func(t *testing.T) {
		got := completePath("ls " + filepath.Join(dir, "sr"))
		assert.Equal(t, "ls "+filepath.Join(dir, "src")+string(os.PathSeparator), got)
	})

	t.Run("ambiguous extends to common prefix", func(t *testing.T) {
		got := completePath("cat " + filepath.Join(dir, "r"))
		assert.Equal(t, "cat "+filepath.Join(dir, "re"), got)
	})

	t.Run("no match leaves the line alone", func(t *testing.T) {
		line := "cat " + filepath.Join(dir, "zzz")
		assert.Equal(t, line, completePath(line))
	})

	t.Run("empty line untouched", func(t *testing.T) {
		assert.Equal(t, "", completePath(""))
		assert.Equal(t, "cat ", completePath("cat "))
	})
}

func TestCommonPrefix(t *testing.T) {
	assert.Equal(t, "re", commonPrefix([]string{"report.txt", "readme.md"}))
	assert.Equal(t, "abc", commonPrefix([]string{"abc"}))
	assert.Equal(t, "", commonPrefix([]string{"abc", "xyz"}))
}
