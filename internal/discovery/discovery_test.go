package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func bases(files []string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.Base(f)
	}
	return out
}

func TestDiscover_FindsPHPFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.php", "<?php\n")
	writeFile(t, dir, "src/Kernel.php", "<?php\n")
	writeFile(t, dir, "README.md", "# Hello\n")

	files, err := Discover(Options{Patterns: []string{"**/*.php"}, BaseDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"index.php", "Kernel.php"}, bases(files))
}

func TestDiscover_NoPatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.php", "")

	files, err := Discover(Options{BaseDir: dir})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscover_InvalidPatternSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.php", "")

	files, err := Discover(Options{Patterns: []string{"[", "*.php"}, BaseDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.php"}, bases(files))
}

func TestDiscover_Exclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/a.php", "")
	writeFile(t, dir, "vendor/acme/lib/b.php", "")
	writeFile(t, dir, "tests/fixtures/broken.php", "")

	files, err := Discover(Options{
		Patterns: []string{"**/*.php"},
		Exclude:  []string{"vendor/**", "tests/fixtures/*.php"},
		BaseDir:  dir,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.php"}, bases(files))
}

func TestDiscover_Gitignore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "var/\n")
	writeFile(t, dir, "src/a.php", "")
	writeFile(t, dir, "var/cache/b.php", "")

	files, err := Discover(Options{Patterns: []string{"**/*.php"}, BaseDir: dir, UseGitignore: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.php"}, bases(files))

	files, err = Discover(Options{Patterns: []string{"**/*.php"}, BaseDir: dir})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestDiscover_Deduplicates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/a.php", "")

	files, err := Discover(Options{Patterns: []string{"**/*.php", "src/*.php"}, BaseDir: dir})
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestDiscover_SkipsVendorEvenWhenIncluded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/a.php", "")
	writeFile(t, dir, "vendor/acme/b.php", "")

	files, err := Discover(Options{Patterns: []string{"**/*.php", "vendor/**/*.php"}, BaseDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.php"}, bases(files))
}
