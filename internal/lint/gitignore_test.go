package lint

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileRule(t *testing.T) {
	tests := []struct {
		line    string
		glob    string
		negate  bool
		dirOnly bool
	}{
		{line: "*.log", glob: "**/*.log"},
		{line: "/composer.phar", glob: "composer.phar"},
		{line: "var/cache/", glob: "var/cache", dirOnly: true},
		{line: "build/", glob: "**/build", dirOnly: true},
		{line: "!Kernel.php", glob: "**/Kernel.php", negate: true},
		{line: `\!important.php`, glob: "**/!important.php"},
		{line: "**/generated/**", glob: "**/generated/**"},
		{line: `space\ `, glob: "**/space "},
		{line: "trailing.php   ", glob: "**/trailing.php"},
	}
	for _, tt := range tests {
		r, ok := compileRule("/repo", tt.line)
		require.True(t, ok, tt.line)
		assert.Equal(t, tt.glob, r.glob, tt.line)
		assert.Equal(t, tt.negate, r.negate, tt.line)
		assert.Equal(t, tt.dirOnly, r.dirOnly, tt.line)
	}

	for _, line := range []string{"", "   ", "# comment", "/", "["} {
		_, ok := compileRule("/repo", line)
		assert.False(t, ok, "%q", line)
	}
}

func TestGitignoreMatcher_DirOnly(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, ".gitignore"), "build/\n")
	m := NewGitignoreMatcher(dir)

	assert.True(t, m.IsIgnored(filepath.Join(dir, "build"), true))
	assert.False(t, m.IsIgnored(filepath.Join(dir, "build"), false))
}

func TestGitignoreMatcher_StopsAtRepositoryRoot(t *testing.T) {
	outer := t.TempDir()
	touch(t, filepath.Join(outer, ".gitignore"), "*.php\n")
	repo := filepath.Join(outer, "repo")
	touch(t, filepath.Join(repo, ".git", "HEAD"), "ref: refs/heads/main\n")
	touch(t, filepath.Join(repo, "src", ".gitignore"), "/Legacy.php\n")

	m := NewGitignoreMatcher(filepath.Join(repo, "src"))
	assert.False(t, m.IsIgnored(filepath.Join(repo, "src", "Kernel.php"), false))
	assert.True(t, m.IsIgnored(filepath.Join(repo, "src", "Legacy.php"), false))
	assert.False(t, m.IsIgnored(filepath.Join(repo, "src", "sub", "Legacy.php"), false))
}

func TestGitignoreMatcher_AddDirOnce(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "lib", ".gitignore"), "*.tmp.php\n")
	m := NewGitignoreMatcher(dir)
	assert.False(t, m.IsIgnored(filepath.Join(dir, "lib", "x.tmp.php"), false))
	before := len(m.rules)

	m.AddDir(filepath.Join(dir, "lib"))
	m.AddDir(filepath.Join(dir, "lib"))
	assert.Len(t, m.rules, before+1)
	assert.True(t, m.IsIgnored(filepath.Join(dir, "lib", "x.tmp.php"), false))
}
