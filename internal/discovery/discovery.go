// Package discovery selects the PHP sources a project checks when no
// paths are given: the config's include patterns minus its ignore
// patterns, both relative to the config file's directory.
package discovery

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/jhoff/phpcsfixlint/internal/lint"
)

// Options controls how file discovery behaves.
type Options struct {
	// Patterns are doublestar patterns of files to check. None means no
	// files are discovered.
	Patterns []string

	// Exclude drops files and whole directories.
	Exclude []string

	// BaseDir anchors the patterns. Defaults to ".".
	BaseDir string

	// UseGitignore enables filtering by .gitignore rules.
	UseGitignore bool
}

// Discover walks BaseDir and returns the sorted files matching Patterns.
// Invalid patterns are dropped. Vendor and hidden directories are never
// entered.
func Discover(opts Options) ([]string, error) {
	patterns := valid(opts.Patterns)
	if len(patterns) == 0 {
		return nil, nil
	}
	base := opts.BaseDir
	if base == "" {
		base = "."
	}
	w := &lint.Walker{
		Include:   patterns,
		Exclude:   valid(opts.Exclude),
		Gitignore: opts.UseGitignore,
	}
	return w.Walk(base)
}

func valid(patterns []string) []string {
	var out []string
	for _, p := range patterns {
		if doublestar.ValidatePattern(p) {
			out = append(out, p)
		}
	}
	return out
}
