package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolveOpts controls how command-line arguments become files.
type ResolveOpts struct {
	// UseGitignore filters directory walks by .gitignore. Nil means true.
	UseGitignore *bool

	// Extensions selects which files directory walks and globs collect,
	// normally the profile's selectors. Defaults to DefaultExtensions.
	Extensions []string
}

// DefaultResolveOpts returns options with defaults applied.
func DefaultResolveOpts() ResolveOpts {
	t := true
	return ResolveOpts{UseGitignore: &t}
}

func (o ResolveOpts) walker() *Walker {
	return &Walker{
		Extensions: o.Extensions,
		Gitignore:  o.UseGitignore == nil || *o.UseGitignore,
	}
}

// ResolveFiles is ResolveFilesWithOpts with DefaultResolveOpts.
func ResolveFiles(args []string) ([]string, error) {
	return ResolveFilesWithOpts(args, DefaultResolveOpts())
}

// ResolveFilesWithOpts turns arguments into a sorted, deduplicated list of
// files. A named file is taken as is, whatever its extension and even if
// gitignored. A directory is walked with a Walker. A glob (doublestar
// syntax, so "src/**/*.php" works) keeps matching files with a selected
// extension and walks matching directories. A missing non-glob path is an
// error.
func ResolveFilesWithOpts(args []string, opts ResolveOpts) ([]string, error) {
	w := opts.walker()
	seen := make(map[string]bool)
	var result []string
	add := func(paths ...string) {
		for _, p := range paths {
			key, err := filepath.Abs(p)
			if err != nil {
				key = p
			}
			if !seen[key] {
				seen[key] = true
				result = append(result, p)
			}
		}
	}

	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, fmt.Errorf("cannot access %q: %w", arg, err)
			}
			if !info.IsDir() {
				add(arg)
				continue
			}
			files, err := w.Walk(arg)
			if err != nil {
				return nil, err
			}
			add(files...)
			continue
		}

		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", arg, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			switch {
			case err != nil:
			case info.IsDir():
				files, err := w.Walk(m)
				if err != nil {
					return nil, err
				}
				add(files...)
			case hasExtension(m, w.Extensions):
				add(m)
			}
		}
	}

	sort.Strings(result)
	return result, nil
}
