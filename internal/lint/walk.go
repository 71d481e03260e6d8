package lint

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExtensions are the file extensions collected when a walk names
// none.
var DefaultExtensions = []string{".php"}

// SkipDir reports whether a directory is never descended into: Composer's
// vendor tree and hidden directories such as .git or .idea.
func SkipDir(name string) bool {
	if name == "vendor" {
		return true
	}
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// Walker collects PHP sources below a root directory. Symbolic links to
// directories are not followed.
type Walker struct {
	// Extensions selects files by extension, ignoring case. Defaults to
	// DefaultExtensions. Unused when Include is set.
	Extensions []string

	// Include keeps only files whose slash-separated path relative to the
	// root matches one of these doublestar patterns.
	Include []string

	// Exclude drops files and whole directories matching one of these
	// doublestar patterns, relative to the root.
	Exclude []string

	// Gitignore skips paths excluded by .gitignore files.
	Gitignore bool
}

// Walk returns the selected files below root, sorted. Paths are root
// joined with the relative path, so a relative root yields relative
// results.
func (w *Walker) Walk(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	var git *GitignoreMatcher
	if w.Gitignore {
		git = NewGitignoreMatcher(absRoot)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == absRoot {
			return nil
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if SkipDir(d.Name()) || w.excluded(rel) || w.excluded(rel+"/") ||
				(git != nil && git.IsIgnored(path, true)) {
				return filepath.SkipDir
			}
			if git != nil {
				git.AddDir(path)
			}
			return nil
		}
		if !w.selects(rel) || w.excluded(rel) || (git != nil && git.IsIgnored(path, false)) {
			return nil
		}
		files = append(files, filepath.Join(root, filepath.FromSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %q: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

func (w *Walker) selects(rel string) bool {
	if len(w.Include) > 0 {
		return matchAny(w.Include, rel)
	}
	return hasExtension(rel, w.Extensions)
}

func (w *Walker) excluded(rel string) bool {
	return matchAny(w.Exclude, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// hasExtension reports whether path ends in one of exts, ignoring case.
func hasExtension(path string, exts []string) bool {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
