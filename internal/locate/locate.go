// Package locate finds configuration files by searching a file's ancestor
// directories, nearest first.
package locate

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FixerConfigCandidates are the php-cs-fixer configuration filenames in
// priority order.
var FixerConfigCandidates = []string{
	".php-cs-fixer.php",
	".php-cs-fixer.dist.php",
	".php_cs",
	".php_cs.dist",
}

// Finder searches upward from a file for the first existing candidate.
type Finder struct {
	// Candidates are tested in order in every directory.
	Candidates []string

	// StopAt lists directory entries (such as ".git") that end the search
	// after the directory containing them has been checked.
	StopAt []string

	// Stat defaults to os.Stat.
	Stat func(name string) (fs.FileInfo, error)
}

// Find returns the configuration file nearest to path that matches one of
// candidates, searching path's directory and then each ancestor.
func Find(path string, candidates []string) (string, bool) {
	f := &Finder{Candidates: candidates}
	return f.Find(path)
}

// Find walks from the directory containing path towards the filesystem
// root. In each directory the candidates are tested in order and the first
// existing regular file wins. An empty path is never found and does not
// touch the filesystem.
func (f *Finder) Find(path string) (string, bool) {
	if path == "" || len(f.Candidates) == 0 {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	return f.FindFromDir(filepath.Dir(abs))
}

// FindFromDir is like Find but starts the search in dir itself.
func (f *Finder) FindFromDir(dir string) (string, bool) {
	if dir == "" || len(f.Candidates) == 0 {
		return "", false
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	visited := make(map[string]bool)
	for !visited[dir] {
		visited[dir] = true

		for _, name := range f.Candidates {
			candidate := filepath.Join(dir, name)
			if f.isFile(candidate) {
				return candidate, true
			}
		}

		if f.isBoundary(dir) {
			return "", false
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
	return "", false
}

func (f *Finder) isFile(path string) bool {
	info, err := f.stat(path)
	return err == nil && !info.IsDir()
}

func (f *Finder) isBoundary(dir string) bool {
	for _, marker := range f.StopAt {
		if _, err := f.stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

func (f *Finder) stat(name string) (fs.FileInfo, error) {
	if f.Stat != nil {
		return f.Stat(name)
	}
	return os.Stat(name)
}
