package lint

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GitignoreMatcher answers whether a path is excluded by the .gitignore
// files of its repository. Rules are compiled to doublestar patterns
// relative to the directory holding their .gitignore; later rules win,
// so a deeper file can re-include what a shallower one excluded.
type GitignoreMatcher struct {
	rules  []ignoreRule
	loaded map[string]bool
}

type ignoreRule struct {
	base    string
	glob    string
	negate  bool
	dirOnly bool
}

// NewGitignoreMatcher loads the .gitignore files of root and of its
// ancestors up to the repository root (the first directory holding .git).
// Subdirectories are added with AddDir as a walk enters them.
func NewGitignoreMatcher(root string) *GitignoreMatcher {
	m := &GitignoreMatcher{loaded: make(map[string]bool)}
	abs, err := filepath.Abs(root)
	if err != nil {
		return m
	}

	var chain []string
	for dir := abs; ; {
		chain = append(chain, dir)
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	for i := len(chain) - 1; i >= 0; i-- {
		m.AddDir(chain[i])
	}
	return m
}

// AddDir reads dir/.gitignore, once, if it exists.
func (m *GitignoreMatcher) AddDir(dir string) {
	if m.loaded[dir] {
		return
	}
	m.loaded[dir] = true

	f, err := os.Open(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if r, ok := compileRule(dir, scanner.Text()); ok {
			m.rules = append(m.rules, r)
		}
	}
}

// compileRule turns one .gitignore line into a rule. A pattern without an
// inner slash matches at any depth, so it gains a "**/" prefix; a leading
// slash only anchors.
func compileRule(base, line string) (ignoreRule, bool) {
	line = trimTrailingSpace(line)
	if line == "" || line[0] == '#' {
		return ignoreRule{}, false
	}
	r := ignoreRule{base: base}
	switch {
	case strings.HasPrefix(line, `\#`), strings.HasPrefix(line, `\!`):
		line = line[1:]
	case line[0] == '!':
		r.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		r.dirOnly = true
		line = strings.TrimRight(line, "/")
		if line == "" {
			return ignoreRule{}, false
		}
	}
	if strings.HasPrefix(line, "/") {
		line = line[1:]
	} else if !strings.Contains(line, "/") {
		line = "**/" + line
	}
	if line == "" || !doublestar.ValidatePattern(line) {
		return ignoreRule{}, false
	}
	r.glob = line
	return r, true
}

// trimTrailingSpace drops trailing blanks; a backslash keeps one space.
func trimTrailingSpace(s string) string {
	t := strings.TrimRight(s, " \t")
	if len(t) < len(s) && strings.HasSuffix(t, `\`) {
		return t[:len(t)-1] + " "
	}
	return t
}

// IsIgnored reports whether absPath is ignored. isDir selects whether
// directory-only rules ("build/") apply.
func (m *GitignoreMatcher) IsIgnored(absPath string, isDir bool) bool {
	ignored := false
	for _, r := range m.rules {
		if r.dirOnly && !isDir {
			continue
		}
		rel, err := filepath.Rel(r.base, absPath)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if ok, _ := doublestar.Match(r.glob, filepath.ToSlash(rel)); ok {
			ignored = !r.negate
		}
	}
	return ignored
}
