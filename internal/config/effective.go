package config

import (
	"path/filepath"

	"github.com/gobwas/glob"

	"github.com/jhoff/phpcsfixlint/internal/command"
)

// Effective returns the fixer settings for a given file path. It starts
// with the top-level settings and then applies each override whose file
// patterns match filePath, in order. Later overrides take precedence, and
// only the fields an override sets replace earlier values.
func Effective(cfg *Config, filePath string) command.Settings {
	s := command.Settings{
		Executable: cfg.Executable,
		Cmd:        cfg.Cmd,
		ConfigFile: cfg.ConfigFile,
	}

	for _, o := range cfg.Overrides {
		if !matchesAny(o.Files, filePath) {
			continue
		}
		if o.Executable != "" {
			s.Executable = o.Executable
		}
		if o.Cmd != "" {
			s.Cmd = o.Cmd
		}
		if o.ConfigFile != "" {
			s.ConfigFile = o.ConfigFile
		}
	}

	return s
}

// IsIgnored returns true if the file path matches any of the configured
// ignore patterns.
func IsIgnored(cfg *Config, filePath string) bool {
	return matchesAny(cfg.Ignore, filePath)
}

// matchesAny returns true if filePath, its cleaned form or its base name
// matches any of the given glob patterns.
func matchesAny(patterns []string, filePath string) bool {
	cleanPath := filepath.ToSlash(filepath.Clean(filePath))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			// Skip invalid patterns silently.
			continue
		}
		if g.Match(filePath) || g.Match(cleanPath) || g.Match(filepath.Base(filePath)) {
			return true
		}
	}
	return false
}
