// Package command assembles the fixer's argument list from layered
// settings.
package command

import (
	"strings"
	"sync"

	"github.com/jhoff/phpcsfixlint/internal/locate"
	"github.com/jhoff/phpcsfixlint/internal/log"
	"github.com/jhoff/phpcsfixlint/internal/profile"
)

// Placeholders stand in for the lint target until the engine knows it.
const (
	FilePlaceholder     = "${file}"
	TempFilePlaceholder = "${temp_file}"
)

// Settings are the per-project overrides. Empty fields are unset.
type Settings struct {
	Executable string
	// Cmd is the legacy name of Executable.
	Cmd        string
	ConfigFile string
}

// Builder turns Settings into argument lists for one profile. It is safe
// for concurrent use.
type Builder struct {
	Profile *profile.Profile
	Log     *log.Logger

	// Find defaults to locate.Find.
	Find func(path string, candidates []string) (string, bool)

	warnOnce sync.Once
}

// Executable resolves the fixer executable: the override, then the legacy
// override (with a deprecation warning), then the profile default.
func (b *Builder) Executable(s Settings) string {
	if s.Executable != "" {
		return s.Executable
	}
	if s.Cmd != "" {
		b.warnOnce.Do(func() {
			b.Log.Warnf(`setting "cmd" is deprecated, use "executable" instead`)
		})
		return s.Cmd
	}
	return b.Profile.Executable
}

// ConfigFile resolves the fixer config for file: the override verbatim,
// then the nearest candidate above file, then the profile fallback.
func (b *Builder) ConfigFile(s Settings, file string) string {
	if s.ConfigFile != "" {
		return s.ConfigFile
	}
	find := b.Find
	if find == nil {
		find = locate.Find
	}
	if found, ok := find(file, b.Profile.Candidates); ok {
		b.Log.Printf("config for %s: %s", file, found)
		return found
	}
	return b.Profile.DefaultConfig
}

// Placeholder returns the target placeholder for the profile's mode.
func (b *Builder) Placeholder() string {
	if b.Profile.Target == profile.TargetTempFile {
		return TempFilePlaceholder
	}
	return FilePlaceholder
}

// Build returns the dry-run argument list for linting file, executable
// first. The target is left as a placeholder; see Expand.
func (b *Builder) Build(s Settings, file string) []string {
	args := []string{
		b.Executable(s),
		"fix",
		b.Placeholder(),
		"--dry-run",
		"--diff",
	}
	args = append(args, b.Profile.ExtraFlags...)
	return append(args,
		"--using-cache=no",
		"--no-ansi",
		"--config="+b.ConfigFile(s, file),
		"-vv",
	)
}

// BuildFix returns the argument list that applies fixes to file in place.
func (b *Builder) BuildFix(s Settings, file string) []string {
	return []string{
		b.Executable(s),
		"fix",
		FilePlaceholder,
		"--using-cache=no",
		"--no-ansi",
		"--config=" + b.ConfigFile(s, file),
	}
}

// Expand returns a copy of args with placeholders replaced by their values.
func Expand(args []string, values map[string]string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		for k, v := range values {
			a = strings.ReplaceAll(a, k, v)
		}
		out[i] = a
	}
	return out
}
