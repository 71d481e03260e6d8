// Package profile holds the capability records that describe how to drive
// one flavour of the external fixer: what it is called, which files it
// applies to, which flags it takes and how its output is read.
package profile

import (
	"regexp"
	"strings"

	"github.com/jhoff/phpcsfixlint/internal/locate"
)

// Stream selects which process output carries diagnostics.
type Stream string

// Output streams.
const (
	Stdout Stream = "stdout"
	Stderr Stream = "stderr"
)

// TargetMode selects what the fixer is pointed at.
type TargetMode string

const (
	// TargetPath lints the file on disk.
	TargetPath TargetMode = "path"
	// TargetTempFile lints a temporary copy of the file contents.
	TargetTempFile TargetMode = "tempfile"
)

// DiagnosticPattern matches one numbered violation entry, the unified
// diff hunk header that follows it and the first changed line. The
// message comes from the parenthesized fixer list, the line from the
// hunk's new-file start.
var DiagnosticPattern = regexp.MustCompile(
	`(?m)^\s+\d+\)\s+.+\s+\((?P<message>.+)\)[^\@]*` +
		`@@\s+\-\d+,\d+\s+\+(?P<line>\d+),\d+\s+@@` +
		`[^-+]+[-+]?\s+(?P<error>[^\n]*)`)

// Profile describes one fixer flavour.
type Profile struct {
	Name        string
	Description string

	// Executable is used when no override is configured.
	Executable string

	// Selectors are the file extensions (with dot) this profile lints.
	Selectors []string

	// TempSuffix is the extension given to temp copies, without dot.
	TempSuffix string

	Stream Stream
	Target TargetMode

	// Candidates are the fixer config filenames searched for upward from
	// the linted file, and DefaultConfig is passed when none is found.
	Candidates    []string
	DefaultConfig string

	// ExtraFlags are appended after "--dry-run --diff".
	ExtraFlags []string

	Pattern       *regexp.Regexp
	LineOffset    int
	MessagePrefix string

	// MinVersion and MaxVersion bound the fixer releases the flags are
	// known to work with, as semver strings with a leading "v". Empty
	// means unbounded.
	MinVersion string
	MaxVersion string
}

// Matches reports whether ext (with leading dot, any case) is one of the
// profile's selectors.
func (p *Profile) Matches(ext string) bool {
	for _, s := range p.Selectors {
		if strings.EqualFold(s, ext) {
			return true
		}
	}
	return false
}

func init() {
	Register(&Profile{
		Name:          "php-cs-fixer",
		Description:   "PHP CS Fixer 3.x, unified diff output, linted through a temp copy",
		Executable:    "php-cs-fixer",
		Selectors:     []string{".php", ".phtml", ".html"},
		TempSuffix:    "php",
		Stream:        Stdout,
		Target:        TargetTempFile,
		Candidates:    locate.FixerConfigCandidates,
		DefaultConfig: ".php-cs-fixer.dist.php",
		Pattern:       DiagnosticPattern,
		LineOffset:    3,
		MessagePrefix: "php-cs-fixer error(s) - ",
		MinVersion:    "v3.0.0",
	})
	Register(&Profile{
		Name:          "php-cs-fixer-v2",
		Description:   "PHP CS Fixer 2.x, --diff-format=udiff, linted in place",
		Executable:    "php-cs-fixer",
		Selectors:     []string{".php", ".phtml", ".html"},
		TempSuffix:    "php",
		Stream:        Stdout,
		Target:        TargetPath,
		Candidates:    locate.FixerConfigCandidates,
		DefaultConfig: ".php_cs",
		ExtraFlags:    []string{"--diff-format=udiff"},
		Pattern:       DiagnosticPattern,
		LineOffset:    3,
		MessagePrefix: "php-cs-fixer error(s) - ",
		MinVersion:    "v2.8.0",
		MaxVersion:    "v3.0.0",
	})
}
