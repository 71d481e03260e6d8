// Package toolversion detects the installed fixer release and reports
// how it fits a profile's supported range.
package toolversion

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jhoff/phpcsfixlint/internal/process"
	"github.com/jhoff/phpcsfixlint/internal/profile"
	"golang.org/x/mod/semver"
)

// ErrNoVersion is returned when --version output carries no version.
var ErrNoVersion = errors.New("no version in output")

var versionRe = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?(-[0-9A-Za-z.-]+)?\b`)

// Parse extracts the first dotted version from s in canonical semver
// form ("v3.64.0").
func Parse(s string) (string, error) {
	m := versionRe.FindStringSubmatch(s)
	if m == nil {
		return "", ErrNoVersion
	}
	patch := m[3]
	if patch == "" {
		patch = "0"
	}
	v := semver.Canonical(fmt.Sprintf("v%s.%s.%s%s", m[1], m[2], patch, m[4]))
	if v == "" {
		return "", ErrNoVersion
	}
	return v, nil
}

// Detect runs "<executable> --version" and parses its output.
func Detect(ctx context.Context, exec process.Executor, executable string) (string, error) {
	out, err := exec.Run(ctx, process.Invocation{Name: executable, Args: []string{"--version"}})
	if err != nil {
		return "", fmt.Errorf("running %s --version: %w", executable, err)
	}
	v, err := Parse(string(out.Stdout))
	if errors.Is(err, ErrNoVersion) {
		v, err = Parse(string(out.Stderr))
	}
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", executable, err)
	}
	return v, nil
}

// Notes lists the reasons version may not work with p. An empty result
// means the version is inside the profile's range.
func Notes(version string, p *profile.Profile) []string {
	if !semver.IsValid(version) {
		return []string{fmt.Sprintf("%q is not a valid version", version)}
	}
	var notes []string
	if p.MinVersion != "" && semver.Compare(version, p.MinVersion) < 0 {
		notes = append(notes, fmt.Sprintf("profile %s needs php-cs-fixer %s or newer, found %s",
			p.Name, display(p.MinVersion), display(version)))
	}
	if p.MaxVersion != "" && semver.Compare(version, p.MaxVersion) >= 0 {
		notes = append(notes, fmt.Sprintf("profile %s supports php-cs-fixer before %s, found %s",
			p.Name, display(p.MaxVersion), display(version)))
		if alt := suggest(version, p); alt != "" {
			notes = append(notes, fmt.Sprintf("try --profile %s", alt))
		}
	}
	return notes
}

// suggest names another registered profile whose range holds version.
func suggest(version string, current *profile.Profile) string {
	for _, p := range profile.All() {
		if p.Name == current.Name {
			continue
		}
		if p.MinVersion != "" && semver.Compare(version, p.MinVersion) < 0 {
			continue
		}
		if p.MaxVersion != "" && semver.Compare(version, p.MaxVersion) >= 0 {
			continue
		}
		return p.Name
	}
	return ""
}

func display(v string) string {
	return strings.TrimPrefix(v, "v")
}
