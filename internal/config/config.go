package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/jhoff/phpcsfixlint/internal/profile"
)

// ErrUnknownProfile is returned when the configured profile is not
// registered.
var ErrUnknownProfile = errors.New("unknown profile")

// Config is the top-level configuration.
type Config struct {
	Profile    string        `yaml:"profile"`
	Executable string        `yaml:"executable,omitempty"`
	Cmd        string        `yaml:"cmd,omitempty"`
	ConfigFile string        `yaml:"config-file,omitempty"`
	Jobs       int           `yaml:"jobs,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
	Include    []string      `yaml:"include,omitempty"`
	Ignore     []string      `yaml:"ignore,omitempty"`
	Overrides  []Override    `yaml:"overrides,omitempty"`

	// Source is the file the config was read from, if any.
	Source string `yaml:"-"`
}

// Override applies fixer settings to files matching glob patterns.
type Override struct {
	Files      []string `yaml:"files"`
	Executable string   `yaml:"executable,omitempty"`
	Cmd        string   `yaml:"cmd,omitempty"`
	ConfigFile string   `yaml:"config-file,omitempty"`
}

// Validate checks values that cannot be expressed in the YAML schema.
func (c *Config) Validate() error {
	if profile.ByName(c.Profile) == nil {
		return fmt.Errorf("%w %q", ErrUnknownProfile, c.Profile)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	for i, o := range c.Overrides {
		if len(o.Files) == 0 {
			return fmt.Errorf("override %d: files must not be empty", i)
		}
	}
	return nil
}

// ResolvedProfile returns the registered profile named by c.Profile.
func (c *Config) ResolvedProfile() (*profile.Profile, error) {
	p := profile.ByName(c.Profile)
	if p == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownProfile, c.Profile)
	}
	return p, nil
}
