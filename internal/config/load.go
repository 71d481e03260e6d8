package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/jhoff/phpcsfixlint/internal/locate"
	"github.com/jhoff/phpcsfixlint/internal/profile"
)

// FileNames are the config filenames searched for by Discover, in
// priority order.
var FileNames = []string{".phpcsfixlint.yml", ".phpcsfixlint.yaml"}

// flagKeys maps CLI flag names to config keys. Flags not listed here do
// not feed the config.
var flagKeys = map[string]string{
	"profile":      "profile",
	"executable":   "executable",
	"fixer-config": "config-file",
	"jobs":         "jobs",
	"timeout":      "timeout",
}

// Load reads and parses a config file at the given path. Unknown keys are
// rejected.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := loadFile(k, path); err != nil {
		return nil, err
	}
	return unmarshal(k, path)
}

// Resolve layers built-in defaults, the config file at path (skipped when
// path is empty) and explicitly set flags, in increasing priority.
func Resolve(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultValues(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	cfg, err := unmarshal(k, path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := checkKnownFields(data); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	if err := k.Load(file.Provider(path), kyaml.Parser()); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// checkKnownFields decodes data strictly so typos in keys are reported.
func checkKnownFields(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var probe Config
	if err := dec.Decode(&probe); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func unmarshal(k *koanf.Koanf, source string) (*Config, error) {
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Source = source
	return &cfg, nil
}

func defaultValues() map[string]any {
	return map[string]any{
		"profile": profile.DefaultName,
		"jobs":    runtime.NumCPU(),
	}
}

// Discover walks up the directory tree from startDir looking for a
// phpcsfixlint config file. It stops searching when it encounters a .git
// directory (the repository root) or reaches the filesystem root.
// Returns the path to the config file, or "" if none was found.
func Discover(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	f := &locate.Finder{Candidates: FileNames, StopAt: []string{".git"}}
	found, _ := f.FindFromDir(dir)
	return found, nil
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Profile: profile.DefaultName,
		Jobs:    runtime.NumCPU(),
	}
}

// DumpDefaults returns the configuration written by `phpcsfixlint init`:
// the defaults plus the conventional include and ignore patterns.
func DumpDefaults() *Config {
	cfg := Defaults()
	cfg.Jobs = 0
	cfg.Include = []string{"**/*.php"}
	cfg.Ignore = []string{"vendor/**"}
	return cfg
}

// Marshal renders cfg as YAML with a short header.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# phpcsfixlint configuration\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
