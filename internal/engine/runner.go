package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jhoff/phpcsfixlint/internal/command"
	"github.com/jhoff/phpcsfixlint/internal/config"
	"github.com/jhoff/phpcsfixlint/internal/lint"
	"github.com/jhoff/phpcsfixlint/internal/log"
	"github.com/jhoff/phpcsfixlint/internal/parse"
	"github.com/jhoff/phpcsfixlint/internal/process"
	"github.com/jhoff/phpcsfixlint/internal/profile"
)

// StdinName is the display name used for source read from stdin.
const StdinName = "<stdin>"

// Runner drives the linting pipeline: for each file it resolves the
// effective fixer settings, builds the command line, runs the fixer and
// parses its output into diagnostics. Each file is an independent
// subprocess; up to Jobs of them run at once.
type Runner struct {
	Config  *config.Config
	Profile *profile.Profile
	Exec    process.Executor
	Log     *log.Logger

	// BaseDir anchors ignore and override patterns. Defaults to the
	// directory of the config file, then the working directory.
	BaseDir string

	builder *command.Builder
	parser  *parse.Parser
	once    sync.Once
}

// Result holds the output of a lint run.
type Result struct {
	Diagnostics []lint.Diagnostic
	Errors      []error
}

// NewRunner returns a Runner for cfg using the profile the config names.
func NewRunner(cfg *config.Config, exec process.Executor, logger *log.Logger) (*Runner, error) {
	p, err := cfg.ResolvedProfile()
	if err != nil {
		return nil, err
	}
	return &Runner{Config: cfg, Profile: p, Exec: exec, Log: logger}, nil
}

func (r *Runner) init() {
	r.once.Do(func() {
		if r.Config == nil {
			r.Config = config.Defaults()
		}
		if r.Profile == nil {
			r.Profile = profile.Default()
		}
		if r.Exec == nil {
			r.Exec = &process.ExecExecutor{}
		}
		if r.BaseDir == "" {
			r.BaseDir = baseDir(r.Config)
		}
		r.builder = &command.Builder{Profile: r.Profile, Log: r.Log}
		r.parser = parse.New(r.Profile)
	})
}

// Run lints the files at the given paths and returns a Result containing
// all diagnostics (sorted by file, line, column) and any errors
// encountered. A failing file does not stop the others.
func (r *Runner) Run(ctx context.Context, paths []string) *Result {
	r.init()

	res := &Result{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs())
	for _, path := range paths {
		if r.isIgnored(path) {
			r.Log.Printf("ignored: %s", path)
			continue
		}
		g.Go(func() error {
			diags, err := r.LintFile(gctx, path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Errors = append(res.Errors, err)
				return nil
			}
			res.Diagnostics = append(res.Diagnostics, diags...)
			return nil
		})
	}
	_ = g.Wait()

	lint.Sort(res.Diagnostics)
	return res
}

// RunSource lints source as if it were the file called name. The fixer
// always sees a temp copy. Use StdinName when the source has no path; the
// fixer config is then searched for from the working directory.
func (r *Runner) RunSource(ctx context.Context, name string, source []byte) *Result {
	r.init()

	res := &Result{}
	locateFrom := name
	if name == StdinName || name == "" {
		name = StdinName
		cwd, err := os.Getwd()
		if err == nil {
			locateFrom = filepath.Join(cwd, StdinName)
		}
	}

	diags, err := r.check(ctx, name, locateFrom, source)
	if err != nil {
		res.Errors = append(res.Errors, err)
	}
	res.Diagnostics = diags
	lint.Sort(res.Diagnostics)
	return res
}

func (r *Runner) jobs() int {
	if r.Config.Jobs > 0 {
		return r.Config.Jobs
	}
	return 1
}

// isIgnored returns true if the file path matches any of the configured
// ignore patterns.
func (r *Runner) isIgnored(path string) bool {
	return config.IsIgnored(r.Config, r.rel(path))
}

// rel returns path relative to BaseDir with forward slashes, or path
// unchanged when it lies outside BaseDir.
func (r *Runner) rel(path string) string {
	if r.BaseDir == "" {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(r.BaseDir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

func baseDir(cfg *config.Config) string {
	if cfg != nil && cfg.Source != "" {
		if abs, err := filepath.Abs(cfg.Source); err == nil {
			return filepath.Dir(abs)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return cwd
}

// Builder returns the command builder shared by all files of this run.
func (r *Runner) Builder() *command.Builder {
	r.init()
	return r.builder
}

// Settings returns the effective fixer settings for path.
func (r *Runner) Settings(path string) command.Settings {
	r.init()
	return config.Effective(r.Config, r.rel(path))
}

// Ignored reports whether path matches the configured ignore patterns.
func (r *Runner) Ignored(path string) bool {
	r.init()
	return r.isIgnored(path)
}
