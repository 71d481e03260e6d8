package engine

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoff/phpcsfixlint/internal/command"
	"github.com/jhoff/phpcsfixlint/internal/config"
	"github.com/jhoff/phpcsfixlint/internal/lint"
	"github.com/jhoff/phpcsfixlint/internal/process"
	"github.com/jhoff/phpcsfixlint/internal/profile"
)

// LintFile runs the fixer for the file at path and returns its
// diagnostics. Temp-file profiles lint a copy of the file contents.
func (r *Runner) LintFile(ctx context.Context, path string) ([]lint.Diagnostic, error) {
	r.init()

	var source []byte
	if r.Profile.Target == profile.TargetTempFile {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		source = data
	}
	return r.check(ctx, path, path, source)
}

// check runs one fixer process. display is the name diagnostics are
// reported under and locateFrom the path the fixer config is searched
// from. A non-nil source is written to a temp file that becomes the
// target; otherwise display itself is the target.
func (r *Runner) check(ctx context.Context, display, locateFrom string, source []byte) ([]lint.Diagnostic, error) {
	settings := config.Effective(r.Config, r.rel(locateFrom))
	args := r.builder.Build(settings, locateFrom)

	values := map[string]string{command.FilePlaceholder: display}
	if source != nil {
		tmp, cleanup, err := writeTemp(source, r.Profile.TempSuffix)
		if err != nil {
			return nil, fmt.Errorf("linting %q: %w", display, err)
		}
		defer cleanup()
		values[command.FilePlaceholder] = tmp
		values[command.TempFilePlaceholder] = tmp
	}
	args = command.Expand(args, values)

	if r.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Config.Timeout)
		defer cancel()
	}

	inv := process.Invocation{Name: args[0], Args: args[1:]}
	r.Log.Printf("exec: %s", inv)

	out, err := r.Exec.Run(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("linting %q: %w", display, err)
	}

	text := out.Stdout
	if r.Profile.Stream == profile.Stderr {
		text = out.Stderr
	}
	diags := r.parser.Parse(display, string(text))
	r.Log.Printf("%s: %d diagnostic(s)", display, len(diags))
	return diags, nil
}

// writeTemp writes source to a fresh temp file with the given suffix and
// returns its path and a function removing it.
func writeTemp(source []byte, suffix string) (string, func(), error) {
	pattern := "phpcsfixlint-*"
	if suffix != "" {
		pattern += "." + suffix
	}
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	cleanup := func() { _ = os.Remove(f.Name()) }

	if _, err := f.Write(source); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	return f.Name(), cleanup, nil
}
