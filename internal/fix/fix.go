package fix

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/jhoff/phpcsfixlint/internal/command"
	"github.com/jhoff/phpcsfixlint/internal/engine"
	"github.com/jhoff/phpcsfixlint/internal/lint"
	"github.com/jhoff/phpcsfixlint/internal/process"
)

// Fixer lets the external fixer rewrite files in place and reports the
// diagnostics that remain afterwards.
type Fixer struct {
	Runner *engine.Runner
}

// FixResult holds the outcome of a fix run.
type FixResult struct {
	// Diagnostics contains what a dry run still reports after fixing.
	Diagnostics []lint.Diagnostic
	// Modified lists file paths whose content changed.
	Modified []string
	// Errors contains any errors encountered during the fix process.
	Errors []error
}

// Fix runs the fixer on each path sequentially, then lints the fixed files
// again. Files that fail to fix are reported in Errors and excluded from
// the second pass.
func (f *Fixer) Fix(ctx context.Context, paths []string) *FixResult {
	res := &FixResult{}

	var fixed []string
	for _, path := range paths {
		if f.Runner.Ignored(path) {
			continue
		}

		changed, err := f.fixFile(ctx, path)
		if err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}
		if changed {
			f.Runner.Log.Printf("fixed: %s", path)
			res.Modified = append(res.Modified, path)
		}
		fixed = append(fixed, path)
	}

	if len(fixed) == 0 {
		return res
	}
	lintRes := f.Runner.Run(ctx, fixed)
	res.Diagnostics = lintRes.Diagnostics
	res.Errors = append(res.Errors, lintRes.Errors...)
	return res
}

func (f *Fixer) fixFile(ctx context.Context, path string) (bool, error) {
	before, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %q: %w", path, err)
	}

	args := f.Runner.Builder().BuildFix(f.Runner.Settings(path), path)
	args = command.Expand(args, map[string]string{command.FilePlaceholder: path})
	inv := process.Invocation{Name: args[0], Args: args[1:]}
	f.Runner.Log.Printf("exec: %s", inv)

	if _, err := f.Runner.Exec.Run(ctx, inv); err != nil {
		return false, fmt.Errorf("fixing %q: %w", path, err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %q: %w", path, err)
	}
	return !bytes.Equal(before, after), nil
}
