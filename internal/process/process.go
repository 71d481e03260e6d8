// Package process runs the external fixer and captures its output.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"slices"
	"strings"
)

// ErrExecutableNotFound is returned when the fixer cannot be started
// because the executable does not exist.
var ErrExecutableNotFound = errors.New("executable not found")

// ExitNeedsFixing is the fixer's dry-run status when files would change.
const ExitNeedsFixing = 8

// Invocation describes one process launch.
type Invocation struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
}

// String renders the invocation as a shell-like command line for logs.
func (inv Invocation) String() string {
	return strings.Join(append([]string{inv.Name}, inv.Args...), " ")
}

// Output holds what a finished process wrote.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// ExitError reports a fixer exit status that is neither success nor
// "files need fixing".
type ExitError struct {
	Name     string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with status %d", e.Name, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Name, e.ExitCode, e.Stderr)
}

// Executor launches processes.
type Executor interface {
	Run(ctx context.Context, inv Invocation) (*Output, error)
}

// ExecExecutor runs real processes through os/exec.
type ExecExecutor struct {
	// OKCodes lists non-zero exit codes that are not failures.
	// Nil means {ExitNeedsFixing}.
	OKCodes []int
}

// Run starts inv, waits for it and returns its output. Exit codes other
// than 0 and OKCodes produce an *ExitError alongside the output.
func (e *ExecExecutor) Run(ctx context.Context, inv Invocation) (*Output, error) {
	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = inv.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := &Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return out, nil
	}

	if missingExecutable(err, cmd.Path) {
		return nil, fmt.Errorf("%w: %s: %w", ErrExecutableNotFound, inv.Name, err)
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return nil, fmt.Errorf("running %s: %w", inv.Name, err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("running %s: %w", inv.Name, ctxErr)
	}

	out.ExitCode = exitErr.ExitCode()
	if e.isOK(out.ExitCode) {
		return out, nil
	}
	return out, &ExitError{
		Name:     inv.Name,
		ExitCode: out.ExitCode,
		Stderr:   strings.TrimSpace(stderr.String()),
	}
}

// missingExecutable reports whether err says the program at path does
// not exist. A missing working directory fails with a "chdir" error and
// does not count.
func missingExecutable(err error, path string) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	var pe *fs.PathError
	return errors.As(err, &pe) && pe.Op != "chdir" && pe.Path == path && errors.Is(pe.Err, fs.ErrNotExist)
}

func (e *ExecExecutor) isOK(code int) bool {
	if e.OKCodes == nil {
		return code == ExitNeedsFixing
	}
	return slices.Contains(e.OKCodes, code)
}
