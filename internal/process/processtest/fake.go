// Package processtest provides a scripted process.Executor for tests.
package processtest

import (
	"context"
	"os"
	"sync"

	"github.com/jhoff/phpcsfixlint/internal/process"
)

// Call is one recorded invocation.
type Call struct {
	process.Invocation
	// Target is the content of the file named by Args[1], the fixer's
	// path argument, at the time of the call, if it was readable.
	Target []byte
}

// Fake records invocations and answers them with Respond. It is safe for
// concurrent use.
type Fake struct {
	// Respond produces the result of an invocation. Nil returns empty
	// output.
	Respond func(inv process.Invocation) (*process.Output, error)

	mu    sync.Mutex
	calls []Call
}

// Run implements process.Executor.
func (f *Fake) Run(ctx context.Context, inv process.Invocation) (*process.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	call := Call{Invocation: inv}
	if len(inv.Args) >= 2 {
		if data, err := os.ReadFile(inv.Args[1]); err == nil {
			call.Target = data
		}
	}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	if f.Respond == nil {
		return &process.Output{}, nil
	}
	return f.Respond(inv)
}

// Calls returns a copy of the recorded invocations.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// Stdout returns a Respond function that always writes s to stdout and
// exits with code.
func Stdout(s string, code int) func(process.Invocation) (*process.Output, error) {
	return func(process.Invocation) (*process.Output, error) {
		return &process.Output{Stdout: []byte(s), ExitCode: code}, nil
	}
}
