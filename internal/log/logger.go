package log

import (
	"fmt"
	"io"
	"sync"
)

// Logger writes verbose trace messages when Enabled is true and warnings
// unconditionally. Output goes to W (typically stderr). A nil *Logger
// discards everything.
type Logger struct {
	Enabled bool
	W       io.Writer

	mu sync.Mutex
}

// Printf writes a formatted trace line to W when Enabled is true.
// It is a no-op when Enabled is false.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || !l.Enabled {
		return
	}
	l.write("", format, args...)
}

// Warnf writes a formatted warning line to W regardless of Enabled.
func (l *Logger) Warnf(format string, args ...any) {
	if l == nil {
		return
	}
	l.write("warning: ", format, args...)
}

func (l *Logger) write(prefix, format string, args ...any) {
	if l.W == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.W, "phpcsfixlint: "+prefix+format+"\n", args...)
}
