// Package output renders diagnostics for humans and machines.
package output

import (
	"fmt"
	"io"

	"github.com/jhoff/phpcsfixlint/internal/lint"
)

// Formatter defines the interface for outputting diagnostics.
type Formatter interface {
	Format(w io.Writer, diagnostics []lint.Diagnostic) error
}

// Formats lists the names accepted by New.
var Formats = []string{"text", "json", "html"}

// Options carries the presentation switches shared by the formatters.
type Options struct {
	Color    bool
	ShowDiff bool
}

// New returns the formatter registered under name.
func New(name string, opts Options) (Formatter, error) {
	switch name {
	case "", "text":
		return &TextFormatter{Color: opts.Color, ShowDiff: opts.ShowDiff}, nil
	case "json":
		return &JSONFormatter{}, nil
	case "html":
		return &HTMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (valid: text, json, html)", name)
	}
}
