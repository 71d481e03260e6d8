package output

import (
	"encoding/json"
	"io"

	"github.com/jhoff/phpcsfixlint/internal/lint"
)

// JSONFormatter outputs diagnostics as a JSON array.
type JSONFormatter struct{}

type jsonDiagnostic struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	EndLine  int    `json:"end_line,omitempty"`
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Near     string `json:"near,omitempty"`
}

// Format writes diagnostics as a pretty-printed JSON array.
// An empty slice of diagnostics produces [].
func (f *JSONFormatter) Format(w io.Writer, diagnostics []lint.Diagnostic) error {
	items := make([]jsonDiagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		items = append(items, jsonDiagnostic{
			File:     d.File,
			Line:     d.Line,
			Column:   d.Column,
			EndLine:  d.EndLine,
			Rule:     d.Rule,
			Severity: string(d.Severity),
			Message:  d.Message,
			Near:     d.Near,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}
