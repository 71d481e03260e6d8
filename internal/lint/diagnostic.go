package lint

import "sort"

// Severity indicates the severity level of a diagnostic.
type Severity string

// Severity levels.
const (
	Error   Severity = "error"
	Warning Severity = "warning"
)

// Diagnostic represents a single finding reported by the fixer.
type Diagnostic struct {
	File     string
	Line     int
	Column   int
	EndLine  int
	Rule     string
	Severity Severity
	Message  string
	// Near is the first changed line of the fixer's diff.
	Near string
	// Diff is the unified diff the fixer proposed for this violation.
	Diff string
}

// Sort orders diagnostics by file, line and column.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		di, dj := diags[i], diags[j]
		if di.File != dj.File {
			return di.File < dj.File
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		return di.Column < dj.Column
	})
}
