package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jhoff/phpcsfixlint/internal/lint"
)

// WriteSummary prints a table of diagnostic counts per file. The footer
// holds the totals, plus the number of failed files when errs is not
// empty.
func WriteSummary(w io.Writer, diagnostics []lint.Diagnostic, errs []error) {
	counts := make(map[string]int)
	for _, d := range diagnostics {
		counts[d.File]++
	}
	files := make([]string, 0, len(counts))
	for f := range counts {
		files = append(files, f)
	}
	sort.Strings(files)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Problems"})
	for _, f := range files {
		t.AppendRow(table.Row{f, counts[f]})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d files", len(files)), len(diagnostics)})
	if len(errs) > 0 {
		t.AppendFooter(table.Row{"errors", len(errs)})
	}
	t.Render()
}
