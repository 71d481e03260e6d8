package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jhoff/phpcsfixlint/internal/lint"
)

// TextFormatter outputs diagnostics in human-readable text format.
// When Color is true, the location is printed in cyan and the message
// prefix in yellow; diff lines are green or red.
type TextFormatter struct {
	Color    bool
	ShowDiff bool
}

// Format writes each diagnostic as a single line in the pattern:
// file:line:col: message
// With ShowDiff set, the proposed diff follows, indented by four spaces.
func (f *TextFormatter) Format(w io.Writer, diagnostics []lint.Diagnostic) error {
	loc := f.paint(color.FgCyan)
	msg := f.paint(color.FgYellow)
	for _, d := range diagnostics {
		where := fmt.Sprintf("%s:%d:%d:", d.File, d.Line, d.Column)
		if _, err := fmt.Fprintf(w, "%s %s\n", loc.Sprint(where), msg.Sprint(d.Message)); err != nil {
			return err
		}
		if f.ShowDiff && d.Diff != "" {
			if err := f.writeDiff(w, d.Diff); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *TextFormatter) writeDiff(w io.Writer, diff string) error {
	added := f.paint(color.FgGreen)
	removed := f.paint(color.FgRed)
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		text := line
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			text = added.Sprint(line)
		case strings.HasPrefix(line, "-"):
			text = removed.Sprint(line)
		}
		if _, err := fmt.Fprintf(w, "    %s\n", text); err != nil {
			return err
		}
	}
	return nil
}

// paint returns a color that is forced on or off by f.Color, ignoring
// the package-level terminal detection of fatih/color.
func (f *TextFormatter) paint(attr color.Attribute) *color.Color {
	c := color.New(attr)
	if f.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
