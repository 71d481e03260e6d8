package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jhoff/phpcsfixlint/internal/lint"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// HTMLFormatter writes a standalone HTML report. The report is assembled
// as Markdown and rendered with goldmark.
type HTMLFormatter struct{}

const htmlHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>phpcsfixlint report</title>
</head>
<body>
`

const htmlFoot = `</body>
</html>
`

// Format renders diagnostics grouped by file, each with its proposed diff.
func (f *HTMLFormatter) Format(w io.Writer, diagnostics []lint.Diagnostic) error {
	md := Markdown(diagnostics)
	var body bytes.Buffer
	gm := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := gm.Convert([]byte(md), &body); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	if _, err := io.WriteString(w, htmlHead); err != nil {
		return err
	}
	if _, err := body.WriteTo(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, htmlFoot)
	return err
}

// Markdown returns the report source that HTMLFormatter renders.
func Markdown(diagnostics []lint.Diagnostic) string {
	var b strings.Builder
	b.WriteString("# phpcsfixlint report\n\n")
	if len(diagnostics) == 0 {
		b.WriteString("No problems found.\n")
		return b.String()
	}

	files := 0
	for i, d := range diagnostics {
		if i == 0 || diagnostics[i-1].File != d.File {
			files++
		}
	}
	fmt.Fprintf(&b, "%d %s in %d %s.\n", len(diagnostics), plural(len(diagnostics), "problem"),
		files, plural(files, "file"))

	for i, d := range diagnostics {
		if i == 0 || diagnostics[i-1].File != d.File {
			fmt.Fprintf(&b, "\n## %s\n\n", escapeMarkdown(d.File))
		}
		fmt.Fprintf(&b, "- **line %d**: %s\n", d.Line, escapeMarkdown(d.Message))
		if d.Diff != "" {
			fence := codeFence(d.Diff)
			fmt.Fprintf(&b, "\n  %sdiff\n", fence)
			for _, line := range strings.Split(strings.TrimRight(d.Diff, "\n"), "\n") {
				fmt.Fprintf(&b, "  %s\n", line)
			}
			fmt.Fprintf(&b, "  %s\n\n", fence)
		}
	}
	return b.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// codeFence returns a backtick fence longer than any backtick run in s.
func codeFence(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return strings.Repeat("`", max(3, longest+1))
}

// escapeMarkdown backslash-escapes the ASCII punctuation that Markdown
// treats as syntax.
func escapeMarkdown(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune("\\`*_{}[]()<>#+-.!|&~", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
