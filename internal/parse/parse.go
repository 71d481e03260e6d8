// Package parse turns php-cs-fixer dry-run output into diagnostics.
package parse

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/jhoff/phpcsfixlint/internal/lint"
	"github.com/jhoff/phpcsfixlint/internal/profile"
)

const (
	beginDiffMarker = "begin diff"
	endDiffMarker   = "end diff"
)

// Parser extracts diagnostics with a multiline pattern that must define
// the named groups "message" and "line"; "error" is optional.
type Parser struct {
	Pattern    *regexp.Regexp
	LineOffset int
	Prefix     string
}

// New returns a Parser configured from the profile's pattern, line offset
// and message prefix.
func New(p *profile.Profile) *Parser {
	return &Parser{
		Pattern:    p.Pattern,
		LineOffset: p.LineOffset,
		Prefix:     p.MessagePrefix,
	}
}

// Parse returns one diagnostic per pattern match in output, attributed to
// file. Output without violation entries yields no diagnostics.
func (p *Parser) Parse(file, output string) []lint.Diagnostic {
	if p.Pattern == nil || output == "" {
		return nil
	}

	msgIdx := p.Pattern.SubexpIndex("message")
	lineIdx := p.Pattern.SubexpIndex("line")
	errIdx := p.Pattern.SubexpIndex("error")
	if msgIdx < 0 || lineIdx < 0 {
		return nil
	}

	matches := p.Pattern.FindAllStringSubmatchIndex(output, -1)
	diags := make([]lint.Diagnostic, 0, len(matches))
	for i, m := range matches {
		line, err := strconv.Atoi(group(output, m, lineIdx))
		if err != nil {
			continue
		}
		message := group(output, m, msgIdx)

		d := lint.Diagnostic{
			File:     file,
			Line:     line + p.LineOffset,
			Column:   0,
			Rule:     message,
			Severity: lint.Error,
			Message:  p.Prefix + message,
		}
		if errIdx >= 0 {
			d.Near = strings.TrimRight(group(output, m, errIdx), "\r")
		}

		end := len(output)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		p.attachDiff(&d, output[m[0]:end])

		diags = append(diags, d)
	}
	return diags
}

func group(s string, m []int, idx int) string {
	if 2*idx+1 >= len(m) || m[2*idx] < 0 {
		return ""
	}
	return s[m[2*idx]:m[2*idx+1]]
}

// attachDiff stores the violation's diff block on d and derives EndLine
// from the last changed line of its first hunk. Blocks that do not parse
// as a unified diff leave d untouched.
func (p *Parser) attachDiff(d *lint.Diagnostic, region string) {
	block := extractDiffBlock(region)
	if block == "" {
		return
	}

	fd, err := diff.ParseFileDiff([]byte(block))
	if err != nil || len(fd.Hunks) == 0 {
		return
	}

	d.Diff = block
	if last := lastChangedLine(fd.Hunks[0]); last > 0 {
		d.EndLine = max(d.Line, last)
	}
}

// extractDiffBlock returns the text between the fixer's begin/end diff
// markers, with file headers added when the fixer omitted them.
func extractDiffBlock(region string) string {
	lines := strings.Split(region, "\n")
	start, stop := -1, len(lines)
	for i, l := range lines {
		switch {
		case start < 0 && strings.Contains(l, beginDiffMarker):
			start = i + 1
		case start >= 0 && strings.Contains(l, endDiffMarker):
			stop = i
		}
		if stop != len(lines) {
			break
		}
	}
	if start < 0 || start >= stop {
		return ""
	}

	body := lines[start:stop]
	for len(body) > 0 && strings.TrimSpace(body[len(body)-1]) == "" {
		body = body[:len(body)-1]
	}
	if len(body) == 0 {
		return ""
	}

	var b strings.Builder
	if !strings.HasPrefix(body[0], "--- ") {
		b.WriteString("--- Original\n+++ New\n")
	}
	for _, l := range body {
		l = strings.TrimRight(l, "\r")
		if l == "" {
			// Blank context lines lose their leading space in the output.
			l = " "
		}
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// lastChangedLine walks the hunk body in new-file numbering and returns
// the line of the last addition or deletion.
func lastChangedLine(h *diff.Hunk) int {
	line := int(h.NewStartLine)
	last := 0
	for _, l := range bytes.Split(h.Body, []byte("\n")) {
		if len(l) == 0 {
			continue
		}
		switch l[0] {
		case '+':
			last = line
			line++
		case '-':
			last = line
		case '\\':
		default:
			line++
		}
	}
	return last
}
