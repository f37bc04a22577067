package diag

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/facet/ast"
	"github.com/robinvdvleuten/facet/sourcemap"
)

var (
	fatalStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "196"})
	errorStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "196"})
	warningStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "214"})
	noteStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "31", Dark: "45"})
	gutterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "243"})
)

func (h *Handler) severityLabel(sev Severity) string {
	label := sev.String()
	if !h.color {
		return label
	}
	switch sev {
	case Fatal:
		return fatalStyle.Render(label)
	case Error:
		return errorStyle.Render(label)
	case Warning:
		return warningStyle.Render(label)
	default:
		return noteStyle.Render(label)
	}
}

func (h *Handler) gutter(s string) string {
	if !h.color {
		return s
	}
	return gutterStyle.Render(s)
}

// render formats a diagnostic as one or more terminated lines. Spanned
// diagnostics get a source excerpt with a caret line when the handler
// has a source map to resolve them against.
func (h *Handler) render(d Diagnostic) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s: %s\n", h.severityLabel(d.Severity), d.Message)

	if h.srcmap != nil && !d.Span.IsNil() {
		if f := h.srcmap.LookupSource(d.Span.Lo); f != nil && !f.Binary {
			h.renderContext(&buf, f, d.Span)
		}
	}

	if !h.flags.NoExtra {
		for _, note := range d.Notes {
			fmt.Fprintf(&buf, "  %s %s: %s\n", h.gutter("="), h.severityLabel(Note), note)
		}
	}

	return buf.String()
}

// renderContext writes the offending line with a caret run under the
// spanned bytes. Spans that cross a line boundary are clipped to the
// first line.
func (h *Handler) renderContext(buf *bytes.Buffer, f *sourcemap.File, sp ast.Span) {
	line, col := f.Position(sp.Lo)
	text := f.Line(line)

	fmt.Fprintf(buf, "  %s %s:%d:%d\n", h.gutter("-->"), f.Path, line, col)

	num := fmt.Sprintf("%d", line)
	pad := strings.Repeat(" ", len(num))

	fmt.Fprintf(buf, " %s\n", h.gutter(pad+" |"))
	fmt.Fprintf(buf, " %s %s\n", h.gutter(num+" |"), text)

	// Caret alignment and width use display columns so wide runes
	// before and inside the span stay lined up.
	off := byteColumn(text, col)
	before := text[:off]
	spanned := clipToLine(text, off, int(sp.Len()))

	carets := runewidth.StringWidth(spanned)
	if carets < 1 {
		carets = 1
	}
	fmt.Fprintf(buf, " %s %s%s\n",
		h.gutter(pad+" |"),
		strings.Repeat(" ", runewidth.StringWidth(before)),
		strings.Repeat("^", carets))
}

// byteColumn converts a 1-indexed rune column back to a byte offset
// within the line.
func byteColumn(line string, col int) int {
	n := 0
	for i := range line {
		n++
		if n == col {
			return i
		}
	}
	return len(line)
}

func clipToLine(line string, start, length int) string {
	if start >= len(line) {
		return ""
	}
	end := start + length
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}
