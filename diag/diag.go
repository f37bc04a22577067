// Package diag collects and reports diagnostics for the whole
// pipeline. Producers build diagnostics fluently and either emit them
// immediately or delay them so related messages can be flushed as a
// group; the handler keeps the error count that decides whether output
// may be written at all.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/robinvdvleuten/facet/ast"
	"github.com/robinvdvleuten/facet/sourcemap"
)

// Severity orders diagnostics from most to least severe.
type Severity int

const (
	// Fatal stops the current document; no recovery is attempted.
	Fatal Severity = iota
	// Error prevents output from being written.
	Error
	// Warning is reported but does not fail the run, unless promoted
	// by WarnAsError.
	Warning
	// Note carries supplementary context.
	Note
)

func (s Severity) String() string {
	switch s {
	case Fatal:
		return "fatal"
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Flags controls what gets printed. The error count is tracked
// regardless of the report level.
type Flags struct {
	// ReportLevel caps what is shown: 0 nothing, 1 fatal, 2 +errors,
	// 3 +warnings, 4 +notes, 5 everything verbose.
	ReportLevel int
	// WarnAsError counts warnings as errors.
	WarnAsError bool
	// NoExtra suppresses the attached note lines under a diagnostic.
	NoExtra bool
}

// DefaultFlags shows everything up to notes.
func DefaultFlags() Flags {
	return Flags{ReportLevel: 4}
}

// Diagnostic is one finished message.
type Diagnostic struct {
	Severity Severity
	Message  string
	// Span locates the offending source range, or ast.Nil when the
	// diagnostic has no location.
	Span  ast.Span
	Notes []string
}

// Handler receives diagnostics, prints the visible ones, and counts
// failures.
type Handler struct {
	flags    Flags
	out      io.Writer
	srcmap   *sourcemap.Map
	color    bool
	delayed  []Diagnostic
	errors   int
	warnings int
}

// Option configures a Handler.
type Option func(*Handler)

// WithOutput directs rendered diagnostics to w instead of stderr.
func WithOutput(w io.Writer) Option {
	return func(h *Handler) { h.out = w }
}

// WithSourceMap enables source-context rendering for spanned
// diagnostics.
func WithSourceMap(m *sourcemap.Map) Option {
	return func(h *Handler) { h.srcmap = m }
}

// WithColor toggles ANSI styling.
func WithColor(enabled bool) Option {
	return func(h *Handler) { h.color = enabled }
}

// NewHandler creates a handler with the given flags.
func NewHandler(flags Flags, opts ...Option) *Handler {
	h := &Handler{flags: flags, out: os.Stderr}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Fatal starts a fatal diagnostic.
func (h *Handler) Fatal(msg string) *Builder { return h.build(Fatal, msg) }

// Error starts an error diagnostic.
func (h *Handler) Error(msg string) *Builder { return h.build(Error, msg) }

// Errorf starts an error diagnostic from a format string.
func (h *Handler) Errorf(format string, args ...any) *Builder {
	return h.build(Error, fmt.Sprintf(format, args...))
}

// Warning starts a warning diagnostic.
func (h *Handler) Warning(msg string) *Builder { return h.build(Warning, msg) }

// Warningf starts a warning diagnostic from a format string.
func (h *Handler) Warningf(format string, args ...any) *Builder {
	return h.build(Warning, fmt.Sprintf(format, args...))
}

// Note starts a standalone note.
func (h *Handler) Note(msg string) *Builder { return h.build(Note, msg) }

// Notef starts a standalone note from a format string.
func (h *Handler) Notef(format string, args ...any) *Builder {
	return h.build(Note, fmt.Sprintf(format, args...))
}

func (h *Handler) build(sev Severity, msg string) *Builder {
	return &Builder{h: h, d: Diagnostic{Severity: sev, Message: msg, Span: ast.Nil}}
}

// Emit records and, if visible, prints a finished diagnostic.
func (h *Handler) Emit(d Diagnostic) {
	h.count(d)
	if h.visible(d.Severity) {
		fmt.Fprint(h.out, h.render(d))
	}
}

// Delay records the diagnostic for counting but postpones printing
// until Flush. Resolution uses this to keep one dimension's messages
// adjacent.
func (h *Handler) Delay(d Diagnostic) {
	h.count(d)
	h.delayed = append(h.delayed, d)
}

// Flush prints every delayed diagnostic, in the order delayed, and
// clears the queue.
func (h *Handler) Flush() {
	for _, d := range h.delayed {
		if h.visible(d.Severity) {
			fmt.Fprint(h.out, h.render(d))
		}
	}
	h.delayed = h.delayed[:0]
}

// ErrCount returns the number of fatal and error diagnostics seen,
// including warnings promoted by WarnAsError.
func (h *Handler) ErrCount() int { return h.errors }

// WarnCount returns the number of unpromoted warnings seen.
func (h *Handler) WarnCount() int { return h.warnings }

// Failed reports whether any counted error occurred.
func (h *Handler) Failed() bool { return h.errors > 0 }

func (h *Handler) count(d Diagnostic) {
	switch d.Severity {
	case Fatal, Error:
		h.errors++
	case Warning:
		if h.flags.WarnAsError {
			h.errors++
		} else {
			h.warnings++
		}
	}
}

func (h *Handler) visible(sev Severity) bool {
	switch sev {
	case Fatal:
		return h.flags.ReportLevel >= 1
	case Error:
		return h.flags.ReportLevel >= 2
	case Warning:
		return h.flags.ReportLevel >= 3
	default:
		return h.flags.ReportLevel >= 4
	}
}

// Builder accumulates one diagnostic before handing it to the handler.
type Builder struct {
	h *Handler
	d Diagnostic
}

// WithSpan attaches a source location.
func (b *Builder) WithSpan(sp ast.Span) *Builder {
	b.d.Span = sp
	return b
}

// Note attaches a supplementary line.
func (b *Builder) Note(msg string) *Builder {
	b.d.Notes = append(b.d.Notes, msg)
	return b
}

// Notef attaches a formatted supplementary line.
func (b *Builder) Notef(format string, args ...any) *Builder {
	return b.Note(fmt.Sprintf(format, args...))
}

// Emit finishes the diagnostic and reports it immediately.
func (b *Builder) Emit() { b.h.Emit(b.d) }

// Delay finishes the diagnostic and queues it for Flush.
func (b *Builder) Delay() { b.h.Delay(b.d) }
