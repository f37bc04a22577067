package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/facet/ast"
	"github.com/robinvdvleuten/facet/sourcemap"
)

func TestHandlerCounting(t *testing.T) {
	tests := []struct {
		name     string
		flags    Flags
		emit     func(h *Handler)
		errors   int
		warnings int
	}{
		{
			name:   "errors counted",
			flags:  DefaultFlags(),
			emit:   func(h *Handler) { h.Error("boom").Emit(); h.Error("boom again").Emit() },
			errors: 2,
		},
		{
			name:     "warnings not counted as errors",
			flags:    DefaultFlags(),
			emit:     func(h *Handler) { h.Warning("careful").Emit() },
			warnings: 1,
		},
		{
			name:   "warnings promoted",
			flags:  Flags{ReportLevel: 4, WarnAsError: true},
			emit:   func(h *Handler) { h.Warning("careful").Emit() },
			errors: 1,
		},
		{
			name:  "notes never counted",
			flags: DefaultFlags(),
			emit:  func(h *Handler) { h.Note("fyi").Emit() },
		},
		{
			name:   "delayed diagnostics count before flush",
			flags:  DefaultFlags(),
			emit:   func(h *Handler) { h.Error("later").Delay() },
			errors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewHandler(tt.flags, WithOutput(&buf))
			tt.emit(h)
			assert.Equal(t, tt.errors, h.ErrCount())
			assert.Equal(t, tt.warnings, h.WarnCount())
			assert.Equal(t, tt.errors > 0, h.Failed())
		})
	}
}

func TestReportLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   int
		sev     Severity
		visible bool
	}{
		{"silent hides fatal", 0, Fatal, false},
		{"level 1 shows fatal", 1, Fatal, true},
		{"level 1 hides errors", 1, Error, false},
		{"level 2 shows errors", 2, Error, true},
		{"level 2 hides warnings", 2, Warning, false},
		{"level 3 shows warnings", 3, Warning, true},
		{"level 3 hides notes", 3, Note, false},
		{"level 4 shows notes", 4, Note, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewHandler(Flags{ReportLevel: tt.level}, WithOutput(&buf))
			h.Emit(Diagnostic{Severity: tt.sev, Message: "msg", Span: ast.Nil})
			assert.Equal(t, tt.visible, buf.Len() > 0)
		})
	}
}

func TestDelayAndFlush(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(DefaultFlags(), WithOutput(&buf))

	h.Error("first").Delay()
	h.Warning("second").Delay()
	assert.Equal(t, "", buf.String())

	h.Flush()
	out := buf.String()
	assert.Contains(t, out, "error: first")
	assert.Contains(t, out, "warning: second")
	assert.True(t, strings.Index(out, "first") < strings.Index(out, "second"))

	// Flushing twice must not repeat anything.
	buf.Reset()
	h.Flush()
	assert.Equal(t, "", buf.String())
}

func TestRenderSourceContext(t *testing.T) {
	m := sourcemap.New()
	f := m.AddVirtual("greeting.txt", "hello\nworld #$var#\n")

	var buf bytes.Buffer
	h := NewHandler(DefaultFlags(), WithOutput(&buf), WithSourceMap(m))

	sp := ast.Span{Lo: f.Start + 12, Hi: f.Start + 18}
	h.Error("unknown variable 'var'").WithSpan(sp).Note("declare it in .facet.yaml").Emit()

	out := buf.String()
	assert.Contains(t, out, "error: unknown variable 'var'")
	assert.Contains(t, out, "greeting.txt:2:7")
	assert.Contains(t, out, "world #$var#")
	assert.Contains(t, out, "^^^^^^")
	assert.Contains(t, out, "note: declare it in .facet.yaml")
}

func TestRenderNoExtra(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(Flags{ReportLevel: 4, NoExtra: true}, WithOutput(&buf))
	h.Error("plain").Note("hidden").Emit()
	assert.Contains(t, buf.String(), "error: plain")
	assert.NotContains(t, buf.String(), "hidden")
}
