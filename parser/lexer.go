package parser

import (
	"github.com/robinvdvleuten/facet/ast"
	"github.com/robinvdvleuten/facet/diag"
	"github.com/robinvdvleuten/facet/sourcemap"
)

// Lexer turns one source file into tokens, a single token per call.
// It is zero-copy: every token is a byte range into the file, offset
// into the shared source-map space.
//
// Escaped characters ('\#', '\}', '\\') are literal text, but the
// backslash byte belongs to no token. A text run therefore ends before
// each backslash and a fresh one starts at the escaped character, so
// writing the spans back out reproduces the text without the escapes.
type Lexer struct {
	file    *sourcemap.File
	handler *diag.Handler

	pos  int
	nest int

	failed bool
}

// NewLexer creates a lexer over a loaded source file.
func NewLexer(f *sourcemap.File, h *diag.Handler) *Lexer {
	return &Lexer{file: f, handler: h}
}

// Failed reports whether lexing hit an unrecoverable token. Once set,
// Next returns only EOF.
func (l *Lexer) Failed() bool { return l.failed }

// Next returns the next token. After the end of input (or a fatal
// token) every call returns EOF.
func (l *Lexer) Next() Token {
	if l.failed {
		return l.eof()
	}

	src := l.file.Src
	start := l.pos

	for l.pos < len(src) {
		switch c := src[l.pos]; {
		case c == '\\' && l.pos+1 < len(src) && escapable(src[l.pos+1]):
			if l.pos > start {
				tok := l.token(TEXT, start, l.pos)
				l.pos++ // skip the backslash
				return tok
			}
			l.pos++ // skip the backslash
			start = l.pos
			l.pos++ // the escaped character is plain text

		case c == '}' && l.pos+1 < len(src) && src[l.pos+1] == '#':
			if l.pos > start {
				return l.token(TEXT, start, l.pos)
			}
			tok := l.token(DIMCLOSE, l.pos, l.pos+2)
			l.pos += 2
			if l.nest > 0 {
				l.nest--
			}
			return tok

		case c == '#' && l.pos+1 < len(src) && src[l.pos+1] == '$':
			if l.pos > start {
				return l.token(TEXT, start, l.pos)
			}
			return l.lexVar()

		case c == '#' && l.nest > 0 && l.pos+1 < len(src) && src[l.pos+1] == '#':
			if l.pos > start {
				return l.token(TEXT, start, l.pos)
			}
			tok := l.token(DIMSEP, l.pos, l.pos+2)
			l.pos += 2
			return tok

		case c == '#' && l.pos+1 < len(src) && isIdentStart(src[l.pos+1]):
			if end, ok := l.scanDimOpen(); ok {
				if l.pos > start {
					return l.token(TEXT, start, l.pos)
				}
				tok := l.token(DIMOPEN, l.pos, end)
				l.pos = end
				l.nest++
				return tok
			}
			// Not a dimension opening after all; the '#' is text.
			l.pos++

		default:
			l.pos++
		}
	}

	if l.pos > start {
		return l.token(TEXT, start, l.pos)
	}
	return l.eof()
}

// scanDimOpen looks ahead from a '#' at an identifier followed by '{'.
// It consumes nothing; ok is false when the lookahead is plain text.
func (l *Lexer) scanDimOpen() (end int, ok bool) {
	src := l.file.Src
	j := l.pos + 1
	for j < len(src) && isIdentCont(src[j]) {
		j++
	}
	if j < len(src) && src[j] == '{' {
		return j + 1, true
	}
	return 0, false
}

// lexVar consumes '#$name#' starting at the current '#'. Whitespace or
// end of input before the closing '#' is unrecoverable; a byte outside
// the variable charset is reported and skipped.
func (l *Lexer) lexVar() Token {
	src := l.file.Src
	start := l.pos
	j := l.pos + 2
	for j < len(src) {
		c := src[j]
		switch {
		case c == '#':
			tok := l.token(VAR, start, j+1)
			l.pos = j + 1
			return tok
		case isSpace(c):
			l.failed = true
			l.handler.Error("variable reference is never terminated").
				WithSpan(l.span(start, j)).
				Note("a variable reference cannot contain whitespace").
				Emit()
			l.pos = j
			return l.eof()
		case !isVarSymbol(c):
			l.handler.Errorf("illegal character %q in variable name", c).
				WithSpan(l.span(j, j+1)).
				Emit()
			j++
		default:
			j++
		}
	}
	l.failed = true
	l.handler.Error("variable reference is never terminated").
		WithSpan(l.span(start, j)).
		Note("expected a closing '#' before the end of input").
		Emit()
	l.pos = j
	return l.eof()
}

func (l *Lexer) token(kind TokenKind, start, end int) Token {
	return Token{Kind: kind, Span: l.span(start, end)}
}

func (l *Lexer) span(start, end int) ast.Span {
	return ast.Span{
		Lo: l.file.Start + ast.Pos(start),
		Hi: l.file.Start + ast.Pos(end),
	}
}

func (l *Lexer) eof() Token {
	return l.token(EOF, len(l.file.Src), len(l.file.Src))
}

func escapable(c byte) bool {
	return c == '#' || c == '}' || c == '\\'
}

// isIdentStart and isIdentCont bound dimension names; variable names
// use the wider isVarSymbol set.
func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9')
}

func isVarSymbol(c byte) bool {
	switch c {
	case '!', '%', '&', '\'', '*', '+', '-', '.', '/', ':', '<', '=', '>', '?', '@', '_':
		return true
	}
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
