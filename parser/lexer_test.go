package parser

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/facet/ast"
	"github.com/robinvdvleuten/facet/diag"
	"github.com/robinvdvleuten/facet/sourcemap"
)

func lexAll(src string) (*TokenStream, *diag.Handler) {
	m := sourcemap.New()
	f := m.AddVirtual("test.txt", src)
	h := diag.NewHandler(diag.Flags{ReportLevel: 0})
	return SourceToStream(f, h), h
}

func tok(kind TokenKind, lo, hi uint64) Token {
	return Token{Kind: kind, Span: ast.NewSpan(lo, hi)}
}

func TestLexer(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Token
	}{
		{
			name: "empty input",
			src:  "",
			want: []Token{tok(EOF, 0, 0)},
		},
		{
			name: "plain text",
			src:  "foobar",
			want: []Token{tok(TEXT, 0, 6), tok(EOF, 6, 6)},
		},
		{
			name: "adjacent variables",
			src:  "#$var1##$name#",
			want: []Token{tok(VAR, 0, 7), tok(VAR, 7, 14), tok(EOF, 14, 14)},
		},
		{
			name: "variable between text",
			src:  "hi #$who#!",
			want: []Token{
				tok(TEXT, 0, 3),
				tok(VAR, 3, 9),
				tok(TEXT, 9, 10),
				tok(EOF, 10, 10),
			},
		},
		{
			name: "dimension with two branches",
			src:  "#dim0{hello ## world}#",
			want: []Token{
				tok(DIMOPEN, 0, 6),
				tok(TEXT, 6, 12),
				tok(DIMSEP, 12, 14),
				tok(TEXT, 14, 20),
				tok(DIMCLOSE, 20, 22),
				tok(EOF, 22, 22),
			},
		},
		{
			name: "separator outside a dimension is text",
			src:  "a##b",
			want: []Token{tok(TEXT, 0, 4), tok(EOF, 4, 4)},
		},
		{
			name: "separator after closed dimension is text",
			src:  "#d{x}###",
			want: []Token{
				tok(DIMOPEN, 0, 3),
				tok(TEXT, 3, 4),
				tok(DIMCLOSE, 4, 6),
				tok(TEXT, 6, 8),
				tok(EOF, 8, 8),
			},
		},
		{
			name: "hash without braces is text",
			src:  "#notadim and #5{}#",
			want: []Token{
				tok(TEXT, 0, 16),
				tok(DIMCLOSE, 16, 18),
				tok(EOF, 18, 18),
			},
		},
		{
			name: "nested dimensions",
			src:  "#a{#b{x}#}#",
			want: []Token{
				tok(DIMOPEN, 0, 3),
				tok(DIMOPEN, 3, 6),
				tok(TEXT, 6, 7),
				tok(DIMCLOSE, 7, 9),
				tok(DIMCLOSE, 9, 11),
				tok(EOF, 11, 11),
			},
		},
		{
			name: "escapes split text and drop the backslash",
			src:  `foo \#$foo# \\ x`,
			want: []Token{
				tok(TEXT, 0, 4),
				tok(TEXT, 5, 12),
				tok(TEXT, 13, 16),
				tok(EOF, 16, 16),
			},
		},
		{
			name: "escaped closer inside dimension",
			src:  `#d{a\}#b}#`,
			want: []Token{
				tok(DIMOPEN, 0, 3),
				tok(TEXT, 3, 4),
				tok(TEXT, 5, 8),
				tok(DIMCLOSE, 8, 10),
				tok(EOF, 10, 10),
			},
		},
		{
			name: "stray backslash is text",
			src:  `a\b`,
			want: []Token{tok(TEXT, 0, 3), tok(EOF, 3, 3)},
		},
		{
			name: "symbols in variable names",
			src:  "#$my-var.v2#",
			want: []Token{tok(VAR, 0, 12), tok(EOF, 12, 12)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, h := lexAll(tt.src)
			assert.Equal(t, tt.want, s.Tokens())
			assert.False(t, s.Failed())
			assert.Equal(t, 0, h.ErrCount())
		})
	}
}

func TestLexerVarErrors(t *testing.T) {
	t.Run("whitespace aborts lexing", func(t *testing.T) {
		s, h := lexAll("#$foo bar")
		assert.True(t, s.Failed())
		assert.Equal(t, 1, h.ErrCount())
		assert.Equal(t, []Token{tok(EOF, 9, 9)}, s.Tokens())
	})

	t.Run("end of input aborts lexing", func(t *testing.T) {
		s, h := lexAll("x #$foo")
		assert.True(t, s.Failed())
		assert.Equal(t, 1, h.ErrCount())
		// The text before the bad reference still tokenized.
		assert.Equal(t, []Token{tok(TEXT, 0, 2), tok(EOF, 7, 7)}, s.Tokens())
	})

	t.Run("illegal character is recoverable", func(t *testing.T) {
		s, h := lexAll("#$fo(o# tail")
		assert.False(t, s.Failed())
		assert.Equal(t, 1, h.ErrCount())
		assert.Equal(t, []Token{
			tok(VAR, 0, 7),
			tok(TEXT, 7, 12),
			tok(EOF, 12, 12),
		}, s.Tokens())
	})
}

func TestStreamCursor(t *testing.T) {
	s, _ := lexAll("a#$v#")
	assert.Equal(t, 3, s.Len())

	assert.Equal(t, TEXT, s.Peek().Kind)
	assert.Equal(t, TEXT, s.Next().Kind)
	assert.Equal(t, VAR, s.Next().Kind)
	assert.Equal(t, EOF, s.Next().Kind)
	// EOF is sticky.
	assert.Equal(t, EOF, s.Next().Kind)
	assert.Equal(t, EOF, s.Peek().Kind)
}
