package parser

import (
	"github.com/robinvdvleuten/facet/diag"
	"github.com/robinvdvleuten/facet/sourcemap"
)

// TokenStream is a fully materialized token sequence for one file.
// It always ends in exactly one EOF token, even when lexing aborted
// early, so the parser can rely on EOF as its sentinel.
type TokenStream struct {
	file   *sourcemap.File
	tokens []Token
	cursor int
	failed bool
}

// SourceToStream lexes the whole file up front. Lexer diagnostics go
// through the handler; Failed on the returned stream reports whether
// lexing aborted.
func SourceToStream(f *sourcemap.File, h *diag.Handler) *TokenStream {
	lex := NewLexer(f, h)
	s := &TokenStream{file: f}
	for {
		tok := lex.Next()
		s.tokens = append(s.tokens, tok)
		if tok.Kind == EOF {
			break
		}
	}
	s.failed = lex.Failed()
	return s
}

// File returns the source file the stream was lexed from.
func (s *TokenStream) File() *sourcemap.File { return s.file }

// Failed reports whether lexing hit an unrecoverable token.
func (s *TokenStream) Failed() bool { return s.failed }

// Len returns the number of tokens, including the trailing EOF.
func (s *TokenStream) Len() int { return len(s.tokens) }

// Peek returns the current token without consuming it.
func (s *TokenStream) Peek() Token {
	return s.tokens[s.cursor]
}

// Next consumes and returns the current token. The trailing EOF is
// sticky; consuming it again keeps returning it.
func (s *TokenStream) Next() Token {
	tok := s.tokens[s.cursor]
	if s.cursor < len(s.tokens)-1 {
		s.cursor++
	}
	return tok
}

// Tokens returns the backing slice, for debugging dumps.
func (s *TokenStream) Tokens() []Token {
	return s.tokens
}
