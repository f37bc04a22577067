package parser

import (
	"fmt"

	"github.com/robinvdvleuten/facet/ast"
)

// TokenKind discriminates the token types the lexer produces.
type TokenKind int

const (
	// TEXT is a run of literal bytes, escape backslashes excluded.
	TEXT TokenKind = iota
	// VAR is a whole variable reference, '#$name#'.
	VAR
	// DIMOPEN is a dimension opener, '#name{'.
	DIMOPEN
	// DIMSEP is a branch separator, '##', only inside a dimension.
	DIMSEP
	// DIMCLOSE is a dimension closer, '}#'.
	DIMCLOSE
	// EOF terminates every token stream exactly once.
	EOF
)

func (k TokenKind) String() string {
	switch k {
	case TEXT:
		return "text"
	case VAR:
		return "variable"
	case DIMOPEN:
		return "dimension opening"
	case DIMSEP:
		return "'##'"
	case DIMCLOSE:
		return "'}#'"
	case EOF:
		return "end of file"
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// Token is a kind plus the source range it covers. Tokens carry no
// text of their own; names and content are recovered from the source
// through the span.
type Token struct {
	Kind TokenKind
	Span ast.Span
}

func (t Token) String() string {
	return fmt.Sprintf("%s@%s", t.Kind, t.Span)
}
