package parser

import (
	"fmt"

	"github.com/robinvdvleuten/facet/ast"
)

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	// UnexpectedToken is a structural token outside any dimension,
	// such as a stray '}#'.
	UnexpectedToken ErrorKind = iota
	// UnclosedDelimiter is a dimension opened but never closed.
	UnclosedDelimiter
	// NonTerminatedToken is a variable reference cut short by
	// whitespace or end of input. Lexing does not continue past it.
	NonTerminatedToken
	// IllegalCharacter is a byte that cannot appear in a variable
	// name. The reference is still tokenized.
	IllegalCharacter
	// DimensionMismatch is a nested dimension whose branch count does
	// not cover the branch an enclosing same-named dimension selects.
	DimensionMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case UnclosedDelimiter:
		return "unclosed delimiter"
	case NonTerminatedToken:
		return "non-terminated token"
	case IllegalCharacter:
		return "illegal character"
	case DimensionMismatch:
		return "dimension mismatch"
	}
	return fmt.Sprintf("error(%d)", int(k))
}

// ParseError is the first failure a parse run hit. The full set of
// failures goes through the diagnostic handler; this value only tells
// the caller that the document cannot be used.
type ParseError struct {
	Kind    ErrorKind
	Span    ast.Span
	Message string
}

func (e *ParseError) Error() string { return e.Message }
