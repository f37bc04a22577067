// Package parser lexes and parses template sources into term trees.
// The grammar is small: literal text, variable references ('#$name#'),
// and dimensions ('#name{a ## b}#') whose branches are themselves
// documents.
package parser

import (
	"fmt"

	"github.com/robinvdvleuten/facet/ast"
	"github.com/robinvdvleuten/facet/diag"
	"github.com/robinvdvleuten/facet/sourcemap"
)

// Parser builds a term tree from a token stream by recursive descent.
//
// It enforces dominance between same-named dimensions: when a
// dimension is nested anywhere inside another dimension of the same
// name, the inner one is not kept as a choice of its own. It collapses
// at parse time to whichever of its branches the enclosing occurrence
// is positioned at, so one decision can never select conflicting
// branches of the same dimension.
type Parser struct {
	stream  *TokenStream
	handler *diag.Handler

	// scopes tracks the open dimensions around the current position,
	// innermost last, with the branch each is currently parsing.
	scopes []*scopeFrame

	err *ParseError
}

type scopeFrame struct {
	name   string
	branch int
}

// New creates a parser over a token stream.
func New(stream *TokenStream, h *diag.Handler) *Parser {
	return &Parser{stream: stream, handler: h}
}

// Parse lexes and parses one file. Diagnostics go through the handler;
// a non-nil error means the document must not be written out.
func Parse(f *sourcemap.File, h *diag.Handler) (ast.Terms, error) {
	before := h.ErrCount()
	terms, err := New(SourceToStream(f, h), h).Parse()
	if err == nil && h.ErrCount() > before {
		// The lexer reported illegal bytes in a variable name but
		// recovered; the tree is complete yet unusable.
		err = &ParseError{
			Kind:    IllegalCharacter,
			Span:    ast.Nil,
			Message: "a variable name contains illegal characters",
		}
	}
	return terms, err
}

// Parse consumes the whole stream and returns the document tree.
func (p *Parser) Parse() (ast.Terms, error) {
	terms := p.parseTerms()

	// Structural tokens at the top level have no dimension to belong
	// to. Report each one and keep going so later errors surface too.
	for p.stream.Peek().Kind != EOF {
		tok := p.stream.Next()
		p.errorAt(UnexpectedToken, tok.Span, "unexpected %s outside of a dimension", tok.Kind)
		terms = append(terms, p.parseTerms()...)
	}

	if p.stream.Failed() && p.err == nil {
		p.err = &ParseError{
			Kind:    NonTerminatedToken,
			Span:    p.stream.Peek().Span,
			Message: "lexing aborted on a non-terminated token",
		}
	}
	if p.err != nil {
		return terms, p.err
	}
	return terms, nil
}

// parseTerms parses a run of terms, stopping (without consuming) at
// the first separator, closer, or EOF.
func (p *Parser) parseTerms() ast.Terms {
	var terms ast.Terms
	for {
		switch tok := p.stream.Peek(); tok.Kind {
		case TEXT:
			p.stream.Next()
			terms = append(terms, &ast.Text{Range: tok.Span})
		case VAR:
			p.stream.Next()
			terms = append(terms, &ast.Var{Name: p.varName(tok), Range: tok.Span})
		case DIMOPEN:
			terms = append(terms, p.parseDimension()...)
		default:
			return terms
		}
	}
}

// parseDimension parses from an opener through its matching closer.
// It returns a slice because a dominated dimension contributes the
// terms of one branch, not a node.
func (p *Parser) parseDimension() ast.Terms {
	open := p.stream.Next()
	name := p.dimName(open)

	frame := &scopeFrame{name: name}
	p.scopes = append(p.scopes, frame)

	var branches []ast.Terms
	for {
		branches = append(branches, p.parseTerms())

		switch tok := p.stream.Peek(); tok.Kind {
		case DIMSEP:
			p.stream.Next()
			frame.branch++

		case DIMCLOSE:
			closeTok := p.stream.Next()
			p.scopes = p.scopes[:len(p.scopes)-1]
			span := open.Span.Merge(closeTok.Span)

			if anc := p.enclosing(name); anc != nil {
				if anc.branch >= len(branches) {
					p.errorAt(DimensionMismatch, span,
						"dimension '%s' has %d branches here but an enclosing occurrence is at branch %d",
						name, len(branches), anc.branch)
					return nil
				}
				return branches[anc.branch]
			}
			return ast.Terms{&ast.Dimension{Name: name, Children: branches, Range: span}}

		default: // EOF
			p.scopes = p.scopes[:len(p.scopes)-1]
			p.errorAt(UnclosedDelimiter, open.Span, "dimension '%s' is never closed", name)
			span := open.Span.Merge(p.stream.Peek().Span)
			return ast.Terms{&ast.Dimension{Name: name, Children: branches, Range: span}}
		}
	}
}

// enclosing finds the innermost open dimension with the given name.
func (p *Parser) enclosing(name string) *scopeFrame {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if p.scopes[i].name == name {
			return p.scopes[i]
		}
	}
	return nil
}

// varName recovers the name from a '#$name#' token.
func (p *Parser) varName(tok Token) string {
	local := tok.Span.Correct(p.stream.File().Start)
	return local.Subspan(2, local.Len()-1).Text(p.stream.File().Src)
}

// dimName recovers the name from a '#name{' token.
func (p *Parser) dimName(tok Token) string {
	local := tok.Span.Correct(p.stream.File().Start)
	return local.Subspan(1, local.Len()-1).Text(p.stream.File().Src)
}

func (p *Parser) errorAt(kind ErrorKind, span ast.Span, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.handler.Error(msg).WithSpan(span).Emit()
	if p.err == nil {
		p.err = &ParseError{Kind: kind, Span: span, Message: msg}
	}
}
