// Package output writes a checked term tree back out as text, pulling
// literal bytes straight from the source reader and substituting
// variables and decided dimension branches on the way.
package output

import (
	"fmt"
	"io"

	"github.com/robinvdvleuten/facet/ast"
	"github.com/robinvdvleuten/facet/infer"
)

// InternalError is an invariant violation: the tree asked for
// something the environment cannot answer even though it checked
// clean. It indicates a defect, not a user mistake.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Message
}

func internalf(format string, args ...any) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...)}
}

// WriteTerms writes a document. The reader must sit exactly at pos in
// span coordinates; the function keeps that alignment as it goes and
// returns the position it ended on. Only seeks are relative, so the
// reader's own origin does not matter.
//
// Unselected dimension branches are skipped by seeking, never read.
func WriteTerms(terms ast.Terms, from io.ReadSeeker, to io.Writer, pos ast.Pos, env *infer.Env) (ast.Pos, error) {
	for _, term := range terms {
		var err error
		pos, err = WriteTerm(term, from, to, pos, env)
		if err != nil {
			return pos, err
		}
	}
	return pos, nil
}

// WriteTerm writes a single term, advancing reader and position from
// pos to the end of the term's span.
func WriteTerm(term ast.Term, from io.ReadSeeker, to io.Writer, pos ast.Pos, env *infer.Env) (ast.Pos, error) {
	sp := term.Span()

	// Bytes between the cursor and the term are syntax or elided
	// escapes; step over them without reading.
	if sp.Lo < pos {
		return pos, internalf("term at %s starts before the cursor at %d", sp, pos)
	}
	if sp.Lo > pos {
		if _, err := from.Seek(int64(sp.Lo-pos), io.SeekCurrent); err != nil {
			return pos, err
		}
		pos = sp.Lo
	}

	switch t := term.(type) {
	case *ast.Text:
		if _, err := io.CopyN(to, from, int64(sp.Len())); err != nil {
			return pos, err
		}
		return sp.Hi, nil

	case *ast.Var:
		binding, ok := env.Var(t.Name)
		if !ok && !env.IgnoreUnset() {
			return pos, internalf("variable '%s' slipped through the check unbound", t.Name)
		}
		if ok {
			if _, err := io.WriteString(to, binding); err != nil {
				return pos, err
			}
		}
		if _, err := from.Seek(int64(sp.Len()), io.SeekCurrent); err != nil {
			return pos, err
		}
		return sp.Hi, nil

	case *ast.Dimension:
		d, ok := env.Dim(t.Name)
		if !ok {
			return pos, internalf("dimension '%s' slipped through the check undecided", t.Name)
		}
		if d.Decision() >= t.Arity() {
			return pos, internalf("decision %d out of range for dimension '%s' with %d branches",
				d.Decision(), t.Name, t.Arity())
		}

		pos, err := WriteTerms(t.Children[d.Decision()], from, to, pos, env)
		if err != nil {
			return pos, err
		}
		if _, err := from.Seek(int64(sp.Hi-pos), io.SeekCurrent); err != nil {
			return pos, err
		}
		return sp.Hi, nil
	}

	return pos, internalf("unhandled term %T", term)
}
