package ast

// Term is one node of a parsed document: literal text, a variable
// reference, or a dimension choice block. Text content is not stored in
// the tree; it is referenced by span and recovered from the original
// source at output time, so arbitrarily large documents parse without
// copying their bytes.
type Term interface {
	// Span returns the byte range the node covers in the original
	// source, in source-map coordinates.
	Span() Span

	term()
}

// Terms is a whole parsed document or the body of one dimension branch,
// in source order.
type Terms []Term

// Text is an opaque literal byte range.
type Text struct {
	Range Span
}

// Var is a reference to an externally bound variable.
type Var struct {
	// Name outlives the source buffer; it is owned, not a slice view,
	// because diagnostics may print it long after parsing.
	Name  string
	Range Span
}

// Dimension is a named N-way choice. Children[i] holds the sub-document
// of branch i; branch order is the index space decisions refer to and
// matches the source left to right.
type Dimension struct {
	Name     string
	Children []Terms
	Range    Span
}

func (t *Text) Span() Span      { return t.Range }
func (v *Var) Span() Span       { return v.Range }
func (d *Dimension) Span() Span { return d.Range }

func (*Text) term()      {}
func (*Var) term()       {}
func (*Dimension) term() {}

// Arity returns the number of branches.
func (d *Dimension) Arity() int { return len(d.Children) }
