// Package infer builds and checks the substitution environment: which
// text every variable gets and which branch every dimension takes.
package infer

import (
	"github.com/robinvdvleuten/facet/diag"
)

// Dim is the decided state of one dimension. Its arity starts unknown
// and is learned from the first occurrence checked; once known it is
// write-once, so every occurrence must agree.
type Dim struct {
	arity    int8
	decision uint8
}

// NewDim creates a dimension with a decision but unknown arity.
func NewDim(decision int) *Dim {
	return &Dim{arity: -1, decision: uint8(decision)}
}

// NewDimWithArity creates a fully known dimension.
func NewDimWithArity(arity, decision int) *Dim {
	return &Dim{arity: int8(arity), decision: uint8(decision)}
}

// Known reports whether the arity has been fixed yet.
func (d *Dim) Known() bool { return d.arity >= 0 }

// Arity returns the branch count, or -1 while unknown.
func (d *Dim) Arity() int {
	if !d.Known() {
		return -1
	}
	return int(d.arity)
}

// Decision returns the selected branch index.
func (d *Dim) Decision() int { return int(d.decision) }

// TrySetArity fixes the arity on first use and verifies it afterwards.
// It reports false when n contradicts an already known arity or does
// not fit the branch index space.
func (d *Dim) TrySetArity(n int) bool {
	if n < 0 || n > 127 {
		return false
	}
	if d.Known() {
		return int(d.arity) == n
	}
	d.arity = int8(n)
	return true
}

// Env is the resolved environment a document is checked and written
// against.
type Env struct {
	vars        map[string]string
	dims        map[string]*Dim
	handler     *diag.Handler
	ignoreUnset bool
}

// Var looks up a variable binding.
func (e *Env) Var(name string) (string, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Dim looks up a dimension's decided state.
func (e *Env) Dim(name string) (*Dim, bool) {
	d, ok := e.dims[name]
	return d, ok
}

// IgnoreUnset reports whether unbound variable references are allowed
// to pass the check and vanish from the output.
func (e *Env) IgnoreUnset() bool { return e.ignoreUnset }

// Handler returns the diagnostic handler the environment reports
// through.
func (e *Env) Handler() *diag.Handler { return e.handler }
