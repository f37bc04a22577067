package infer

import (
	"github.com/robinvdvleuten/facet/ast"
	"github.com/robinvdvleuten/facet/diag"
)

// Collect discovers every dimension in a tree and its arity, without
// needing an environment. Occurrences that disagree on arity are
// reported through the handler at the disagreeing span; the first
// arity seen stays in the map.
func Collect(terms ast.Terms, into map[string]int, h *diag.Handler) map[string]int {
	if into == nil {
		into = make(map[string]int)
	}
	for _, term := range terms {
		d, ok := term.(*ast.Dimension)
		if !ok {
			continue
		}
		if first, seen := into[d.Name]; !seen {
			into[d.Name] = d.Arity()
		} else if first != d.Arity() {
			h.Errorf("dimension '%s' has %d branches here but %d elsewhere", d.Name, d.Arity(), first).
				WithSpan(d.Range).
				Note("every occurrence of a dimension must have the same number of branches").
				Emit()
		}
		for _, branch := range d.Children {
			Collect(branch, into, h)
		}
	}
	return into
}

// CollectVars discovers every variable referenced in a tree, mapped to
// how often it occurs.
func CollectVars(terms ast.Terms, into map[string]int) map[string]int {
	if into == nil {
		into = make(map[string]int)
	}
	for _, term := range terms {
		switch t := term.(type) {
		case *ast.Var:
			into[t.Name]++
		case *ast.Dimension:
			for _, branch := range t.Children {
				CollectVars(branch, into)
			}
		}
	}
	return into
}
