package infer

import (
	"errors"

	"github.com/robinvdvleuten/facet/ast"
	"github.com/robinvdvleuten/facet/config"
)

// ErrCheck means the document cannot be written against the
// environment. Details went through the handler.
var ErrCheck = errors.New("document does not check against the environment")

// Check verifies a term tree against the environment: every variable
// reference must be bound (unless unset references are ignored) and
// every dimension must be decided with an in-range branch index and a
// consistent arity.
//
// Every branch of every dimension is checked, not just the decided
// one, so switching decisions later cannot surface new errors.
func Check(terms ast.Terms, env *Env) error {
	before := env.handler.ErrCount()
	checkTerms(terms, env)
	if env.handler.ErrCount() > before {
		return ErrCheck
	}
	return nil
}

func checkTerms(terms ast.Terms, env *Env) {
	for _, term := range terms {
		switch t := term.(type) {
		case *ast.Text:

		case *ast.Var:
			if _, ok := env.Var(t.Name); !ok && !env.ignoreUnset {
				env.handler.Errorf("unknown variable '%s'", t.Name).
					WithSpan(t.Range).
					Note("bind it in the configuration or pass --ignore-unset to drop it").
					Emit()
			}

		case *ast.Dimension:
			checkDimension(t, env)
		}
	}
}

func checkDimension(d *ast.Dimension, env *Env) {
	dim, ok := env.Dim(d.Name)
	switch {
	case !ok:
		env.handler.Errorf("no decision for dimension '%s'", d.Name).
			WithSpan(d.Range).
			Note("decision inference is not supported yet, every dimension needs an explicit decision").
			Note("declare the dimension in the configuration or decide it on the command line").
			Emit()

	case d.Arity() > config.MaxArity:
		env.handler.Errorf("dimension '%s' has %d branches, more than the %d supported", d.Name, d.Arity(), config.MaxArity).
			WithSpan(d.Range).
			Emit()

	case !dim.TrySetArity(d.Arity()):
		env.handler.Errorf("dimension '%s' has %d branches here but %d elsewhere", d.Name, d.Arity(), dim.Arity()).
			WithSpan(d.Range).
			Note("every occurrence of a dimension must have the same number of branches").
			Emit()

	case dim.Decision() >= d.Arity():
		env.handler.Errorf("branch index %d is out of range for dimension '%s' with %d branches",
			dim.Decision(), d.Name, d.Arity()).
			WithSpan(d.Range).
			Emit()
	}

	for _, branch := range d.Children {
		checkTerms(branch, env)
	}
}
