package infer

import (
	"errors"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/facet/config"
	"github.com/robinvdvleuten/facet/diag"
)

// ErrResolve means the declared dimensions and the given decisions do
// not combine into a usable environment. Details went through the
// handler.
var ErrResolve = errors.New("cannot resolve the given decisions")

// NewEnv combines the configuration file's declarations with the
// command-line decisions into an environment.
//
// Dimensions are resolved in sorted name order so reports are
// deterministic. Related messages for one dimension are delayed and
// flushed together.
func NewEnv(file *config.File, decisions []config.Decision, h *diag.Handler, ignoreUnset bool) (*Env, error) {
	before := h.ErrCount()

	env := &Env{
		vars:        make(map[string]string, len(file.Variables)),
		dims:        make(map[string]*Dim),
		handler:     h,
		ignoreUnset: ignoreUnset,
	}
	for name, value := range file.Variables {
		env.vars[name] = value
	}

	used := make([]bool, len(decisions))

	names := make([]string, 0, len(file.Dimensions))
	for name := range file.Dimensions {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		choices := file.Dimensions[name]
		if choices.Sized() {
			resolveSized(env, name, choices, decisions, used, h)
		} else {
			resolveNamed(env, name, choices, decisions, used, h)
		}
	}

	fillEnv(env, decisions, used, h)
	h.Flush()

	if h.ErrCount() > before {
		return nil, ErrResolve
	}
	return env, nil
}

// selection is one decision that applies to the dimension currently
// being resolved.
type selection struct {
	index  int
	source config.Decision
}

// resolveNamed decides a dimension declared with branch names. Bare
// choice names and explicit pairs both apply.
func resolveNamed(env *Env, name string, choices config.Choices, decisions []config.Decision, used []bool, h *diag.Handler) {
	var sels []selection
	for i, d := range decisions {
		switch {
		case d.Bare():
			if idx := choices.IndexOf(d.Choice.Name); idx >= 0 {
				used[i] = true
				sels = append(sels, selection{index: idx, source: d})
			}
		case d.Dim == name:
			used[i] = true
			if d.Choice.Named {
				idx := choices.IndexOf(d.Choice.Name)
				if idx < 0 {
					h.Errorf("dimension '%s' has no branch named '%s'", name, d.Choice.Name).
						Notef("declared branches are: %s", strings.Join(choices.Names, ", ")).
						Delay()
					continue
				}
				sels = append(sels, selection{index: idx, source: d})
				continue
			}
			if d.Choice.Num >= choices.Arity() {
				h.Errorf("branch index %d is out of range for dimension '%s' with %d branches",
					d.Choice.Num, name, choices.Arity()).
					Delay()
				continue
			}
			sels = append(sels, selection{index: d.Choice.Num, source: d})
		}
	}
	decide(env, name, choices.Arity(), sels, h)
}

// resolveSized decides a dimension declared with a bare arity. Only
// numeric pairs can apply; there are no branch names to match.
func resolveSized(env *Env, name string, choices config.Choices, decisions []config.Decision, used []bool, h *diag.Handler) {
	var sels []selection
	for i, d := range decisions {
		if d.Bare() || d.Dim != name {
			continue
		}
		used[i] = true
		if d.Choice.Named {
			h.Errorf("dimension '%s' is sized, its branches cannot be selected by name", name).
				Notef("use '%s=n' with n below %d", name, choices.Arity()).
				Delay()
			continue
		}
		if d.Choice.Num >= choices.Arity() {
			h.Errorf("branch index %d is out of range for dimension '%s' with %d branches",
				d.Choice.Num, name, choices.Arity()).
				Delay()
			continue
		}
		sels = append(sels, selection{index: d.Choice.Num, source: d})
	}
	decide(env, name, choices.Arity(), sels, h)
}

// decide folds the applicable selections for one dimension into a
// single decision, reporting conflicts and redundancy.
func decide(env *Env, name string, arity int, sels []selection, h *diag.Handler) {
	switch {
	case len(sels) == 0:
		h.Notef("no decision for dimension '%s'", name).Delay()

	case agreed(sels):
		if len(sels) > 1 {
			b := h.Warningf("dimension '%s' is decided more than once", name)
			for _, s := range sels {
				b.Notef("decided by '%s'", s.source)
			}
			b.Delay()
		}
		env.dims[name] = NewDimWithArity(arity, sels[0].index)

	default:
		b := h.Errorf("conflicting decisions for dimension '%s'", name)
		for _, s := range sels {
			b.Notef("'%s' selects branch %d", s.source, s.index)
		}
		b.Delay()
	}
}

func agreed(sels []selection) bool {
	for _, s := range sels[1:] {
		if s.index != sels[0].index {
			return false
		}
	}
	return true
}

// fillEnv handles decisions no declared dimension consumed. Numeric
// pairs still decide their dimension, with the arity left to be
// learned from the first checked occurrence. Everything else has
// nothing to bind to.
func fillEnv(env *Env, decisions []config.Decision, used []bool, h *diag.Handler) {
	pending := make(map[string][]selection)

	for i, d := range decisions {
		if used[i] {
			continue
		}
		switch {
		case d.Bare():
			h.Warningf("decision '%s' does not match any declared dimension", d.Choice.Name).
				Note("a bare choice name only applies to dimensions declared with branch names").
				Delay()
		case d.Choice.Named:
			h.Errorf("cannot resolve branch name '%s' of undeclared dimension '%s'", d.Choice.Name, d.Dim).
				Notef("declare '%s' in the configuration to name its branches", d.Dim).
				Delay()
		default:
			pending[d.Dim] = append(pending[d.Dim], selection{index: d.Choice.Num, source: d})
		}
	}

	names := make([]string, 0, len(pending))
	for name := range pending {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		sels := pending[name]
		if !agreed(sels) {
			b := h.Errorf("conflicting decisions for dimension '%s'", name)
			for _, s := range sels {
				b.Notef("'%s' selects branch %d", s.source, s.index)
			}
			b.Delay()
			continue
		}
		if len(sels) > 1 {
			b := h.Warningf("dimension '%s' is decided more than once", name)
			for _, s := range sels {
				b.Notef("decided by '%s'", s.source)
			}
			b.Delay()
		}
		env.dims[name] = NewDim(sels[0].index)
	}
}
