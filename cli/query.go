package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/facet/infer"
	"github.com/robinvdvleuten/facet/loader"
)

type QueryCmd struct {
	Files []string `arg:"" optional:"" help:"Sources to inspect instead of the configured paths."`

	Vars bool `help:"Also list the referenced variables."`
}

// Run lists every dimension the sources use together with its arity.
// No environment is needed, so undecided and undeclared dimensions are
// fine here; only parse failures and arity disagreements count against
// the command.
func (cmd *QueryCmd) Run(ctx *kong.Context, globals *Globals) error {
	p, err := newPipeline(ctx.Stderr, globals)
	if err != nil {
		return err
	}

	var docs []*loader.Document
	if len(cmd.Files) > 0 {
		paths := make(map[string]string, len(cmd.Files))
		for _, f := range cmd.Files {
			paths[f] = f
		}
		docs = p.loader.LoadPaths(paths)
	} else {
		docs = p.loader.LoadPaths(p.file.Paths)
	}

	dims := make(map[string]int)
	vars := make(map[string]int)
	for _, doc := range docs {
		if doc.Binary() || doc.Err != nil {
			continue
		}
		infer.Collect(doc.Terms, dims, p.handler)
		infer.CollectVars(doc.Terms, vars)
	}

	if p.handler.Failed() {
		printError(ctx.Stderr, fmt.Sprintf("%d error(s) found", p.handler.ErrCount()))
		ctx.Exit(1)
	}

	if len(dims) == 0 {
		printInfof(ctx.Stdout, "No dimensions found")
	}
	for _, name := range sortedKeys(dims) {
		arity := dims[name]
		branches := "branches"
		if arity == 1 {
			branches = "branch"
		}
		printInfof(ctx.Stdout, "dimension %s with %d %s", name, arity, branches)
	}

	if cmd.Vars {
		for _, name := range sortedKeys(vars) {
			times := "times"
			if vars[name] == 1 {
				times = "time"
			}
			printInfof(ctx.Stdout, "variable %s referenced %d %s", name, vars[name], times)
		}
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
