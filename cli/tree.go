package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"
)

type TreeCmd struct {
	File string `arg:"" help:"Source file to dump."`
}

// Run parses one file and dumps its term tree, for poking at how a
// source decomposes.
func (cmd *TreeCmd) Run(ctx *kong.Context, globals *Globals) error {
	p, err := newPipeline(ctx.Stderr, globals)
	if err != nil {
		return err
	}

	docs := p.loader.LoadPaths(map[string]string{cmd.File: cmd.File})
	if p.handler.Failed() || len(docs) == 0 {
		printError(ctx.Stderr, "parse failed")
		ctx.Exit(1)
	}
	doc := docs[0]
	if doc.Binary() {
		return fmt.Errorf("%s is a binary file", cmd.File)
	}

	_, _ = fmt.Fprintln(ctx.Stdout, repr.String(doc.Terms, repr.Indent("  "), repr.OmitEmpty(true)))
	return nil
}
