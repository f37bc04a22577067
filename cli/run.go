package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/facet/config"
	"github.com/robinvdvleuten/facet/diag"
	"github.com/robinvdvleuten/facet/infer"
	"github.com/robinvdvleuten/facet/loader"
	"github.com/robinvdvleuten/facet/output"
	"github.com/robinvdvleuten/facet/sourcemap"
	"github.com/robinvdvleuten/facet/telemetry"
)

type RunCmd struct {
	Decisions []string `arg:"" optional:"" help:"Decisions: a bare choice name, 'dim=index', or 'dim=branch'."`

	DryRun bool `help:"Check everything but write nothing."`
	Force  bool `short:"f" help:"Overwrite existing destination files without asking."`
}

func (cmd *RunCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx := context.Background()

	if globals.Telemetry {
		c := telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, c)
		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			c.Report(ctx.Stderr)
		}()
	}

	if err := runOnce(runCtx, ctx.Stdout, ctx.Stderr, globals, cmd.Decisions, cmd.DryRun, cmd.Force); err != nil {
		if errors.Is(err, errRunFailed) {
			ctx.Exit(1)
		}
		return err
	}
	return nil
}

// errRunFailed means diagnostics already told the user what went
// wrong; the process just needs a failing exit code.
var errRunFailed = errors.New("run failed")

// pipeline is the shared machinery behind run, watch, query, and
// tree: the configuration, a diagnostic handler wired to a source
// map, and a loader feeding it.
type pipeline struct {
	file        *config.File
	handler     *diag.Handler
	loader      *loader.Loader
	ignoreUnset bool
}

func newPipeline(stderr io.Writer, globals *Globals) (*pipeline, error) {
	file, err := loadConfigFile(globals)
	if err != nil {
		return nil, err
	}

	flags := diag.Flags{
		ReportLevel: globals.ReportLevel,
		WarnAsError: globals.Werror || file.Options.WarnAsError,
		NoExtra:     globals.NoExtra || file.Options.NoExtra,
	}
	if flags.ReportLevel < 0 {
		if file.Options.ReportLevel != nil {
			flags.ReportLevel = *file.Options.ReportLevel
		} else {
			flags.ReportLevel = diag.DefaultFlags().ReportLevel
		}
	}

	smap := sourcemap.New()
	handler := diag.NewHandler(flags,
		diag.WithOutput(stderr),
		diag.WithSourceMap(smap),
		diag.WithColor(!globals.NoColor && isTerminal()),
	)

	return &pipeline{
		file:    file,
		handler: handler,
		loader: loader.New(handler,
			loader.WithMap(smap),
			loader.WithPrefixes(file.Options.In, file.Options.Out)),
		ignoreUnset: globals.IgnoreUnset || file.Options.IgnoreUnset,
	}, nil
}

// loadConfigFile reads the configured file. A missing file is only an
// error when the user pointed at it explicitly.
func loadConfigFile(globals *Globals) (*config.File, error) {
	if _, err := os.Stat(globals.Config); err != nil {
		if os.IsNotExist(err) && globals.Config == config.DefaultFileName {
			return &config.File{}, nil
		}
		return nil, err
	}
	return config.Load(globals.Config)
}

// runOnce executes one full pass: load, resolve, check, write.
func runOnce(runCtx context.Context, stdout, stderr io.Writer, globals *Globals, decisionArgs []string, dryRun, force bool) error {
	collector := telemetry.FromContext(runCtx)
	timer := collector.Start("run")
	defer timer.End()

	p, err := newPipeline(stderr, globals)
	if err != nil {
		return err
	}

	decisions, errs := config.ParseDecisions(decisionArgs)
	for _, err := range errs {
		p.handler.Error(err.Error()).Emit()
	}
	if len(errs) > 0 {
		printError(stderr, "invalid decisions")
		return errRunFailed
	}

	loadTimer := timer.Child("load")
	docs := p.loader.LoadPaths(p.file.Paths)
	loadTimer.End()

	resolveTimer := timer.Child("resolve")
	env, err := infer.NewEnv(p.file, decisions, p.handler, p.ignoreUnset)
	resolveTimer.End()
	if err != nil {
		printError(stderr, "cannot resolve the given decisions")
		return errRunFailed
	}

	checkTimer := timer.Child("check")
	for _, doc := range docs {
		if doc.Binary() || doc.Err != nil {
			continue
		}
		// Check already reported through the handler; the cumulative
		// count below decides the run.
		_ = infer.Check(doc.Terms, env)
	}
	checkTimer.End()

	if p.handler.Failed() {
		printError(stderr, fmt.Sprintf("%d error(s) found", p.handler.ErrCount()))
		return errRunFailed
	}

	if dryRun {
		printSuccess(stdout, "Check passed, nothing written")
		return nil
	}

	writeTimer := timer.Child("write")
	defer writeTimer.End()
	for _, doc := range docs {
		if doc.Err != nil {
			continue
		}
		written, err := writeDocument(doc, env, force)
		if err != nil {
			printError(stderr, fmt.Sprintf("cannot write %s: %v", doc.File.Dest, err))
			return errRunFailed
		}
		if written {
			printSuccess(stdout, fmt.Sprintf("Wrote %s", renderPath(doc.File.Dest)))
		} else {
			printInfof(stdout, "Skipped %s", renderPath(doc.File.Dest))
		}
	}
	return nil
}

// writeDocument writes one document to its destination, asking before
// overwriting unless forced. Binary documents are copied verbatim.
func writeDocument(doc *loader.Document, env *infer.Env, force bool) (bool, error) {
	dest := doc.File.Dest
	if !force {
		if _, err := os.Stat(dest); err == nil {
			ok, err := promptYesNo(fmt.Sprintf("Overwrite %s?", dest))
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return false, err
	}

	in, err := os.Open(doc.File.Path)
	if err != nil {
		return false, err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return false, err
	}

	if doc.Binary() {
		_, err = io.Copy(out, in)
	} else {
		w := bufio.NewWriter(out)
		_, err = output.WriteTerms(doc.Terms, in, w, doc.File.Start, env)
		if err == nil {
			err = w.Flush()
		}
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err == nil, err
}
