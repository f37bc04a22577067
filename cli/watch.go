package cli

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
)

type WatchCmd struct {
	Decisions []string `arg:"" optional:"" help:"Decisions: a bare choice name, 'dim=index', or 'dim=branch'."`

	Force bool `short:"f" help:"Overwrite existing destination files without asking."`
}

// Run performs one pass and then re-runs the pipeline whenever a
// configured source or the configuration file changes. A failing pass
// keeps the watch alive; the next change gets another chance.
func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	file, err := loadConfigFile(globals)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for src := range file.Paths {
		if err := watcher.Add(filepath.Join(file.Options.In, src)); err != nil {
			return err
		}
	}
	// Watching the configuration is best effort; it may not exist.
	if err := watcher.Add(globals.Config); err != nil {
		printInfof(ctx.Stderr, "not watching %s: %v", globals.Config, err)
	}

	pass := func() {
		if err := runOnce(context.Background(), ctx.Stdout, ctx.Stderr, globals, cmd.Decisions, false, cmd.Force); err != nil && !errors.Is(err, errRunFailed) {
			printError(ctx.Stderr, err.Error())
		}
	}

	pass()
	printInfof(ctx.Stdout, "Watching %d source(s), interrupt to stop", len(file.Paths))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			printInfof(ctx.Stdout, "%s changed", renderPath(event.Name))
			pass()
			// Editors often replace files; re-arm the watch for the
			// new inode.
			if event.Op&(fsnotify.Rename|fsnotify.Remove) != 0 {
				_ = watcher.Add(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(ctx.Stderr, err.Error())
		}
	}
}
