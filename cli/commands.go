package cli

// Globals defines global flags available to all commands.
type Globals struct {
	Config      string `short:"c" help:"Path to the configuration file." default:".facet.yaml"`
	ReportLevel int    `short:"r" help:"How much to report: 0 nothing, 1 fatal, 2 errors, 3 warnings, 4 notes, 5 everything." default:"-1"`
	Werror      bool   `name:"werror" help:"Treat warnings as errors."`
	NoExtra     bool   `help:"Hide the supplementary notes under diagnostics."`
	IgnoreUnset bool   `help:"Let unbound variable references pass the check and vanish from the output."`
	NoColor     bool   `help:"Disable colored output."`
	Telemetry   bool   `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Run   RunCmd   `cmd:"" default:"withargs" help:"Substitute variables, collapse dimensions, and write the configured paths."`
	Query QueryCmd `cmd:"" help:"List the dimensions and variables the sources use."`
	Tree  TreeCmd  `cmd:"" help:"Dump the parsed term tree of a source file."`
	Watch WatchCmd `cmd:"" help:"Re-run the substitution whenever a source changes."`
}
