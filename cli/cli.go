package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/EmmChriss/msc/cli/cmd"
	"github.com/EmmChriss/msc/pkg"
)

// CLI is the top-level command-line interface for msc.
type CLI struct {
	cmd.Globals `embed:""`

	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Verbose bool             `help:"Print more info (same as --log-level=debug)." short:"v"`
	Version kong.VersionFlag `help:"Print version and exit."`

	New    cmd.New    `cmd:"" help:"Create a new library."`
	List   cmd.List   `cmd:"" help:"List library contents."        aliases:"ls"`
	Add    cmd.Add    `cmd:"" help:"Add an entry to the library."  aliases:"a"`
	Remove cmd.Remove `cmd:"" help:"Remove entries from the library." aliases:"rm"`
	Eval   cmd.Eval   `cmd:"" help:"Evaluate section scripts over entry metadata."`
	Fmt    cmd.Fmt    `cmd:"" help:"Print the parsed library."`
	Store  cmd.Cache  `cmd:"" help:"Inspect and edit the metadata cache." name:"cache"`
}

// Run executes the msc CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	vars := kong.Vars{
		"version":             pkg.Version,
		cmd.LibraryIdentifier: pkg.LibraryFile,
		cmd.CacheIdentifier:   filepath.Join(pkg.CacheDir(), pkg.CacheFile),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before parsing so early errors are formatted as
	// requested.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, pkg.ConfigPath(configJSON)),
		kong.Configuration(yamlLoader, pkg.ConfigPath(configYAML)),
		kong.Configuration(tomlLoader, pkg.ConfigPath(configTOML)),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Stdout = os.Stdout
	cli.Stdin = os.Stdin

	defer cli.Log.start(ctx, cli.Verbose)()

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(&cli.Globals)
}
