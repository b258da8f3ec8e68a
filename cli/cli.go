package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/kmap/cli/cmd"
	"github.com/ardnew/kmap/pkg"
)

// CLI is the top-level command-line interface for kmap.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Input cmd.Input `embed:"" group:"input"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Convert cmd.Convert `cmd:"" default:"withargs" help:"Convert layouts to keymap assets"`
	List    cmd.List    `cmd:""                    help:"List available layouts"`
	Inspect cmd.Inspect `cmd:""                    help:"Print the keymap of one layout"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
}

func inputGroup() kong.Group {
	return kong.Group{Key: "input", Title: "Input options"}
}

// Run executes the kmap CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configPath(baseConfig + ".yaml"),
	}.
		CloneWith(cmd.Vars()).
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Configure the logger before kong reports anything.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), inputGroup()},
		),
		kong.DefaultEnvars(pkg.EnvPrefix()),
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
		kong.Configuration(loadYAML, configPath(baseConfig+".yaml"), configPath(baseConfig+".yml")),
		kong.Configuration(loadTOML, configPath(baseConfig+".toml")),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	defer cli.Log.start(ctx)()

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(&cli.Input)
}
