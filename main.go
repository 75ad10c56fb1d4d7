package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"pagebuilder/internal/commands"
	"pagebuilder/internal/config"
	"pagebuilder/internal/state"
)

const appName = "pagebuilder"

// set with -ldflags "-X main.version=..."
var version = "dev"

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		env.Cfg.Logging.ConsoleLogger.Level = "debug"
	}

	// MCP owns stdout, every log line goes to stderr
	if cmd.Args().First() == "mcp" {
		env.Log, err = env.Cfg.Logging.PrepareTo(os.Stderr, os.Stderr)
	} else {
		env.Log, err = env.Cfg.Logging.Prepare()
	}
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", version), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if er := env.CloseApp(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close application: %w", er))
	}
	env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))

	// close logging, errors must be reported directly to stderr from now on
	env.RestoreStdLog()
	return
}

// Errors are returned from subcommands as is and logged here, before the
// application context is destroyed.
var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)
	if env.Cfg != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func main() {

	// allow graceful shutdown on interrupt: servers drain, publishes finish
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            appName,
		Usage:           "builds landing pages from sections and blocks, exports and publishes them as standalone HTML",
		Version:         version + " (" + runtime.Version() + ")",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log debug messages to console"},
		},
		Commands: []*cli.Command{
			{
				Name:         "new",
				Usage:        "Creates an empty page",
				ArgsUsage:    "NAME",
				OnUsageError: usageErrorHandler,
				Action:       commands.New,
			},
			{
				Name:         "detect",
				Usage:        "Reports which schema a JSON document follows",
				ArgsUsage:    "SOURCE",
				OnUsageError: usageErrorHandler,
				Action:       commands.Detect,
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to JSON file, "-" reads STDIN
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "convert",
				Usage:        "Converts native or product-schema JSON into a page document",
				ArgsUsage:    "SOURCE [DESTINATION]",
				OnUsageError: usageErrorHandler,
				Action:       commands.Convert,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "store", Aliases: []string{"s"}, Usage: "import the page into the database instead of writing it out"},
					&cli.StringFlag{Name: "target", Aliases: []string{"t"}, Usage: "with --store, replace the content of page `ID`"},
				},
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to JSON file, "-" reads STDIN

DESTINATION:
    file to write the page document to, if absent - STDOUT
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "export",
				Usage:        "Renders a page as a standalone HTML document",
				ArgsUsage:    "SOURCE [DESTINATION]",
				OnUsageError: usageErrorHandler,
				Action:       commands.Export,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "annotate", Aliases: []string{"a"}, Usage: "mark sections and blocks with their IDs"},
					&cli.BoolFlag{Name: "minify", Aliases: []string{"m"}, Usage: "minify output (JSON sources only, stored pages follow configuration)"},
				},
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    ID of a stored page, or path to a *.json file to convert and render

DESTINATION:
    file to write HTML to, if absent - STDOUT
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "publish",
				Usage:        "Writes pages into the publish directory as <slug>.html",
				ArgsUsage:    "[ID...]",
				OnUsageError: usageErrorHandler,
				Action:       commands.Publish,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "publish every stored page"},
				},
			},
			{
				Name:         "mcp",
				Usage:        "Serves the MCP protocol on STDIN/STDOUT",
				OnUsageError: usageErrorHandler,
				Action:       commands.MCP(version),
			},
			{
				Name:         "serve",
				Usage:        "Serves the HTTP API and published pages",
				OnUsageError: usageErrorHandler,
				Action:       commands.Serve,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "listen", Aliases: []string{"l"}, Usage: "listen on `ADDRESS` instead of the configured one"},
				},
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       commands.DumpConfig,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}
