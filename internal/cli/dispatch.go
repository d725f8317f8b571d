package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"tick/internal/apperr"
	"tick/internal/commands"
	"tick/internal/config"
	"tick/internal/exitcode"
	"tick/internal/logger"
	"tick/internal/output"
	"tick/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> help
	if len(args) == 0 {
		return d.dispatch(ctx, "help", nil, out, errOut)
	}

	jsonMode := wantsJSON(args)
	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		return usageFailure(jsonMode, out, errOut, "unknown command: %s", cmdName)
	}

	// Grouped commands take two words: "task list".
	remaining := args[1:]
	if d.registry.Groups(cmdName) {
		if len(remaining) == 0 || strings.HasPrefix(remaining[0], "-") {
			return usageFailure(jsonMode, out, errOut, "missing subcommand for %s", cmdName)
		}
		cmdName = cmdName + " " + remaining[0]
		remaining = remaining[1:]
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		return usageFailure(jsonMode, out, errOut, "unknown command: %s", cmdName)
	}
	return d.dispatchCommand(ctx, cmd, remaining, out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool
	var jsonMode bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")
	fs.BoolVar(&jsonMode, "json", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	positionalArgs, err := parseInterspersed(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Fprintf(out, "Usage:\n  %s\n", cmd.Usage())
		return exitcode.Success
	}
	if err != nil {
		return usageFailure(wantsJSON(args), out, errOut, "%s", flagError(err))
	}

	// Create config
	cfg, err := config.New(configDir)
	if err != nil {
		return failure(jsonMode, out, errOut, err)
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	cfg.JSON = jsonMode

	log, err := logger.New(debug)
	if err != nil {
		return failure(jsonMode, out, errOut, apperr.Wrap(apperr.ConfigError, err, "failed to initialize logger"))
	}
	defer logger.Sync(log)
	cfg.Log = log
	log.Debug("dispatch",
		zap.String("command", cmd.Name()),
		zap.Strings("args", positionalArgs),
		zap.String("configDir", cfg.Dir),
		zap.String("dataDir", cfg.DataDir))

	// Check auth requirements
	var svc service.Service
	if cmd.NeedsAuth() {
		if d.factory == nil {
			return failure(jsonMode, out, errOut, apperr.New(apperr.AuthRequired, "not authenticated (run: tick init)"))
		}
		svc, err = d.factory(ctx, cfg)
		if err != nil {
			return failure(jsonMode, out, errOut, err)
		}
	}

	// Run command
	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// parseInterspersed parses flags that may appear before, between or after
// positional arguments. Everything after "--" is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		left := fs.Args()
		consumed := len(rest) - len(left)
		if consumed > 0 && rest[consumed-1] == "--" {
			return append(positional, left...), nil
		}
		if len(left) == 0 {
			return positional, nil
		}
		positional = append(positional, left[0])
		rest = left[1:]
	}
}

// flagError turns a flag package error into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	// Check for missing flag value
	if strings.HasPrefix(errStr, "flag needs an argument:") {
		flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		return "flag needs an argument: " + flagName
	}

	// Check for unknown flag
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		return "unknown flag: " + flagName
	}

	return errStr
}

// wantsJSON reports whether --json appears in args, so errors raised
// before flag parsing completes still honor it.
func wantsJSON(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "--json" || a == "-json" || a == "--json=true" || a == "-json=true" {
			return true
		}
	}
	return false
}

func usageFailure(jsonMode bool, out, errOut io.Writer, format string, args ...any) int {
	return failure(jsonMode, out, errOut, apperr.New(apperr.InvalidRequest, format, args...))
}

func failure(jsonMode bool, out, errOut io.Writer, err error) int {
	r := output.FromError(err)
	if jsonMode {
		if rerr := output.RenderJSON(out, r); rerr != nil {
			return exitcode.BackendError
		}
	} else {
		output.RenderText(out, errOut, r, false)
	}
	return exitcode.For(r.Code())
}
