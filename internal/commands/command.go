// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"tick/internal/apperr"
	"tick/internal/config"
	"tick/internal/engine"
	"tick/internal/exitcode"
	"tick/internal/output"
	"tick/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name, e.g. "task list".
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command talks to the remote API.
	// Commands like help, version, init, reset return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (paths, output mode, logger).
	// svc is nil if NeedsAuth() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// emit renders r in the configured mode and returns its exit code.
func emit(cfg *config.Config, out, errOut io.Writer, r output.Result) int {
	if cfg.JSON {
		if err := output.RenderJSON(out, r); err != nil {
			return exitcode.BackendError
		}
	} else {
		output.RenderText(out, errOut, r, cfg.Quiet)
	}
	return exitcode.For(r.Code())
}

func newEngine(cfg *config.Config, svc service.Service) *engine.Engine {
	return engine.New(svc, cfg, cfg.Log)
}

// usageError reports a missing or malformed argument as INVALID_REQUEST.
func usageError(cfg *config.Config, out, errOut io.Writer, c Command, format string, args ...any) int {
	err := apperr.New(apperr.InvalidRequest, format, args...).WithDetail("usage", c.Usage())
	return emit(cfg, out, errOut, output.FromError(err))
}

// joinArgs joins positional arguments into a single value, as for multi-word names.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
