package commands

import (
	"context"
	"flag"
	"io"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"tick/internal/auth"
	"tick/internal/config"
	"tick/internal/output"
	"tick/internal/service"
)

func init() {
	Register(&InitCmd{})
	Register(&ResetCmd{})
}

// TokenFlow obtains an access token interactively.
type TokenFlow interface {
	Run(ctx context.Context) (*oauth2.Token, error)
}

// InitCmd implements the init command: run the browser authorization flow
// and store the resulting token.
type InitCmd struct {
	// NewFlow builds the flow. Defaults to auth.NewFlow.
	NewFlow func(clientID, clientSecret string, prompt io.Writer, log *zap.Logger) TokenFlow
}

func (c *InitCmd) Name() string      { return "init" }
func (c *InitCmd) Aliases() []string { return []string{"login"} }
func (c *InitCmd) Synopsis() string  { return "Authenticate with TickTick" }
func (c *InitCmd) Usage() string     { return "tick init [common flags]" }
func (c *InitCmd) NeedsAuth() bool   { return false }

func (c *InitCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *InitCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	clientID, clientSecret, err := auth.CredentialsFromEnv()
	if err != nil {
		return emit(cfg, out, errOut, output.FromError(err))
	}

	newFlow := c.NewFlow
	if newFlow == nil {
		newFlow = func(id, secret string, prompt io.Writer, log *zap.Logger) TokenFlow {
			return auth.NewFlow(id, secret, prompt, log)
		}
	}

	// The prompt goes to stderr so stdout stays a single result.
	token, err := newFlow(clientID, clientSecret, errOut, cfg.Log).Run(ctx)
	if err != nil {
		return emit(cfg, out, errOut, output.FromError(err))
	}
	if err := cfg.SaveToken(token); err != nil {
		return emit(cfg, out, errOut, output.FromError(err))
	}
	cfg.Log.Debug("token stored", zap.String("path", cfg.TokenPath()))
	return emit(cfg, out, errOut, output.OK(nil, "Authentication successful"))
}

// ResetCmd implements the reset command.
type ResetCmd struct {
	force bool
}

func (c *ResetCmd) Name() string      { return "reset" }
func (c *ResetCmd) Aliases() []string { return []string{"logout"} }
func (c *ResetCmd) Synopsis() string  { return "Remove the stored token and settings" }
func (c *ResetCmd) Usage() string     { return "tick reset [common flags] [--force]" }
func (c *ResetCmd) NeedsAuth() bool   { return false }

func (c *ResetCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "skip confirmation (reset never prompts)")
}

func (c *ResetCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := cfg.Reset(); err != nil {
		return emit(cfg, out, errOut, output.FromError(err))
	}
	return emit(cfg, out, errOut, output.OK(nil, "Configuration reset"))
}
