package commands

import (
	"context"
	"flag"
	"io"
	"strconv"

	"tick/internal/apperr"
	"tick/internal/config"
	"tick/internal/engine"
	"tick/internal/output"
	"tick/internal/service"
)

func init() {
	Register(&ProjectListCmd{})
	Register(&ProjectShowCmd{})
	Register(&ProjectUseCmd{})
	Register(&ProjectCreateCmd{})
	Register(&ProjectUpdateCmd{})
	Register(&ProjectDeleteCmd{})
}

// ProjectListCmd implements "project list".
type ProjectListCmd struct{}

func (c *ProjectListCmd) Name() string      { return "project list" }
func (c *ProjectListCmd) Aliases() []string { return []string{"project ls"} }
func (c *ProjectListCmd) Synopsis() string  { return "List all projects" }
func (c *ProjectListCmd) Usage() string     { return "tick project list [common flags]" }
func (c *ProjectListCmd) NeedsAuth() bool   { return true }

func (c *ProjectListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProjectListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return emit(cfg, out, errOut, newEngine(cfg, svc).ListProjects(ctx))
}

// ProjectShowCmd implements "project show".
type ProjectShowCmd struct{}

func (c *ProjectShowCmd) Name() string      { return "project show" }
func (c *ProjectShowCmd) Aliases() []string { return nil }
func (c *ProjectShowCmd) Synopsis() string  { return "Show project details" }
func (c *ProjectShowCmd) Usage() string     { return "tick project show [common flags] <project-id>" }
func (c *ProjectShowCmd) NeedsAuth() bool   { return true }

func (c *ProjectShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProjectShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(cfg, out, errOut, c, "project id required")
	}
	return emit(cfg, out, errOut, newEngine(cfg, svc).ShowProject(ctx, args[0]))
}

// ProjectUseCmd implements "project use".
type ProjectUseCmd struct{}

func (c *ProjectUseCmd) Name() string      { return "project use" }
func (c *ProjectUseCmd) Aliases() []string { return nil }
func (c *ProjectUseCmd) Synopsis() string  { return "Set the default project" }
func (c *ProjectUseCmd) Usage() string     { return "tick project use [common flags] <name-or-id>" }
func (c *ProjectUseCmd) NeedsAuth() bool   { return true }

func (c *ProjectUseCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProjectUseCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return usageError(cfg, out, errOut, c, "project name or id required")
	}
	return emit(cfg, out, errOut, newEngine(cfg, svc).UseProject(ctx, joinArgs(args)))
}

// ProjectCreateCmd implements "project create".
type ProjectCreateCmd struct {
	name     string
	color    string
	viewMode string
	kind     string
}

func (c *ProjectCreateCmd) Name() string      { return "project create" }
func (c *ProjectCreateCmd) Aliases() []string { return []string{"project add"} }
func (c *ProjectCreateCmd) Synopsis() string  { return "Create a project" }
func (c *ProjectCreateCmd) Usage() string {
	return "tick project create [common flags] --name <name> [--color <hex>] [--view-mode list|kanban|timeline] [--kind TASK|NOTE]"
}
func (c *ProjectCreateCmd) NeedsAuth() bool { return true }

func (c *ProjectCreateCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.color, "color", "", "")
	fs.StringVar(&c.viewMode, "view-mode", "", "")
	fs.StringVar(&c.kind, "kind", "", "")
}

func (c *ProjectCreateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name := c.name
	if name == "" && len(args) > 0 {
		name = joinArgs(args)
	}
	return emit(cfg, out, errOut, newEngine(cfg, svc).CreateProject(ctx, engine.ProjectCreate{
		Name:     name,
		Color:    c.color,
		ViewMode: c.viewMode,
		Kind:     c.kind,
	}))
}

// ProjectUpdateCmd implements "project update".
type ProjectUpdateCmd struct {
	name     optString
	color    optString
	closed   optString
	viewMode optString
	kind     optString
}

func (c *ProjectUpdateCmd) Name() string      { return "project update" }
func (c *ProjectUpdateCmd) Aliases() []string { return nil }
func (c *ProjectUpdateCmd) Synopsis() string  { return "Update a project" }
func (c *ProjectUpdateCmd) Usage() string {
	return "tick project update [common flags] <project-id> [--name <name>] [--color <hex>] [--closed true|false] [--view-mode <mode>] [--kind TASK|NOTE]"
}
func (c *ProjectUpdateCmd) NeedsAuth() bool { return true }

func (c *ProjectUpdateCmd) RegisterFlags(fs *flag.FlagSet) {
	*c = ProjectUpdateCmd{}
	fs.Var(&c.name, "name", "")
	fs.Var(&c.color, "color", "")
	fs.Var(&c.closed, "closed", "")
	fs.Var(&c.viewMode, "view-mode", "")
	fs.Var(&c.kind, "kind", "")
}

func (c *ProjectUpdateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(cfg, out, errOut, c, "project id required")
	}
	in := engine.ProjectUpdate{
		Name:     c.name.ptr(),
		Color:    c.color.ptr(),
		ViewMode: c.viewMode.ptr(),
		Kind:     c.kind.ptr(),
	}
	if c.closed.set {
		closed, err := strconv.ParseBool(c.closed.val)
		if err != nil {
			return emit(cfg, out, errOut, output.FromError(
				apperr.New(apperr.InvalidRequest, "invalid --closed value %q (use true or false)", c.closed.val)))
		}
		in.Closed = &closed
	}
	return emit(cfg, out, errOut, newEngine(cfg, svc).UpdateProject(ctx, args[0], in))
}

// ProjectDeleteCmd implements "project delete".
type ProjectDeleteCmd struct{}

func (c *ProjectDeleteCmd) Name() string      { return "project delete" }
func (c *ProjectDeleteCmd) Aliases() []string { return []string{"project rm"} }
func (c *ProjectDeleteCmd) Synopsis() string  { return "Delete a project" }
func (c *ProjectDeleteCmd) Usage() string     { return "tick project delete [common flags] <project-id>" }
func (c *ProjectDeleteCmd) NeedsAuth() bool   { return true }

func (c *ProjectDeleteCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProjectDeleteCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(cfg, out, errOut, c, "project id required")
	}
	return emit(cfg, out, errOut, newEngine(cfg, svc).DeleteProject(ctx, args[0]))
}
