package commands

import (
	"context"
	"flag"
	"io"

	"tick/internal/config"
	"tick/internal/service"
)

func init() {
	Register(&SubtaskListCmd{})
	Register(&SubtaskAddCmd{})
	Register(&SubtaskCompleteCmd{})
}

// SubtaskListCmd implements "subtask list".
type SubtaskListCmd struct {
	project projectFlags
}

func (c *SubtaskListCmd) Name() string      { return "subtask list" }
func (c *SubtaskListCmd) Aliases() []string { return []string{"subtask ls"} }
func (c *SubtaskListCmd) Synopsis() string  { return "List the checklist items of a task" }
func (c *SubtaskListCmd) Usage() string {
	return "tick subtask list [common flags] [-p <project-id> | -n <project-name>] <task-id>"
}
func (c *SubtaskListCmd) NeedsAuth() bool { return true }

func (c *SubtaskListCmd) RegisterFlags(fs *flag.FlagSet) { c.project.register(fs) }

func (c *SubtaskListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(cfg, out, errOut, c, "task id required")
	}
	return emit(cfg, out, errOut, newEngine(cfg, svc).ListSubtasks(ctx, c.project.selector(), args[0]))
}

// SubtaskAddCmd implements "subtask add".
type SubtaskAddCmd struct {
	project projectFlags
	title   string
}

func (c *SubtaskAddCmd) Name() string      { return "subtask add" }
func (c *SubtaskAddCmd) Aliases() []string { return []string{"subtask create"} }
func (c *SubtaskAddCmd) Synopsis() string  { return "Add a checklist item to a task" }
func (c *SubtaskAddCmd) Usage() string {
	return "tick subtask add [common flags] [-p <project-id> | -n <project-name>] <task-id> --title <title>"
}
func (c *SubtaskAddCmd) NeedsAuth() bool { return true }

func (c *SubtaskAddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.project.register(fs)
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.title, "t", "", "")
}

func (c *SubtaskAddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return usageError(cfg, out, errOut, c, "task id required")
	}
	title := c.title
	if title == "" {
		title = joinArgs(args[1:])
	} else if len(args) > 1 {
		return usageError(cfg, out, errOut, c, "unexpected arguments after task id")
	}
	if title == "" {
		return usageError(cfg, out, errOut, c, "subtask title required")
	}
	return emit(cfg, out, errOut, newEngine(cfg, svc).AddSubtask(ctx, c.project.selector(), args[0], title))
}

// SubtaskCompleteCmd implements "subtask complete".
type SubtaskCompleteCmd struct {
	project projectFlags
}

func (c *SubtaskCompleteCmd) Name() string      { return "subtask complete" }
func (c *SubtaskCompleteCmd) Aliases() []string { return []string{"subtask done"} }
func (c *SubtaskCompleteCmd) Synopsis() string  { return "Mark a checklist item complete" }
func (c *SubtaskCompleteCmd) Usage() string {
	return "tick subtask complete [common flags] [-p <project-id> | -n <project-name>] <task-id> <subtask-id>"
}
func (c *SubtaskCompleteCmd) NeedsAuth() bool { return true }

func (c *SubtaskCompleteCmd) RegisterFlags(fs *flag.FlagSet) { c.project.register(fs) }

func (c *SubtaskCompleteCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		return usageError(cfg, out, errOut, c, "task id and subtask id required")
	}
	return emit(cfg, out, errOut, newEngine(cfg, svc).CompleteSubtask(ctx, c.project.selector(), args[0], args[1]))
}
