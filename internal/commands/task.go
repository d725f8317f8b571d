package commands

import (
	"context"
	"flag"
	"io"
	"time"

	"tick/internal/apperr"
	"tick/internal/config"
	"tick/internal/engine"
	"tick/internal/model"
	"tick/internal/output"
	"tick/internal/service"
)

func init() {
	Register(&TaskListCmd{})
	Register(&TaskShowCmd{})
	Register(&TaskCreateCmd{})
	Register(&TaskUpdateCmd{})
	Register(&TaskDeleteCmd{})
	Register(&TaskCompleteCmd{})
	Register(&TaskUncompleteCmd{})
}

// now is the clock used to resolve relative dates.
var now = time.Now

// TaskListCmd implements "task list".
type TaskListCmd struct {
	project  projectFlags
	priority string
	tag      string
	status   string
}

func (c *TaskListCmd) Name() string      { return "task list" }
func (c *TaskListCmd) Aliases() []string { return []string{"task ls"} }
func (c *TaskListCmd) Synopsis() string  { return "List tasks in a project" }
func (c *TaskListCmd) Usage() string {
	return "tick task list [common flags] [-p <project-id> | -n <project-name>] [--priority none|low|medium|high] [--tag <tag>] [--status complete|incomplete]"
}
func (c *TaskListCmd) NeedsAuth() bool { return true }

func (c *TaskListCmd) RegisterFlags(fs *flag.FlagSet) {
	c.project.register(fs)
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.tag, "tag", "", "")
	fs.StringVar(&c.status, "status", "", "")
}

func (c *TaskListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	filter := engine.TaskFilter{Project: c.project.selector(), Tag: c.tag}
	if c.priority != "" {
		p, err := model.ParsePriority(c.priority)
		if err != nil {
			return emit(cfg, out, errOut, output.FromError(
				apperr.Wrap(apperr.InvalidRequest, err, "invalid --priority").WithDetail("priority", c.priority)))
		}
		filter.Priority = &p
	}
	st, err := parseStatus(c.status)
	if err != nil {
		return emit(cfg, out, errOut, output.FromError(err))
	}
	filter.Status = st
	return emit(cfg, out, errOut, newEngine(cfg, svc).ListTasks(ctx, filter))
}

// TaskShowCmd implements "task show".
type TaskShowCmd struct {
	project projectFlags
}

func (c *TaskShowCmd) Name() string      { return "task show" }
func (c *TaskShowCmd) Aliases() []string { return []string{"task get"} }
func (c *TaskShowCmd) Synopsis() string  { return "Show task details" }
func (c *TaskShowCmd) Usage() string {
	return "tick task show [common flags] [-p <project-id> | -n <project-name>] <task-id>"
}
func (c *TaskShowCmd) NeedsAuth() bool { return true }

func (c *TaskShowCmd) RegisterFlags(fs *flag.FlagSet) { c.project.register(fs) }

func (c *TaskShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(cfg, out, errOut, c, "task id required")
	}
	return emit(cfg, out, errOut, newEngine(cfg, svc).ShowTask(ctx, c.project.selector(), args[0]))
}

// TaskCreateCmd implements "task create".
type TaskCreateCmd struct {
	project projectFlags
	fields  taskFields
}

func (c *TaskCreateCmd) Name() string      { return "task create" }
func (c *TaskCreateCmd) Aliases() []string { return []string{"task add"} }
func (c *TaskCreateCmd) Synopsis() string  { return "Create a task" }
func (c *TaskCreateCmd) Usage() string {
	return "tick task create [common flags] [-p <project-id> | -n <project-name>] --title <title> [--content <text>] [--priority <p>] [--tags a,b] [--date|--start|--due <date>] [--all-day] [--timezone <tz>]"
}
func (c *TaskCreateCmd) NeedsAuth() bool { return true }

func (c *TaskCreateCmd) RegisterFlags(fs *flag.FlagSet) {
	c.project.register(fs)
	c.fields.register(fs)
}

func (c *TaskCreateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !c.fields.title.set && len(args) > 0 {
		c.fields.title.Set(joinArgs(args))
	}
	if !c.fields.title.set {
		return usageError(cfg, out, errOut, c, "task title required")
	}
	p, err := c.fields.patch(now())
	if err != nil {
		return emit(cfg, out, errOut, output.FromError(err))
	}
	in := engine.TaskCreate{
		Project:   c.project.selector(),
		Title:     *p.Title,
		StartDate: p.StartDate,
		DueDate:   p.DueDate,
	}
	if p.Content != nil {
		in.Content = *p.Content
	}
	if p.Priority != nil {
		in.Priority = *p.Priority
	}
	if p.Tags != nil {
		in.Tags = *p.Tags
	}
	if p.IsAllDay != nil {
		in.IsAllDay = *p.IsAllDay
	}
	if p.TimeZone != nil {
		in.TimeZone = *p.TimeZone
	}
	return emit(cfg, out, errOut, newEngine(cfg, svc).CreateTask(ctx, in))
}

// TaskUpdateCmd implements "task update".
type TaskUpdateCmd struct {
	project projectFlags
	fields  taskFields
}

func (c *TaskUpdateCmd) Name() string      { return "task update" }
func (c *TaskUpdateCmd) Aliases() []string { return []string{"task edit"} }
func (c *TaskUpdateCmd) Synopsis() string  { return "Update a task" }
func (c *TaskUpdateCmd) Usage() string {
	return "tick task update [common flags] [-p <project-id> | -n <project-name>] <task-id> [--title <title>] [--content <text>] [--priority <p>] [--tags a,b] [--date|--start|--due <date>] [--all-day] [--timezone <tz>]"
}
func (c *TaskUpdateCmd) NeedsAuth() bool { return true }

func (c *TaskUpdateCmd) RegisterFlags(fs *flag.FlagSet) {
	c.project.register(fs)
	c.fields.register(fs)
}

func (c *TaskUpdateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(cfg, out, errOut, c, "task id required")
	}
	p, err := c.fields.patch(now())
	if err != nil {
		return emit(cfg, out, errOut, output.FromError(err))
	}
	return emit(cfg, out, errOut, newEngine(cfg, svc).UpdateTask(ctx, c.project.selector(), args[0], p))
}

// TaskDeleteCmd implements "task delete".
type TaskDeleteCmd struct {
	project projectFlags
	force   bool
}

func (c *TaskDeleteCmd) Name() string      { return "task delete" }
func (c *TaskDeleteCmd) Aliases() []string { return []string{"task rm"} }
func (c *TaskDeleteCmd) Synopsis() string  { return "Delete a task" }
func (c *TaskDeleteCmd) Usage() string {
	return "tick task delete [common flags] [-p <project-id> | -n <project-name>] [--force] <task-id>"
}
func (c *TaskDeleteCmd) NeedsAuth() bool { return true }

func (c *TaskDeleteCmd) RegisterFlags(fs *flag.FlagSet) {
	c.project.register(fs)
	// Deletion never prompts; --force is accepted for scripts that pass it.
	fs.BoolVar(&c.force, "force", false, "skip confirmation (deletion never prompts)")
}

func (c *TaskDeleteCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(cfg, out, errOut, c, "task id required")
	}
	return emit(cfg, out, errOut, newEngine(cfg, svc).DeleteTask(ctx, c.project.selector(), args[0]))
}

// TaskCompleteCmd implements "task complete".
type TaskCompleteCmd struct {
	project projectFlags
}

func (c *TaskCompleteCmd) Name() string      { return "task complete" }
func (c *TaskCompleteCmd) Aliases() []string { return []string{"task done"} }
func (c *TaskCompleteCmd) Synopsis() string  { return "Mark a task complete" }
func (c *TaskCompleteCmd) Usage() string {
	return "tick task complete [common flags] [-p <project-id> | -n <project-name>] <task-id>"
}
func (c *TaskCompleteCmd) NeedsAuth() bool { return true }

func (c *TaskCompleteCmd) RegisterFlags(fs *flag.FlagSet) { c.project.register(fs) }

func (c *TaskCompleteCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(cfg, out, errOut, c, "task id required")
	}
	return emit(cfg, out, errOut, newEngine(cfg, svc).CompleteTask(ctx, c.project.selector(), args[0]))
}

// TaskUncompleteCmd implements "task uncomplete".
type TaskUncompleteCmd struct {
	project projectFlags
}

func (c *TaskUncompleteCmd) Name() string      { return "task uncomplete" }
func (c *TaskUncompleteCmd) Aliases() []string { return []string{"task reopen"} }
func (c *TaskUncompleteCmd) Synopsis() string  { return "Mark a task incomplete" }
func (c *TaskUncompleteCmd) Usage() string {
	return "tick task uncomplete [common flags] [-p <project-id> | -n <project-name>] <task-id>"
}
func (c *TaskUncompleteCmd) NeedsAuth() bool { return true }

func (c *TaskUncompleteCmd) RegisterFlags(fs *flag.FlagSet) { c.project.register(fs) }

func (c *TaskUncompleteCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(cfg, out, errOut, c, "task id required")
	}
	return emit(cfg, out, errOut, newEngine(cfg, svc).UncompleteTask(ctx, c.project.selector(), args[0]))
}
