package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tick/internal/config"
	"tick/internal/exitcode"
	"tick/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tick help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  tick init                                   Authenticate with TickTick
  tick reset                                  Remove stored token and settings

  tick project list
  tick project show <project-id>
  tick project use <name-or-id>               Set the default project
  tick project create --name <name> [--color <hex>] [--view-mode list|kanban|timeline] [--kind TASK|NOTE]
  tick project update <project-id> [--name ..] [--color ..] [--closed true|false] [--view-mode ..] [--kind ..]
  tick project delete <project-id>

  tick task list [--priority <p>] [--tag <tag>] [--status complete|incomplete]
  tick task show <task-id>
  tick task create --title <title> [task flags]
  tick task update <task-id> [task flags]
  tick task delete <task-id>
  tick task complete <task-id>
  tick task uncomplete <task-id>

  tick subtask list <task-id>
  tick subtask add <task-id> --title <title>
  tick subtask complete <task-id> <subtask-id>

  tick help
  tick version

Project selection (task and subtask commands):
  -p, --project-id <id>     Project id ("inbox" for the Inbox)
  -n, --project-name <name> Project name
  Without either, the default project set by "tick project use" applies.

Task flags:
  -t, --title <text>        -c, --content <text>
  --priority none|low|medium|high (or 0|1|3|5)
  --tags a,b,c              --timezone <IANA zone>
  --date <date>             Sets both start and due
  --start <date>            --due <date>
  --all-day
  Dates: today, tomorrow, next week, "in 3 days", 2026-01-31, 2026-01-31T09:00:00

Common flags:
  --config <dir>   Override config directory
  --json           Print a JSON result envelope
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
