package output

import (
	"fmt"
	"io"
	"strings"

	"tick/internal/model"
)

// RenderText writes the human-readable view of r. Successes go to out,
// failures to errOut. Message-only successes are suppressed when quiet.
func RenderText(out, errOut io.Writer, r Result, quiet bool) {
	if !r.Success {
		msg := "unknown error"
		if r.Error != nil {
			msg = r.Error.Message
		}
		fmt.Fprintf(errOut, "error: %s\n", msg)
		return
	}

	switch d := r.Data.(type) {
	case ProjectList:
		FormatProjectList(out, d.Projects)
	case ProjectView:
		if r.Message != "" {
			formatCreated(out, r.Message, d.Project.ID, quiet)
			return
		}
		FormatProjectDetails(out, d.Project)
	case DefaultProject:
		formatOK(out, r.Message, quiet)
	case TaskList:
		FormatTaskList(out, d.Tasks)
	case TaskView:
		if r.Message != "" {
			formatCreated(out, r.Message, d.Task.ID, quiet)
			return
		}
		FormatTaskDetails(out, d.Task)
	case SubtaskList:
		FormatSubtaskList(out, d.Subtasks)
	case VersionInfo:
		fmt.Fprintf(out, "%s %s\n", d.Name, d.Version)
	default:
		formatOK(out, r.Message, quiet)
	}
}

func formatOK(w io.Writer, message string, quiet bool) {
	if quiet {
		return
	}
	if message == "" {
		message = "done"
	}
	fmt.Fprintf(w, "OK: %s\n", message)
}

func formatCreated(w io.Writer, message, id string, quiet bool) {
	if quiet {
		fmt.Fprintln(w, id)
		return
	}
	fmt.Fprintf(w, "OK: %s\n  ID: %s\n", message, id)
}

// FormatProjectList writes one line per project and a total.
func FormatProjectList(w io.Writer, projects []model.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects found.")
		return
	}
	fmt.Fprintln(w, "Projects:")
	for _, p := range projects {
		switch {
		case p.IsInbox():
			fmt.Fprintf(w, "- [%s] %s\n", p.ID, model.InboxProjectName)
		case p.Color == "":
			fmt.Fprintf(w, "- [%s] %s\n", p.ID, normalizeTitle(p.Name))
		default:
			fmt.Fprintf(w, "- [%s] %s (%s)\n", p.ID, normalizeTitle(p.Name), p.Color)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d project(s)\n", len(projects))
}

// FormatProjectDetails writes a project as key/value lines.
func FormatProjectDetails(w io.Writer, p model.Project) {
	fmt.Fprintf(w, "Project: %s\n", p.ID)
	fmt.Fprintf(w, "Name: %s\n", normalizeTitle(p.Name))
	if p.Color != "" {
		fmt.Fprintf(w, "Color: %s\n", p.Color)
	}
	fmt.Fprintf(w, "View Mode: %s\n", p.ViewMode)
	fmt.Fprintf(w, "Kind: %s\n", p.Kind)
	fmt.Fprintf(w, "Closed: %s\n", yesNo(p.Closed))
	if p.GroupID != "" {
		fmt.Fprintf(w, "Group ID: %s\n", p.GroupID)
	}
}

// FormatTaskList writes one line per task and a total.
// Format: "[x] [H] {TITLE} (due: YYYY-MM-DD)"
func FormatTaskList(w io.Writer, tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}
	fmt.Fprintln(w, "Tasks:")
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = fmt.Sprintf(" (due: %s)", t.DueDate.UTC().Format("2006-01-02"))
		}
		fmt.Fprintf(w, "%s %s %s%s\n", checkbox(t.IsComplete()), priorityMarker(t.Priority), normalizeTitle(t.Title), due)
	}
	fmt.Fprintf(w, "\nTotal: %d task(s)\n", len(tasks))
}

// FormatTaskDetails writes a task as key/value lines followed by its subtasks.
func FormatTaskDetails(w io.Writer, t model.Task) {
	fmt.Fprintf(w, "Task: %s\n", t.ID)
	fmt.Fprintf(w, "Title: %s\n", normalizeTitle(t.Title))
	fmt.Fprintf(w, "Project: %s\n", t.ProjectID)
	fmt.Fprintf(w, "Status: %s\n", t.Status)
	fmt.Fprintf(w, "Priority: %s\n", t.Priority)
	if t.DueDate != nil {
		fmt.Fprintf(w, "Due: %s UTC\n", t.DueDate.UTC().Format("2006-01-02 15:04:05"))
	}
	if t.StartDate != nil {
		fmt.Fprintf(w, "Start: %s UTC\n", t.StartDate.UTC().Format("2006-01-02 15:04:05"))
	}
	if t.IsAllDay {
		fmt.Fprintln(w, "All Day: yes")
	}
	if t.Content != "" {
		fmt.Fprintf(w, "Content: %s\n", t.Content)
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(t.Tags, ", "))
	}
	if t.TimeZone != "" {
		fmt.Fprintf(w, "Timezone: %s\n", t.TimeZone)
	}
	if len(t.Items) > 0 {
		fmt.Fprintf(w, "\nSubtasks (%d):\n", len(t.Items))
		for _, it := range t.Items {
			formatSubtaskLine(w, it)
		}
	}
}

// FormatSubtaskList writes one line per subtask and a total.
func FormatSubtaskList(w io.Writer, items []model.Subtask) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No subtasks found.")
		return
	}
	fmt.Fprintln(w, "Subtasks:")
	for _, it := range items {
		formatSubtaskLine(w, it)
	}
	fmt.Fprintf(w, "\nTotal: %d subtask(s)\n", len(items))
}

func formatSubtaskLine(w io.Writer, it model.Subtask) {
	fmt.Fprintf(w, "  %s [%s] %s\n", checkbox(it.IsComplete()), it.ID, normalizeTitle(it.Title))
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func priorityMarker(p model.Priority) string {
	switch p {
	case model.PriorityLow:
		return "[L]"
	case model.PriorityMedium:
		return "[M]"
	case model.PriorityHigh:
		return "[H]"
	default:
		return "   "
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
