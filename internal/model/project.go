package model

import "strings"

// InboxProjectID is the reserved id of the Inbox. The API never lists it and rejects
// lookups of it, so clients synthesize it.
const InboxProjectID = "inbox"

// InboxProjectName is the display name of the Inbox.
const InboxProjectName = "Inbox"

// DefaultProjectColor is used for new projects when no color is configured.
const DefaultProjectColor = "#FF1111"

// ViewMode is how a project is displayed.
type ViewMode string

const (
	ViewList     ViewMode = "list"
	ViewKanban   ViewMode = "kanban"
	ViewTimeline ViewMode = "timeline"
)

// Kind is the kind of items a project holds.
type Kind string

const (
	KindTask Kind = "TASK"
	KindNote Kind = "NOTE"
)

// ParseKind accepts task/note in any case.
func ParseKind(s string) Kind {
	return Kind(strings.ToUpper(strings.TrimSpace(s)))
}

// Project is a task list.
type Project struct {
	ID         string   `json:"id,omitempty"`
	Name       string   `json:"name"`
	Color      string   `json:"color,omitempty"`
	SortOrder  int64    `json:"sortOrder"`
	Closed     bool     `json:"closed"`
	GroupID    string   `json:"groupId,omitempty"`
	ViewMode   ViewMode `json:"viewMode,omitempty"`
	Permission string   `json:"permission,omitempty"`
	Kind       Kind     `json:"kind,omitempty"`
}

// InboxProject returns the synthesized Inbox record. Every call returns an equal value.
func InboxProject() Project {
	return Project{
		ID:        InboxProjectID,
		Name:      InboxProjectName,
		SortOrder: -1,
		ViewMode:  ViewList,
		Kind:      KindTask,
	}
}

// IsInbox reports whether p is the Inbox.
func (p Project) IsInbox() bool { return IsInboxID(p.ID) }

// IsInboxID reports whether id is the reserved Inbox id.
func IsInboxID(id string) bool { return id == InboxProjectID }

// Column is a kanban column.
type Column struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId,omitempty"`
	Name      string `json:"name"`
	SortOrder int64  `json:"sortOrder"`
}

// ProjectData is a project with its tasks and kanban columns.
type ProjectData struct {
	Project Project  `json:"project"`
	Tasks   []Task   `json:"tasks"`
	Columns []Column `json:"columns"`
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
