// Package model defines the TickTick resources exchanged with the remote API.
package model

// Subtask is a checklist item. It is owned by its Task and can only be changed by
// resubmitting the parent's full item list.
type Subtask struct {
	ID            string `json:"id,omitempty"`
	Title         string `json:"title"`
	Status        int    `json:"status"`
	CompletedTime *Time  `json:"completedTime,omitempty"`
	IsAllDay      bool   `json:"isAllDay"`
	StartDate     *Time  `json:"startDate,omitempty"`
	SortOrder     int64  `json:"sortOrder"`
	TimeZone      string `json:"timeZone,omitempty"`
}

// Subtask status values.
const (
	SubtaskNormal    = 0
	SubtaskCompleted = 1
)

// IsComplete reports whether the item is checked.
func (s Subtask) IsComplete() bool { return s.Status != SubtaskNormal }

// Task is a single task. Nil slices are omitted when encoding; empty non-nil
// slices are sent as [] so a cleared list reaches the server.
type Task struct {
	ID            string    `json:"id,omitempty"`
	ProjectID     string    `json:"projectId"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Desc          string    `json:"desc,omitempty"`
	IsAllDay      bool      `json:"isAllDay"`
	StartDate     *Time     `json:"startDate,omitempty"`
	DueDate       *Time     `json:"dueDate,omitempty"`
	CompletedTime *Time     `json:"completedTime,omitempty"`
	Priority      Priority  `json:"priority"`
	Status        Status    `json:"status"`
	Items         []Subtask `json:"items,omitzero"`
	Tags          []string  `json:"tags,omitzero"`
	RepeatFlag    string    `json:"repeatFlag,omitempty"`
	Reminders     []string  `json:"reminders,omitzero"`
	SortOrder     int64     `json:"sortOrder"`
	TimeZone      string    `json:"timeZone,omitempty"`
}

// IsComplete reports whether the task is completed.
func (t Task) IsComplete() bool { return t.Status.IsComplete() }

// HasTag reports whether the task carries tag (case-insensitive).
func (t Task) HasTag(tag string) bool {
	for _, v := range t.Tags {
		if equalFold(v, tag) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of t. Slices and timestamps are not shared.
func (t Task) Clone() Task {
	c := t
	c.StartDate = cloneTime(t.StartDate)
	c.DueDate = cloneTime(t.DueDate)
	c.CompletedTime = cloneTime(t.CompletedTime)
	c.Items = cloneSubtasks(t.Items)
	c.Tags = cloneStrings(t.Tags)
	c.Reminders = cloneStrings(t.Reminders)
	return c
}

func cloneSubtasks(items []Subtask) []Subtask {
	if items == nil {
		return nil
	}
	out := make([]Subtask, len(items))
	for i, it := range items {
		it.CompletedTime = cloneTime(it.CompletedTime)
		it.StartDate = cloneTime(it.StartDate)
		out[i] = it
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
