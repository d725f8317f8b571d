package model

// TaskPatch holds the fields a caller explicitly supplied for a task update.
// A nil field means "leave unchanged".
type TaskPatch struct {
	Title      *string
	Content    *string
	Desc       *string
	IsAllDay   *bool
	StartDate  *Time
	DueDate    *Time
	Priority   *Priority
	Status     *Status
	Tags       *[]string
	Items      *[]Subtask
	RepeatFlag *string
	TimeZone   *string
}

// IsEmpty reports whether no field is set.
func (p TaskPatch) IsEmpty() bool {
	return p == TaskPatch{}
}

// Apply overlays p onto existing and returns the merged task. existing is not modified.
func (p TaskPatch) Apply(existing Task) Task {
	t := existing.Clone()
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.Desc != nil {
		t.Desc = *p.Desc
	}
	if p.IsAllDay != nil {
		t.IsAllDay = *p.IsAllDay
	}
	if p.StartDate != nil {
		t.StartDate = cloneTime(p.StartDate)
	}
	if p.DueDate != nil {
		t.DueDate = cloneTime(p.DueDate)
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Tags != nil {
		t.Tags = cloneStrings(*p.Tags)
	}
	if p.Items != nil {
		t.Items = cloneSubtasks(*p.Items)
	}
	if p.RepeatFlag != nil {
		t.RepeatFlag = *p.RepeatFlag
	}
	if p.TimeZone != nil {
		t.TimeZone = *p.TimeZone
	}
	return t
}

// ProjectPatch holds the fields a caller explicitly supplied for a project update.
type ProjectPatch struct {
	Name     *string
	Color    *string
	Closed   *bool
	ViewMode *ViewMode
	Kind     *Kind
}

// IsEmpty reports whether no field is set.
func (p ProjectPatch) IsEmpty() bool {
	return p == ProjectPatch{}
}

// Apply overlays p onto existing and returns the merged project.
func (p ProjectPatch) Apply(existing Project) Project {
	out := existing
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Color != nil {
		out.Color = *p.Color
	}
	if p.Closed != nil {
		out.Closed = *p.Closed
	}
	if p.ViewMode != nil {
		out.ViewMode = *p.ViewMode
	}
	if p.Kind != nil {
		out.Kind = *p.Kind
	}
	return out
}
