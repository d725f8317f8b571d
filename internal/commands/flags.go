package commands

import (
	"flag"
	"strconv"
	"strings"
	"time"

	"tick/internal/apperr"
	"tick/internal/dates"
	"tick/internal/engine"
	"tick/internal/model"
	"tick/internal/validation"
)

// optString is a string flag that remembers whether it was given.
type optString struct {
	val string
	set bool
}

func (o *optString) String() string { return o.val }

func (o *optString) Set(s string) error {
	o.val, o.set = s, true
	return nil
}

// ptr returns nil when the flag was not given.
func (o *optString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.val
	return &v
}

// optBool is a boolean flag that remembers whether it was given.
// "--flag" means true; "--flag=false" is accepted.
type optBool struct {
	val bool
	set bool
}

func (o *optBool) String() string { return strconv.FormatBool(o.val) }

func (o *optBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	o.val, o.set = v, true
	return nil
}

func (o *optBool) IsBoolFlag() bool { return true }

func (o *optBool) ptr() *bool {
	if !o.set {
		return nil
	}
	v := o.val
	return &v
}

// projectFlags selects the project a task command operates on.
type projectFlags struct {
	id   string
	name string
}

func (p *projectFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&p.id, "project-id", "", "")
	fs.StringVar(&p.id, "p", "", "")
	fs.StringVar(&p.name, "project-name", "", "")
	fs.StringVar(&p.name, "n", "", "")
}

func (p *projectFlags) selector() engine.ProjectSelector {
	return engine.ProjectSelector{ID: p.id, Name: p.name}
}

// taskFields are the optional task attributes shared by create and update.
type taskFields struct {
	title    optString
	content  optString
	priority optString
	tags     optString
	date     optString
	start    optString
	due      optString
	allDay   optBool
	timeZone optString
}

func (f *taskFields) register(fs *flag.FlagSet) {
	*f = taskFields{}
	fs.Var(&f.title, "title", "")
	fs.Var(&f.title, "t", "")
	fs.Var(&f.content, "content", "")
	fs.Var(&f.content, "c", "")
	fs.Var(&f.priority, "priority", "")
	fs.Var(&f.tags, "tags", "")
	fs.Var(&f.date, "date", "")
	fs.Var(&f.start, "start", "")
	fs.Var(&f.due, "due", "")
	fs.Var(&f.allDay, "all-day", "")
	fs.Var(&f.timeZone, "timezone", "")
}

// patch converts the given flags into a TaskPatch. --date sets both start and due.
func (f *taskFields) patch(now time.Time) (model.TaskPatch, error) {
	var p model.TaskPatch
	p.Title = f.title.ptr()
	p.Content = f.content.ptr()
	p.IsAllDay = f.allDay.ptr()
	p.TimeZone = f.timeZone.ptr()

	if f.priority.set {
		pr, err := model.ParsePriority(f.priority.val)
		if err != nil {
			return p, apperr.Wrap(apperr.InvalidRequest, err, "invalid --priority").WithDetail("priority", f.priority.val)
		}
		p.Priority = &pr
	}
	if f.tags.set {
		tags := validation.SplitTags(f.tags.val)
		if tags == nil {
			tags = []string{}
		}
		p.Tags = &tags
	}

	parse := func(o optString) (*model.Time, error) {
		if !o.set {
			return nil, nil
		}
		t, err := dates.Parse(o.val, now)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
	var err error
	if f.date.set {
		if f.start.set || f.due.set {
			return p, apperr.New(apperr.InvalidRequest, "--date cannot be combined with --start or --due")
		}
		if p.DueDate, err = parse(f.date); err != nil {
			return p, err
		}
		start := *p.DueDate
		p.StartDate = &start
		return p, nil
	}
	if p.StartDate, err = parse(f.start); err != nil {
		return p, err
	}
	if p.DueDate, err = parse(f.due); err != nil {
		return p, err
	}
	return p, nil
}

// parseStatus parses --status for task list.
func parseStatus(s string) (*model.Status, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	st, err := model.ParseStatus(s)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidRequest, err, "invalid --status").WithDetail("status", s)
	}
	return &st, nil
}
