package engine

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"tick/internal/apperr"
	"tick/internal/model"
	"tick/internal/output"
	"tick/internal/service"
	"tick/internal/validation"
)

// TaskFilter narrows ListTasks. Filters are applied after the remote call.
type TaskFilter struct {
	Project  ProjectSelector
	Priority *model.Priority
	Tag      string
	Status   *model.Status
}

// Match reports whether t passes every set filter.
func (f TaskFilter) Match(t model.Task) bool {
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Tag != "" && !t.HasTag(f.Tag) {
		return false
	}
	if f.Status != nil && t.IsComplete() != f.Status.IsComplete() {
		return false
	}
	return true
}

// TaskCreate is the input of CreateTask.
type TaskCreate struct {
	Project   ProjectSelector
	Title     string
	Content   string
	Desc      string
	Priority  model.Priority
	Tags      []string
	StartDate *model.Time
	DueDate   *model.Time
	IsAllDay  bool
	TimeZone  string
}

// ListTasks lists the tasks of the resolved project that pass the filter.
func (e *Engine) ListTasks(ctx context.Context, filter TaskFilter) output.Result {
	projectID, err := e.ResolveProject(ctx, filter.Project)
	if err != nil {
		return output.FromError(err)
	}
	tasks, err := e.svc.ListTasks(ctx, projectID)
	if err != nil {
		return output.FromError(err)
	}

	matched := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if filter.Match(t) {
			matched = append(matched, t)
		}
	}
	e.log.Debug("tasks listed",
		zap.String("projectId", projectID),
		zap.Int("fetched", len(tasks)),
		zap.Int("matched", len(matched)))
	return output.OK(output.NewTaskList(matched), "")
}

// ref resolves the project of a task reference.
func (e *Engine) ref(ctx context.Context, project ProjectSelector, taskID string) (service.TaskRef, error) {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return service.TaskRef{}, apperr.New(apperr.InvalidRequest, "task id is required")
	}
	projectID, err := e.ResolveProject(ctx, project)
	if err != nil {
		return service.TaskRef{}, err
	}
	return service.TaskRef{ProjectID: projectID, TaskID: taskID}, nil
}

// ShowTask shows one task with its subtasks.
func (e *Engine) ShowTask(ctx context.Context, project ProjectSelector, taskID string) output.Result {
	ref, err := e.ref(ctx, project, taskID)
	if err != nil {
		return output.FromError(err)
	}
	t, err := e.svc.GetTask(ctx, ref)
	if err != nil {
		return output.FromError(err)
	}
	return output.OK(output.TaskView{Task: t}, "")
}

// CreateTask creates a task in the resolved project.
func (e *Engine) CreateTask(ctx context.Context, in TaskCreate) output.Result {
	projectID, err := e.ResolveProject(ctx, in.Project)
	if err != nil {
		return output.FromError(err)
	}
	in.Title = validation.SanitizeText(in.Title)
	if err := validation.Struct(validation.TaskInput{
		Title:     in.Title,
		ProjectID: projectID,
		Priority:  int(in.Priority),
		Tags:      in.Tags,
		TimeZone:  in.TimeZone,
	}); err != nil {
		return output.FromError(err)
	}

	created, err := e.svc.CreateTask(ctx, model.Task{
		ProjectID: projectID,
		Title:     in.Title,
		Content:   in.Content,
		Desc:      in.Desc,
		IsAllDay:  in.IsAllDay,
		StartDate: in.StartDate,
		DueDate:   in.DueDate,
		Priority:  in.Priority,
		Tags:      in.Tags,
		TimeZone:  in.TimeZone,
	})
	if err != nil {
		return output.FromError(err)
	}
	return output.OK(output.TaskView{Task: created}, "Task created")
}

// UpdateTask merge-updates a task with the fields set in patch.
func (e *Engine) UpdateTask(ctx context.Context, project ProjectSelector, taskID string, patch model.TaskPatch) output.Result {
	ref, err := e.ref(ctx, project, taskID)
	if err != nil {
		return output.FromError(err)
	}
	if patch.IsEmpty() {
		return output.FromError(apperr.New(apperr.InvalidRequest, "nothing to update (pass at least one field)"))
	}

	check := validation.TaskInput{ProjectID: ref.ProjectID, Partial: true}
	if patch.Title != nil {
		title := validation.SanitizeText(*patch.Title)
		if title == "" {
			return output.FromError(apperr.New(apperr.InvalidRequest, "task title cannot be empty").
				WithDetail("title", "is required"))
		}
		check.Title, patch.Title = title, &title
	}
	if patch.Priority != nil {
		check.Priority = int(*patch.Priority)
	}
	if patch.Tags != nil {
		check.Tags = *patch.Tags
	}
	if patch.TimeZone != nil {
		check.TimeZone = *patch.TimeZone
	}
	if err := validation.Struct(check); err != nil {
		return output.FromError(err)
	}

	updated, err := taskResource{e.svc}.Update(ctx, ref, patch)
	if err != nil {
		return output.FromError(err)
	}
	return output.OK(output.TaskView{Task: updated}, "Task updated")
}

// DeleteTask deletes a task. Deleting an absent task succeeds with alreadyDeleted set.
func (e *Engine) DeleteTask(ctx context.Context, project ProjectSelector, taskID string) output.Result {
	ref, err := e.ref(ctx, project, taskID)
	if err != nil {
		return output.FromError(err)
	}
	return deleted("task", ref.TaskID, e.svc.DeleteTask(ctx, ref))
}

// CompleteTask marks a task complete.
func (e *Engine) CompleteTask(ctx context.Context, project ProjectSelector, taskID string) output.Result {
	ref, err := e.ref(ctx, project, taskID)
	if err != nil {
		return output.FromError(err)
	}
	if err := e.svc.CompleteTask(ctx, ref); err != nil {
		return output.FromError(err)
	}
	return output.OK(output.TaskRefView{TaskID: ref.TaskID, ProjectID: ref.ProjectID}, "Task completed")
}

// UncompleteTask marks a task incomplete, preserving every other field.
func (e *Engine) UncompleteTask(ctx context.Context, project ProjectSelector, taskID string) output.Result {
	ref, err := e.ref(ctx, project, taskID)
	if err != nil {
		return output.FromError(err)
	}
	t, err := e.svc.UncompleteTask(ctx, ref)
	if err != nil {
		return output.FromError(err)
	}
	return output.OK(output.TaskView{Task: t}, "Task marked incomplete")
}
