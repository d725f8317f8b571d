package engine

import (
	"context"
	"strings"

	"tick/internal/apperr"
	"tick/internal/model"
	"tick/internal/output"
	"tick/internal/validation"
)

// ListSubtasks lists the checklist items of a task.
func (e *Engine) ListSubtasks(ctx context.Context, project ProjectSelector, taskID string) output.Result {
	ref, err := e.ref(ctx, project, taskID)
	if err != nil {
		return output.FromError(err)
	}
	t, err := e.svc.GetTask(ctx, ref)
	if err != nil {
		return output.FromError(err)
	}
	return output.OK(output.NewSubtaskList(t.Items), "")
}

// AddSubtask appends a checklist item by resubmitting the task's full item list.
func (e *Engine) AddSubtask(ctx context.Context, project ProjectSelector, taskID, title string) output.Result {
	title = validation.SanitizeText(title)
	if err := validation.Struct(validation.SubtaskInput{TaskID: strings.TrimSpace(taskID), Title: title}); err != nil {
		return output.FromError(err)
	}
	ref, err := e.ref(ctx, project, taskID)
	if err != nil {
		return output.FromError(err)
	}

	updated, err := updateFrom(ctx, taskResource{e.svc}, ref, func(t model.Task) (model.TaskPatch, error) {
		items := append([]model.Subtask(nil), t.Items...)
		var next int64
		for _, it := range items {
			if it.SortOrder >= next {
				next = it.SortOrder + 1
			}
		}
		items = append(items, model.Subtask{Title: title, Status: model.SubtaskNormal, SortOrder: next})
		return model.TaskPatch{Items: &items}, nil
	})
	if err != nil {
		return output.FromError(err)
	}
	return output.OK(output.TaskView{Task: updated}, "Subtask added")
}

// CompleteSubtask checks one checklist item by resubmitting the task's full item list.
func (e *Engine) CompleteSubtask(ctx context.Context, project ProjectSelector, taskID, subtaskID string) output.Result {
	subtaskID = strings.TrimSpace(subtaskID)
	if subtaskID == "" {
		return output.FromError(apperr.New(apperr.InvalidRequest, "subtask id is required"))
	}
	ref, err := e.ref(ctx, project, taskID)
	if err != nil {
		return output.FromError(err)
	}

	now := model.NewTime(e.Now())
	updated, err := updateFrom(ctx, taskResource{e.svc}, ref, func(t model.Task) (model.TaskPatch, error) {
		items := append([]model.Subtask(nil), t.Items...)
		for i := range items {
			if items[i].ID == subtaskID {
				items[i].Status = model.SubtaskCompleted
				items[i].CompletedTime = &now
				return model.TaskPatch{Items: &items}, nil
			}
		}
		return model.TaskPatch{}, apperr.New(apperr.NotFound, "subtask not found: %s", subtaskID).
			WithDetail("subtaskId", subtaskID)
	})
	if err != nil {
		return output.FromError(err)
	}
	return output.OK(output.TaskView{Task: updated}, "Subtask completed")
}
