// Package output defines the Result envelope every command produces and renders it.
package output

import (
	"tick/internal/apperr"
	"tick/internal/model"
)

// Result is the uniform outcome of a command. Exactly one of Data or Error is set
// on a well-formed value, as decided by Success.
type Result struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
	Message string       `json:"message,omitempty"`
}

// ErrorDetail is the failure half of the envelope.
type ErrorDetail struct {
	Code    apperr.Code    `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// OK builds a success result.
func OK(data any, message string) Result {
	return Result{Success: true, Data: data, Message: message}
}

// Fail builds a failure result.
func Fail(code apperr.Code, message string, details map[string]any) Result {
	return Result{Error: &ErrorDetail{Code: code, Message: message, Details: details}}
}

// FromError converts any error into a failure result.
func FromError(err error) Result {
	if ae, ok := apperr.As(err); ok {
		return Fail(ae.Code, ae.Error(), ae.Details)
	}
	return Fail(apperr.CodeOf(err), err.Error(), nil)
}

// Code returns the error code of a failed result, or "" on success.
func (r Result) Code() apperr.Code {
	if r.Success || r.Error == nil {
		return ""
	}
	return r.Error.Code
}

// Payload shapes.

type ProjectList struct {
	Projects []model.Project `json:"projects"`
}

type ProjectView struct {
	Project model.Project `json:"project"`
}

type TaskList struct {
	Tasks []model.Task `json:"tasks"`
	Count int          `json:"count"`
}

// NewTaskList returns a TaskList whose Count always equals len(Tasks).
func NewTaskList(tasks []model.Task) TaskList {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return TaskList{Tasks: tasks, Count: len(tasks)}
}

type TaskView struct {
	Task model.Task `json:"task"`
}

// TaskRefView identifies a task acted on without returning its body.
type TaskRefView struct {
	TaskID    string `json:"taskId"`
	ProjectID string `json:"projectId"`
}

type SubtaskList struct {
	Subtasks []model.Subtask `json:"subtasks"`
	Count    int             `json:"count"`
}

// NewSubtaskList returns a SubtaskList whose Count always equals len(Subtasks).
func NewSubtaskList(items []model.Subtask) SubtaskList {
	if items == nil {
		items = []model.Subtask{}
	}
	return SubtaskList{Subtasks: items, Count: len(items)}
}

// Deleted reports a removed resource. AlreadyDeleted is set when the resource
// was absent before the call.
type Deleted struct {
	Kind           string `json:"kind"`
	ID             string `json:"id"`
	AlreadyDeleted bool   `json:"alreadyDeleted,omitempty"`
}

type VersionInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// DefaultProject reports the configured default project.
type DefaultProject struct {
	Project model.Project `json:"project"`
	Default bool          `json:"default"`
}
