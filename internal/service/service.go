// Package service defines the backend-agnostic interface for project and task operations.
package service

import (
	"context"

	"tick/internal/model"
)

// TaskRef addresses a task. The remote API needs both ids for most task operations.
type TaskRef struct {
	ProjectID string
	TaskID    string
}

// Projects is the project capability set.
type Projects interface {
	// ListProjects returns all projects with the Inbox at position 0.
	ListProjects(ctx context.Context) ([]model.Project, error)

	// GetProject returns a single project. The Inbox never needs a round trip.
	GetProject(ctx context.Context, id string) (model.Project, error)

	// GetProjectData returns a project with its tasks and columns.
	GetProjectData(ctx context.Context, id string) (model.ProjectData, error)

	// CreateProject creates a project and returns the server's copy.
	CreateProject(ctx context.Context, p model.Project) (model.Project, error)

	// UpdateProject fetches the project, overlays patch and submits the result.
	UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error)

	// UpdateProjectWith is UpdateProject with the patch derived from the fetched project.
	UpdateProjectWith(ctx context.Context, id string, derive func(model.Project) (model.ProjectPatch, error)) (model.Project, error)

	// DeleteProject deletes a project. The Inbox cannot be deleted.
	DeleteProject(ctx context.Context, id string) error
}

// Tasks is the task capability set.
type Tasks interface {
	// ListTasks returns the tasks of a project in API order.
	ListTasks(ctx context.Context, projectID string) ([]model.Task, error)

	GetTask(ctx context.Context, ref TaskRef) (model.Task, error)

	CreateTask(ctx context.Context, t model.Task) (model.Task, error)

	// UpdateTask fetches the task, overlays patch and submits the full task.
	// Nothing is written if the fetch fails.
	UpdateTask(ctx context.Context, ref TaskRef, patch model.TaskPatch) (model.Task, error)

	// UpdateTaskWith fetches the task once and submits the patch derive computes from it.
	// Nothing is written if the fetch or derive fails.
	UpdateTaskWith(ctx context.Context, ref TaskRef, derive func(model.Task) (model.TaskPatch, error)) (model.Task, error)

	DeleteTask(ctx context.Context, ref TaskRef) error

	// CompleteTask marks a task complete using the dedicated endpoint.
	CompleteTask(ctx context.Context, ref TaskRef) error

	// UncompleteTask resets status to normal, leaving every other field as fetched.
	UncompleteTask(ctx context.Context, ref TaskRef) (model.Task, error)
}

// Service is the full remote capability used by the command engine.
// Commands never talk HTTP directly.
type Service interface {
	Projects
	Tasks
}
