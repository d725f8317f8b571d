// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"tick/internal/apperr"
	"tick/internal/model"
	"tick/internal/service"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = apperr.New(apperr.NotFound, "not found")

// FakeService is an in-memory implementation of service.Service for testing.
// The Inbox always exists and is listed first.
type FakeService struct {
	mu       sync.RWMutex
	projects []model.Project
	tasks    map[string][]model.Task // projectID -> tasks
	nextID   int

	// Calls records every method invocation in order, e.g. "UpdateTask p1/t1".
	// Updates that reach the write step also record "SubmitTask p1/t1" or "SubmitProject p1".
	Calls []string

	// Error injection for testing
	ListProjectsErr   error
	GetProjectErr     error
	CreateProjectErr  error
	UpdateProjectErr  error
	DeleteProjectErr  error
	ListTasksErr      map[string]error // projectID -> error
	GetTaskErr        error
	CreateTaskErr     error
	UpdateTaskErr     error
	DeleteTaskErr     error
	CompleteTaskErr   error
	UncompleteTaskErr error
}

var _ service.Service = (*FakeService)(nil)

// NewFakeService creates a new FakeService holding only the Inbox.
func NewFakeService() *FakeService {
	return &FakeService{
		tasks:        map[string][]model.Task{model.InboxProjectID: nil},
		ListTasksErr: make(map[string]error),
	}
}

func (f *FakeService) record(format string, args ...any) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

func (f *FakeService) newID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

// AddProject adds a project to the fake service.
func (f *FakeService) AddProject(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects = append(f.projects, model.Project{ID: id, Name: name, ViewMode: model.ViewList, Kind: model.KindTask})
	if _, ok := f.tasks[id]; !ok {
		f.tasks[id] = nil
	}
}

// AddTask stores t as-is under its project.
func (f *FakeService) AddTask(t model.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[t.ProjectID] = append(f.tasks[t.ProjectID], t.Clone())
}

// Task returns the stored copy of a task, for assertions.
func (f *FakeService) Task(projectID, taskID string) (model.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks[projectID] {
		if t.ID == taskID {
			return t.Clone(), true
		}
	}
	return model.Task{}, false
}

// CallCount returns how many recorded calls start with prefix.
func (f *FakeService) CallCount(prefix string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, c := range f.Calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (f *FakeService) findProject(id string) (int, bool) {
	for i, p := range f.projects {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (f *FakeService) findTask(ref service.TaskRef) (int, bool) {
	for i, t := range f.tasks[ref.ProjectID] {
		if t.ID == ref.TaskID {
			return i, true
		}
	}
	return -1, false
}

// ListProjects implements service.Service.
func (f *FakeService) ListProjects(ctx context.Context) ([]model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListProjects")
	if f.ListProjectsErr != nil {
		return nil, f.ListProjectsErr
	}
	result := append([]model.Project{model.InboxProject()}, f.projects...)
	return result, nil
}

// GetProject implements service.Service.
func (f *FakeService) GetProject(ctx context.Context, id string) (model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetProject %s", id)
	if model.IsInboxID(id) {
		return model.InboxProject(), nil
	}
	if f.GetProjectErr != nil {
		return model.Project{}, f.GetProjectErr
	}
	i, ok := f.findProject(id)
	if !ok {
		return model.Project{}, ErrNotFound
	}
	return f.projects[i], nil
}

// GetProjectData implements service.Service.
func (f *FakeService) GetProjectData(ctx context.Context, id string) (model.ProjectData, error) {
	p, err := f.GetProject(ctx, id)
	if err != nil {
		return model.ProjectData{}, err
	}
	tasks, err := f.ListTasks(ctx, id)
	if err != nil {
		return model.ProjectData{}, err
	}
	return model.ProjectData{Project: p, Tasks: tasks, Columns: []model.Column{}}, nil
}

// CreateProject implements service.Service.
func (f *FakeService) CreateProject(ctx context.Context, p model.Project) (model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateProject %s", p.Name)
	if f.CreateProjectErr != nil {
		return model.Project{}, f.CreateProjectErr
	}
	p.ID = f.newID("proj")
	f.projects = append(f.projects, p)
	f.tasks[p.ID] = nil
	return p, nil
}

// UpdateProject implements service.Service.
func (f *FakeService) UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateProject %s", id)
	return f.updateProject(id, func(model.Project) (model.ProjectPatch, error) { return patch, nil })
}

// UpdateProjectWith implements service.Service.
func (f *FakeService) UpdateProjectWith(ctx context.Context, id string, derive func(model.Project) (model.ProjectPatch, error)) (model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateProjectWith %s", id)
	return f.updateProject(id, derive)
}

func (f *FakeService) updateProject(id string, derive func(model.Project) (model.ProjectPatch, error)) (model.Project, error) {
	if model.IsInboxID(id) {
		return model.Project{}, apperr.New(apperr.InvalidRequest, "cannot update the Inbox")
	}
	if f.UpdateProjectErr != nil {
		return model.Project{}, f.UpdateProjectErr
	}
	i, ok := f.findProject(id)
	if !ok {
		return model.Project{}, ErrNotFound
	}
	patch, err := derive(f.projects[i])
	if err != nil {
		return model.Project{}, err
	}
	f.record("SubmitProject %s", id)
	f.projects[i] = patch.Apply(f.projects[i])
	return f.projects[i], nil
}

// DeleteProject implements service.Service.
func (f *FakeService) DeleteProject(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteProject %s", id)
	if model.IsInboxID(id) {
		return apperr.New(apperr.InvalidRequest, "cannot delete the Inbox")
	}
	if f.DeleteProjectErr != nil {
		return f.DeleteProjectErr
	}
	i, ok := f.findProject(id)
	if !ok {
		return ErrNotFound
	}
	f.projects = append(f.projects[:i], f.projects[i+1:]...)
	delete(f.tasks, id)
	return nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListTasks %s", projectID)
	if err, ok := f.ListTasksErr[projectID]; ok && err != nil {
		return nil, err
	}
	tasks, ok := f.tasks[projectID]
	if !ok {
		return nil, ErrNotFound
	}
	result := make([]model.Task, len(tasks))
	for i, t := range tasks {
		result[i] = t.Clone()
	}
	return result, nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, ref service.TaskRef) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetTask %s/%s", ref.ProjectID, ref.TaskID)
	if f.GetTaskErr != nil {
		return model.Task{}, f.GetTaskErr
	}
	i, ok := f.findTask(ref)
	if !ok {
		return model.Task{}, ErrNotFound
	}
	return f.tasks[ref.ProjectID][i].Clone(), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTask %s", t.Title)
	if f.CreateTaskErr != nil {
		return model.Task{}, f.CreateTaskErr
	}
	if _, ok := f.tasks[t.ProjectID]; !ok {
		return model.Task{}, ErrNotFound
	}
	t.ID = f.newID("task")
	f.tasks[t.ProjectID] = append(f.tasks[t.ProjectID], t.Clone())
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, ref service.TaskRef, patch model.TaskPatch) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateTask %s/%s", ref.ProjectID, ref.TaskID)
	return f.updateTask(ref, func(model.Task) (model.TaskPatch, error) { return patch, nil })
}

// UpdateTaskWith implements service.Service. GetTaskErr fails it like the fetch it stands for.
func (f *FakeService) UpdateTaskWith(ctx context.Context, ref service.TaskRef, derive func(model.Task) (model.TaskPatch, error)) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateTaskWith %s/%s", ref.ProjectID, ref.TaskID)
	if f.GetTaskErr != nil {
		return model.Task{}, f.GetTaskErr
	}
	return f.updateTask(ref, derive)
}

func (f *FakeService) updateTask(ref service.TaskRef, derive func(model.Task) (model.TaskPatch, error)) (model.Task, error) {
	if f.UpdateTaskErr != nil {
		return model.Task{}, f.UpdateTaskErr
	}
	i, ok := f.findTask(ref)
	if !ok {
		return model.Task{}, ErrNotFound
	}
	patch, err := derive(f.tasks[ref.ProjectID][i].Clone())
	if err != nil {
		return model.Task{}, err
	}
	f.record("SubmitTask %s/%s", ref.ProjectID, ref.TaskID)
	updated := patch.Apply(f.tasks[ref.ProjectID][i])
	// The server assigns ids to new checklist items.
	for j := range updated.Items {
		if updated.Items[j].ID == "" {
			updated.Items[j].ID = f.newID("item")
		}
	}
	f.tasks[ref.ProjectID][i] = updated
	return updated.Clone(), nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, ref service.TaskRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTask %s/%s", ref.ProjectID, ref.TaskID)
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	i, ok := f.findTask(ref)
	if !ok {
		return ErrNotFound
	}
	tasks := f.tasks[ref.ProjectID]
	f.tasks[ref.ProjectID] = append(tasks[:i], tasks[i+1:]...)
	return nil
}

// CompleteTask implements service.Service.
func (f *FakeService) CompleteTask(ctx context.Context, ref service.TaskRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CompleteTask %s/%s", ref.ProjectID, ref.TaskID)
	if f.CompleteTaskErr != nil {
		return f.CompleteTaskErr
	}
	i, ok := f.findTask(ref)
	if !ok {
		return ErrNotFound
	}
	f.tasks[ref.ProjectID][i].Status = model.StatusComplete
	return nil
}

// UncompleteTask implements service.Service.
func (f *FakeService) UncompleteTask(ctx context.Context, ref service.TaskRef) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UncompleteTask %s/%s", ref.ProjectID, ref.TaskID)
	if f.UncompleteTaskErr != nil {
		return model.Task{}, f.UncompleteTaskErr
	}
	i, ok := f.findTask(ref)
	if !ok {
		return model.Task{}, ErrNotFound
	}
	f.tasks[ref.ProjectID][i].Status = model.StatusNormal
	return f.tasks[ref.ProjectID][i].Clone(), nil
}
