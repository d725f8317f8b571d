// Package ticktick implements the service.Service interface using the TickTick Open API.
package ticktick

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"tick/internal/apperr"
	"tick/internal/model"
	"tick/internal/service"
)

// Client implements service.Service over a Transport.
type Client struct {
	tr  *Transport
	log *zap.Logger
}

var _ service.Service = (*Client)(nil)

// New creates a client for the production API. token may be nil, in which case
// every remote operation fails with AUTH_REQUIRED.
func New(token *oauth2.Token, log *zap.Logger) *Client {
	return NewWithHTTPClient(&http.Client{}, DefaultBaseURL, token, log)
}

// NewWithHTTPClient creates a client with a custom HTTP client and base URL (for testing).
func NewWithHTTPClient(httpClient *http.Client, baseURL string, token *oauth2.Token, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		tr: &Transport{
			BaseURL:    baseURL,
			HTTPClient: httpClient,
			Token:      token,
			Log:        log,
		},
		log: log,
	}
}

func projectPath(id string) string {
	return "/project/" + url.PathEscape(id)
}

func taskPath(ref service.TaskRef) string {
	return projectPath(ref.ProjectID) + "/task/" + url.PathEscape(ref.TaskID)
}

func inboxReadOnly(op string) error {
	return apperr.New(apperr.InvalidRequest, "cannot %s the Inbox", op).
		WithDetail("projectId", model.InboxProjectID)
}

// ListProjects returns all projects with the Inbox inserted at position 0.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var remote []model.Project
	if err := c.tr.Do(ctx, http.MethodGet, "/project", nil, &remote); err != nil {
		return nil, err
	}

	projects := make([]model.Project, 0, len(remote)+1)
	projects = append(projects, model.InboxProject())
	for _, p := range remote {
		if p.IsInbox() {
			continue
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// GetProject returns a project. The Inbox is synthesized locally.
func (c *Client) GetProject(ctx context.Context, id string) (model.Project, error) {
	if model.IsInboxID(id) {
		return model.InboxProject(), nil
	}
	var p model.Project
	if err := c.tr.Do(ctx, http.MethodGet, projectPath(id), nil, &p); err != nil {
		return model.Project{}, err
	}
	return p, nil
}

// GetProjectData returns a project with its tasks and columns.
func (c *Client) GetProjectData(ctx context.Context, id string) (model.ProjectData, error) {
	var data model.ProjectData
	if err := c.tr.Do(ctx, http.MethodGet, projectPath(id)+"/data", nil, &data); err != nil {
		return model.ProjectData{}, err
	}
	if model.IsInboxID(id) && data.Project.ID == "" {
		data.Project = model.InboxProject()
	}
	return data, nil
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, p model.Project) (model.Project, error) {
	var created model.Project
	if err := c.tr.Do(ctx, http.MethodPost, "/project", p, &created); err != nil {
		return model.Project{}, err
	}
	c.log.Debug("project created", zap.String("id", created.ID))
	return created, nil
}

// UpdateProject fetches the project, overlays patch and submits it.
func (c *Client) UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	return c.mergeProject(ctx, id, fixed[model.Project](patch))
}

// UpdateProjectWith fetches the project, derives a patch from it and submits the result.
func (c *Client) UpdateProjectWith(ctx context.Context, id string, derive func(model.Project) (model.ProjectPatch, error)) (model.Project, error) {
	return c.mergeProject(ctx, id, derived(derive))
}

func (c *Client) mergeProject(ctx context.Context, id string, overlay func(model.Project) (model.Project, error)) (model.Project, error) {
	if model.IsInboxID(id) {
		return model.Project{}, inboxReadOnly("update")
	}
	return mergeUpdate(ctx,
		func(ctx context.Context) (model.Project, error) { return c.GetProject(ctx, id) },
		overlay,
		func(ctx context.Context, p model.Project) (model.Project, error) {
			var updated model.Project
			if err := c.tr.Do(ctx, http.MethodPost, projectPath(id), p, &updated); err != nil {
				return model.Project{}, err
			}
			return updated, nil
		},
	)
}

// DeleteProject deletes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	if model.IsInboxID(id) {
		return inboxReadOnly("delete")
	}
	return c.tr.Do(ctx, http.MethodDelete, projectPath(id), nil, nil)
}

// ListTasks returns the tasks of a project. Columns are dropped.
func (c *Client) ListTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	data, err := c.GetProjectData(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if data.Tasks == nil {
		return []model.Task{}, nil
	}
	return data.Tasks, nil
}

// GetTask returns a single task.
func (c *Client) GetTask(ctx context.Context, ref service.TaskRef) (model.Task, error) {
	var t model.Task
	if err := c.tr.Do(ctx, http.MethodGet, taskPath(ref), nil, &t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	var created model.Task
	if err := c.tr.Do(ctx, http.MethodPost, "/task", t, &created); err != nil {
		return model.Task{}, err
	}
	c.log.Debug("task created", zap.String("id", created.ID), zap.String("projectId", created.ProjectID))
	return created, nil
}

// UpdateTask fetches the task, overlays patch and submits the full task.
func (c *Client) UpdateTask(ctx context.Context, ref service.TaskRef, patch model.TaskPatch) (model.Task, error) {
	return c.mergeTask(ctx, ref, fixed[model.Task](patch))
}

// UpdateTaskWith fetches the task once, derives a patch from it and submits the
// full task. Nothing is written if the fetch or derive fails.
func (c *Client) UpdateTaskWith(ctx context.Context, ref service.TaskRef, derive func(model.Task) (model.TaskPatch, error)) (model.Task, error) {
	return c.mergeTask(ctx, ref, derived(derive))
}

// UncompleteTask resets the status to normal. Every other field is submitted as fetched.
func (c *Client) UncompleteTask(ctx context.Context, ref service.TaskRef) (model.Task, error) {
	normal := model.StatusNormal
	return c.mergeTask(ctx, ref, fixed[model.Task](model.TaskPatch{Status: &normal}))
}

func (c *Client) mergeTask(ctx context.Context, ref service.TaskRef, overlay func(model.Task) (model.Task, error)) (model.Task, error) {
	return mergeUpdate(ctx,
		func(ctx context.Context) (model.Task, error) { return c.GetTask(ctx, ref) },
		overlay,
		func(ctx context.Context, t model.Task) (model.Task, error) {
			if t.ID == "" {
				t.ID = ref.TaskID
			}
			if t.ProjectID == "" {
				t.ProjectID = ref.ProjectID
			}
			var updated model.Task
			if err := c.tr.Do(ctx, http.MethodPost, "/task/"+url.PathEscape(ref.TaskID), t, &updated); err != nil {
				return model.Task{}, err
			}
			return updated, nil
		},
	)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, ref service.TaskRef) error {
	return c.tr.Do(ctx, http.MethodDelete, taskPath(ref), nil, nil)
}

// CompleteTask marks a task complete.
func (c *Client) CompleteTask(ctx context.Context, ref service.TaskRef) error {
	return c.tr.Do(ctx, http.MethodPost, taskPath(ref)+"/complete", nil, nil)
}
