// Package engine turns validated command invocations into service calls and
// Result envelopes. It never touches HTTP directly.
package engine

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"tick/internal/apperr"
	"tick/internal/config"
	"tick/internal/model"
	"tick/internal/output"
	"tick/internal/service"
)

// SettingsStore persists the default-project pointer.
type SettingsStore interface {
	LoadSettings() (config.Settings, error)
	SaveSettings(config.Settings) error
}

// Engine executes commands against a Service.
type Engine struct {
	svc      service.Service
	settings SettingsStore
	log      *zap.Logger

	// Now is the clock used for completion timestamps and relative dates.
	Now func() time.Time
}

// New creates an Engine.
func New(svc service.Service, settings SettingsStore, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{svc: svc, settings: settings, log: log, Now: time.Now}
}

// ProjectSelector names a project by id or by name. Both empty means the default.
type ProjectSelector struct {
	ID   string
	Name string
}

// ResolveProject returns the project id to operate on: the explicit id, else the
// project matching Name, else the configured default. NO_PROJECT if none applies.
func (e *Engine) ResolveProject(ctx context.Context, sel ProjectSelector) (string, error) {
	if id := strings.TrimSpace(sel.ID); id != "" {
		return id, nil
	}
	if name := strings.TrimSpace(sel.Name); name != "" {
		p, err := e.findProject(ctx, name)
		if err != nil {
			return "", err
		}
		return p.ID, nil
	}
	s, err := e.settings.LoadSettings()
	if err != nil {
		return "", err
	}
	if s.DefaultProjectID != "" {
		return s.DefaultProjectID, nil
	}
	return "", apperr.New(apperr.NoProject,
		"no project specified and no default project set (use --project-id or: tick project use <name>)")
}

// findProject matches by exact id first, then by case-insensitive name.
func (e *Engine) findProject(ctx context.Context, nameOrID string) (model.Project, error) {
	projects, err := e.svc.ListProjects(ctx)
	if err != nil {
		return model.Project{}, err
	}
	for _, p := range projects {
		if p.ID == nameOrID {
			return p, nil
		}
	}
	var matches []model.Project
	for _, p := range projects {
		if strings.EqualFold(strings.TrimSpace(p.Name), nameOrID) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return model.Project{}, apperr.New(apperr.NotFound, "project not found: %s", nameOrID).
			WithDetail("project", nameOrID)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, p := range matches {
			ids[i] = p.ID
		}
		return model.Project{}, apperr.New(apperr.InvalidRequest,
			"project name %q is ambiguous (use the id)", nameOrID).WithDetail("candidates", ids)
	}
}

// Updatable is a resource that supports merge-update with a fixed or derived patch.
type Updatable[K, T, P any] interface {
	Update(ctx context.Context, key K, patch P) (T, error)
	UpdateWith(ctx context.Context, key K, derive func(T) (P, error)) (T, error)
}

// updateFrom derives a patch from the current value and submits it in one
// fetch-then-submit exchange. Nothing is written if the fetch or the derivation fails.
func updateFrom[K, T, P any](ctx context.Context, r Updatable[K, T, P], key K, derive func(T) (P, error)) (T, error) {
	return r.UpdateWith(ctx, key, derive)
}

type projectResource struct{ svc service.Projects }

func (r projectResource) Update(ctx context.Context, id string, p model.ProjectPatch) (model.Project, error) {
	return r.svc.UpdateProject(ctx, id, p)
}

func (r projectResource) UpdateWith(ctx context.Context, id string, derive func(model.Project) (model.ProjectPatch, error)) (model.Project, error) {
	return r.svc.UpdateProjectWith(ctx, id, derive)
}

type taskResource struct{ svc service.Tasks }

func (r taskResource) Update(ctx context.Context, ref service.TaskRef, p model.TaskPatch) (model.Task, error) {
	return r.svc.UpdateTask(ctx, ref, p)
}

func (r taskResource) UpdateWith(ctx context.Context, ref service.TaskRef, derive func(model.Task) (model.TaskPatch, error)) (model.Task, error) {
	return r.svc.UpdateTaskWith(ctx, ref, derive)
}

// deleted renders a delete outcome. An already-absent resource is a success.
func deleted(kind, id string, err error) output.Result {
	switch {
	case err == nil:
		return output.OK(output.Deleted{Kind: kind, ID: id}, titleCase(kind)+" deleted")
	case apperr.Is(err, apperr.NotFound):
		return output.OK(output.Deleted{Kind: kind, ID: id, AlreadyDeleted: true},
			titleCase(kind)+" "+id+" was already deleted")
	default:
		return output.FromError(err)
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
