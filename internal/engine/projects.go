package engine

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"tick/internal/apperr"
	"tick/internal/model"
	"tick/internal/output"
	"tick/internal/validation"
)

// ProjectCreate is the input of CreateProject.
type ProjectCreate struct {
	Name     string
	Color    string
	ViewMode string
	Kind     string
}

// ProjectUpdate is the input of UpdateProject. Nil fields are left unchanged.
type ProjectUpdate struct {
	Name     *string
	Color    *string
	Closed   *bool
	ViewMode *string
	Kind     *string
}

// ListProjects lists all projects, Inbox first.
func (e *Engine) ListProjects(ctx context.Context) output.Result {
	projects, err := e.svc.ListProjects(ctx)
	if err != nil {
		return output.FromError(err)
	}
	return output.OK(output.ProjectList{Projects: projects}, "")
}

// ShowProject shows one project.
func (e *Engine) ShowProject(ctx context.Context, id string) output.Result {
	p, err := e.svc.GetProject(ctx, strings.TrimSpace(id))
	if err != nil {
		return output.FromError(err)
	}
	return output.OK(output.ProjectView{Project: p}, "")
}

// UseProject makes the project matching nameOrID the default.
func (e *Engine) UseProject(ctx context.Context, nameOrID string) output.Result {
	nameOrID = strings.TrimSpace(nameOrID)
	if nameOrID == "" {
		return output.FromError(apperr.New(apperr.InvalidRequest, "project name or id is required"))
	}
	p, err := e.findProject(ctx, nameOrID)
	if err != nil {
		return output.FromError(err)
	}

	s, err := e.settings.LoadSettings()
	if err != nil {
		return output.FromError(err)
	}
	s.DefaultProjectID = p.ID
	if err := e.settings.SaveSettings(s); err != nil {
		return output.FromError(err)
	}
	e.log.Debug("default project set", zap.String("id", p.ID))
	return output.OK(output.DefaultProject{Project: p, Default: true}, "Default project set to "+p.Name)
}

// CreateProject creates a project, applying the configured default color.
func (e *Engine) CreateProject(ctx context.Context, in ProjectCreate) output.Result {
	in.Name = validation.SanitizeText(in.Name)
	if err := validation.Struct(validation.ProjectInput{
		Name: in.Name, Color: in.Color, ViewMode: in.ViewMode, Kind: in.Kind,
	}); err != nil {
		return output.FromError(err)
	}

	p := model.Project{
		Name:     in.Name,
		Color:    in.Color,
		ViewMode: model.ViewMode(in.ViewMode),
		Kind:     model.ParseKind(in.Kind),
	}
	if p.Color == "" {
		s, err := e.settings.LoadSettings()
		if err != nil {
			return output.FromError(err)
		}
		p.Color = s.DefaultProjectColor
	}
	if p.ViewMode == "" {
		p.ViewMode = model.ViewList
	}
	if p.Kind == "" {
		p.Kind = model.KindTask
	}

	created, err := e.svc.CreateProject(ctx, p)
	if err != nil {
		return output.FromError(err)
	}
	return output.OK(output.ProjectView{Project: created}, "Project created")
}

// UpdateProject merge-updates a project.
func (e *Engine) UpdateProject(ctx context.Context, id string, in ProjectUpdate) output.Result {
	id = strings.TrimSpace(id)
	if model.IsInboxID(id) {
		return output.FromError(apperr.New(apperr.InvalidRequest, "cannot update the Inbox"))
	}

	check := validation.ProjectInput{Partial: true}
	var patch model.ProjectPatch
	if in.Name != nil {
		name := validation.SanitizeText(*in.Name)
		if name == "" {
			return output.FromError(apperr.New(apperr.InvalidRequest, "project name cannot be empty").
				WithDetail("name", "is required"))
		}
		check.Name, patch.Name = name, &name
	}
	if in.Color != nil {
		check.Color, patch.Color = *in.Color, in.Color
	}
	if in.ViewMode != nil {
		vm := model.ViewMode(*in.ViewMode)
		check.ViewMode, patch.ViewMode = *in.ViewMode, &vm
	}
	if in.Kind != nil {
		k := model.ParseKind(*in.Kind)
		check.Kind, patch.Kind = *in.Kind, &k
	}
	patch.Closed = in.Closed
	if err := validation.Struct(check); err != nil {
		return output.FromError(err)
	}
	if patch.IsEmpty() {
		return output.FromError(apperr.New(apperr.InvalidRequest, "nothing to update (pass at least one field)"))
	}

	updated, err := projectResource{e.svc}.Update(ctx, id, patch)
	if err != nil {
		return output.FromError(err)
	}
	return output.OK(output.ProjectView{Project: updated}, "Project updated")
}

// DeleteProject deletes a project and clears it as the default if it was one.
func (e *Engine) DeleteProject(ctx context.Context, id string) output.Result {
	id = strings.TrimSpace(id)
	err := e.svc.DeleteProject(ctx, id)
	if err == nil || apperr.Is(err, apperr.NotFound) {
		if cerr := e.clearDefault(id); cerr != nil {
			return output.FromError(cerr)
		}
	}
	return deleted("project", id, err)
}

func (e *Engine) clearDefault(id string) error {
	s, err := e.settings.LoadSettings()
	if err != nil {
		return err
	}
	if s.DefaultProjectID != id {
		return nil
	}
	s.DefaultProjectID = ""
	return e.settings.SaveSettings(s)
}
