// Package validation checks command inputs before any remote call is made.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"tick/internal/apperr"
	"tick/internal/model"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	if err := Validate.RegisterValidation("priority", validatePriority); err != nil {
		panic(fmt.Sprintf("failed to register priority validator: %v", err))
	}
	if err := Validate.RegisterValidation("view_mode", validateViewMode); err != nil {
		panic(fmt.Sprintf("failed to register view_mode validator: %v", err))
	}
	if err := Validate.RegisterValidation("project_kind", validateKind); err != nil {
		panic(fmt.Sprintf("failed to register project_kind validator: %v", err))
	}
}

// ProjectInput is the user-supplied part of a project create or update.
type ProjectInput struct {
	Name     string `json:"name" validate:"required_without=Partial,max=256"`
	Color    string `json:"color" validate:"omitempty,hexcolor"`
	ViewMode string `json:"viewMode" validate:"omitempty,view_mode"`
	Kind     string `json:"kind" validate:"omitempty,project_kind"`

	// Partial marks an update, where every field is optional.
	Partial bool `json:"-"`
}

// TaskInput is the user-supplied part of a task create or update.
type TaskInput struct {
	Title     string   `json:"title" validate:"required_without=Partial,max=1024"`
	ProjectID string   `json:"projectId" validate:"required"`
	Priority  int      `json:"priority" validate:"priority"`
	Tags      []string `json:"tags" validate:"dive,required,excludesall=0x2C"`
	TimeZone  string   `json:"timeZone" validate:"omitempty,timezone"`

	Partial bool `json:"-"`
}

// SubtaskInput is a new checklist item.
type SubtaskInput struct {
	TaskID string `json:"taskId" validate:"required"`
	Title  string `json:"title" validate:"required,max=1024"`
}

func validatePriority(fl validator.FieldLevel) bool {
	return model.Priority(fl.Field().Int()).Valid()
}

func validateViewMode(fl validator.FieldLevel) bool {
	switch model.ViewMode(fl.Field().String()) {
	case model.ViewList, model.ViewKanban, model.ViewTimeline:
		return true
	default:
		return false
	}
}

func validateKind(fl validator.FieldLevel) bool {
	switch model.ParseKind(fl.Field().String()) {
	case model.KindTask, model.KindNote:
		return true
	default:
		return false
	}
}

// Struct validates v and converts failures into an INVALID_REQUEST error
// whose details map each offending field to the rule it broke.
func Struct(v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.InvalidRequest, err, "invalid input")
	}

	details := make(map[string]any, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		details[field] = describe(fe)
		msgs = append(msgs, field+" "+describe(fe))
	}
	e := apperr.New(apperr.InvalidRequest, "invalid input: %s", strings.Join(msgs, "; "))
	e.Details = details
	return e
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "hexcolor":
		return "must be a hex color like #FF1111"
	case "view_mode":
		return "must be list, kanban or timeline"
	case "project_kind":
		return "must be TASK or NOTE"
	case "priority":
		return "must be none, low, medium or high"
	case "timezone":
		return "must be an IANA time zone"
	case "max":
		return "is too long (max " + fe.Param() + ")"
	case "excludesall":
		return "must not contain commas"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

// SanitizeText trims whitespace and removes control characters except newline and tab.
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}
	return sanitized.String()
}

// SplitTags parses a comma-separated tag list, dropping empty entries.
func SplitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = SanitizeText(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
