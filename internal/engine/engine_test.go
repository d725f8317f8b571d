package engine_test

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"tick/internal/apperr"
	"tick/internal/config"
	"tick/internal/engine"
	"tick/internal/model"
	"tick/internal/output"
	"tick/internal/testutil"
)

func newEngine(t *testing.T) (*engine.Engine, *testutil.FakeService, *config.Config) {
	t.Helper()
	cfg, err := config.New(filepath.Join(t.TempDir(), "tick"))
	if err != nil {
		t.Fatal(err)
	}
	svc := testutil.NewFakeService()
	e := engine.New(svc, cfg, nil)
	e.Now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return e, svc, cfg
}

func expectCode(t *testing.T, r output.Result, code apperr.Code) {
	t.Helper()
	if r.Success {
		t.Fatalf("expected %s, got success %+v", code, r.Data)
	}
	if r.Code() != code {
		t.Fatalf("expected %s, got %s (%s)", code, r.Code(), r.Error.Message)
	}
}

func expectOK(t *testing.T, r output.Result) {
	t.Helper()
	if !r.Success {
		t.Fatalf("expected success, got %s: %s", r.Error.Code, r.Error.Message)
	}
}

func TestResolveProject(t *testing.T) {
	e, svc, cfg := newEngine(t)
	svc.AddProject("p1", "Work")
	ctx := context.Background()

	if _, err := e.ResolveProject(ctx, engine.ProjectSelector{}); !apperr.Is(err, apperr.NoProject) {
		t.Errorf("expected NO_PROJECT on cold start, got %v", err)
	}

	id, err := e.ResolveProject(ctx, engine.ProjectSelector{ID: "explicit"})
	if err != nil || id != "explicit" {
		t.Errorf("expected explicit id, got %q %v", id, err)
	}

	id, err = e.ResolveProject(ctx, engine.ProjectSelector{Name: "work"})
	if err != nil || id != "p1" {
		t.Errorf("expected p1 by name, got %q %v", id, err)
	}

	if err := cfg.SaveSettings(config.Settings{DefaultProjectID: "p1", DefaultProjectColor: "#FF1111"}); err != nil {
		t.Fatal(err)
	}
	id, err = e.ResolveProject(ctx, engine.ProjectSelector{})
	if err != nil || id != "p1" {
		t.Errorf("expected default p1, got %q %v", id, err)
	}
}

func TestListTasks_NoProject(t *testing.T) {
	e, svc, _ := newEngine(t)

	r := e.ListTasks(context.Background(), engine.TaskFilter{})
	expectCode(t, r, apperr.NoProject)
	if len(svc.Calls) != 0 {
		t.Errorf("expected no service calls, got %v", svc.Calls)
	}
}

func TestListTasks_Filters(t *testing.T) {
	e, svc, _ := newEngine(t)
	svc.AddProject("p1", "Work")
	svc.AddTask(model.Task{ID: "a", ProjectID: "p1", Title: "A", Priority: model.PriorityHigh, Tags: []string{"work"}})
	svc.AddTask(model.Task{ID: "b", ProjectID: "p1", Title: "B", Priority: model.PriorityLow, Status: model.StatusComplete})
	svc.AddTask(model.Task{ID: "c", ProjectID: "p1", Title: "C", Priority: model.PriorityHigh, Tags: []string{"Home"}})

	high := model.PriorityHigh
	complete := model.StatusComplete
	open := model.StatusNormal
	sel := engine.ProjectSelector{ID: "p1"}

	tests := []struct {
		name   string
		filter engine.TaskFilter
		want   []string
	}{
		{"all", engine.TaskFilter{Project: sel}, []string{"a", "b", "c"}},
		{"priority", engine.TaskFilter{Project: sel, Priority: &high}, []string{"a", "c"}},
		{"tag case-insensitive", engine.TaskFilter{Project: sel, Tag: "home"}, []string{"c"}},
		{"complete", engine.TaskFilter{Project: sel, Status: &complete}, []string{"b"}},
		{"incomplete high", engine.TaskFilter{Project: sel, Status: &open, Priority: &high}, []string{"a", "c"}},
		{"no match", engine.TaskFilter{Project: sel, Tag: "none"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.ListTasks(context.Background(), tt.filter)
			expectOK(t, r)
			list, ok := r.Data.(output.TaskList)
			if !ok {
				t.Fatalf("expected TaskList, got %T", r.Data)
			}
			if list.Count != len(tt.want) || len(list.Tasks) != len(tt.want) {
				t.Fatalf("expected %d tasks, got count=%d len=%d", len(tt.want), list.Count, len(list.Tasks))
			}
			for i, id := range tt.want {
				if list.Tasks[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, list.Tasks[i].ID)
				}
			}
		})
	}
}

func TestListTasks_ServiceErrorPropagates(t *testing.T) {
	e, svc, _ := newEngine(t)
	svc.ListTasksErr["p1"] = apperr.New(apperr.AuthExpired, "token expired")

	r := e.ListTasks(context.Background(), engine.TaskFilter{Project: engine.ProjectSelector{ID: "p1"}})
	expectCode(t, r, apperr.AuthExpired)
}

func TestListProjects_InboxFirst(t *testing.T) {
	e, svc, _ := newEngine(t)
	svc.AddProject("p1", "Work")

	r := e.ListProjects(context.Background())
	expectOK(t, r)
	list := r.Data.(output.ProjectList)
	if len(list.Projects) != 2 || !list.Projects[0].IsInbox() {
		t.Errorf("expected Inbox then Work, got %+v", list.Projects)
	}
}

func TestUseProject(t *testing.T) {
	e, svc, cfg := newEngine(t)
	svc.AddProject("p1", "Work")
	svc.AddProject("p2", "Home")

	r := e.UseProject(context.Background(), "HOME")
	expectOK(t, r)

	s, err := cfg.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if s.DefaultProjectID != "p2" {
		t.Errorf("expected default p2, got %q", s.DefaultProjectID)
	}

	r = e.UseProject(context.Background(), "inbox")
	expectOK(t, r)

	r = e.UseProject(context.Background(), "Garden")
	expectCode(t, r, apperr.NotFound)
}

func TestUseProject_Ambiguous(t *testing.T) {
	e, svc, _ := newEngine(t)
	svc.AddProject("p1", "Work")
	svc.AddProject("p2", "work")

	r := e.UseProject(context.Background(), "Work")
	expectCode(t, r, apperr.InvalidRequest)
	if r.Error.Details["candidates"] == nil {
		t.Error("expected candidates in details")
	}
}

func TestCreateProject_DefaultColor(t *testing.T) {
	e, svc, _ := newEngine(t)

	r := e.CreateProject(context.Background(), engine.ProjectCreate{Name: "Garden"})
	expectOK(t, r)
	p := r.Data.(output.ProjectView).Project
	if p.Color != model.DefaultProjectColor {
		t.Errorf("expected default color, got %q", p.Color)
	}
	if p.ViewMode != model.ViewList || p.Kind != model.KindTask {
		t.Errorf("expected list/TASK defaults, got %s/%s", p.ViewMode, p.Kind)
	}
	if svc.CallCount("CreateProject") != 1 {
		t.Errorf("expected one create call, got %v", svc.Calls)
	}
}

func TestCreateProject_Invalid(t *testing.T) {
	e, svc, _ := newEngine(t)

	r := e.CreateProject(context.Background(), engine.ProjectCreate{Name: "X", Color: "blue"})
	expectCode(t, r, apperr.InvalidRequest)
	if r.Error.Details["color"] == nil {
		t.Errorf("expected color detail, got %v", r.Error.Details)
	}
	if len(svc.Calls) != 0 {
		t.Errorf("invalid input must not reach the service, got %v", svc.Calls)
	}
}

func TestUpdateProject(t *testing.T) {
	e, svc, _ := newEngine(t)
	svc.AddProject("p1", "Work")

	closed := true
	r := e.UpdateProject(context.Background(), "p1", engine.ProjectUpdate{Closed: &closed})
	expectOK(t, r)
	p := r.Data.(output.ProjectView).Project
	if !p.Closed || p.Name != "Work" {
		t.Errorf("unexpected project %+v", p)
	}

	r = e.UpdateProject(context.Background(), "p1", engine.ProjectUpdate{})
	expectCode(t, r, apperr.InvalidRequest)

	name := "Office"
	r = e.UpdateProject(context.Background(), "inbox", engine.ProjectUpdate{Name: &name})
	expectCode(t, r, apperr.InvalidRequest)
}

func TestDeleteProject_ClearsDefault(t *testing.T) {
	e, svc, cfg := newEngine(t)
	svc.AddProject("p1", "Work")
	if err := cfg.SaveSettings(config.Settings{DefaultProjectID: "p1", DefaultProjectColor: "#FF1111"}); err != nil {
		t.Fatal(err)
	}

	r := e.DeleteProject(context.Background(), "p1")
	expectOK(t, r)

	s, _ := cfg.LoadSettings()
	if s.DefaultProjectID != "" {
		t.Errorf("expected default cleared, got %q", s.DefaultProjectID)
	}
}

func TestDeleteTask_AlreadyDeleted(t *testing.T) {
	e, _, _ := newEngine(t)

	r := e.DeleteTask(context.Background(), engine.ProjectSelector{ID: "inbox"}, "gone")
	expectOK(t, r)
	d := r.Data.(output.Deleted)
	if !d.AlreadyDeleted || d.ID != "gone" {
		t.Errorf("expected alreadyDeleted for gone, got %+v", d)
	}
}

func TestDeleteTask_OtherErrorsFail(t *testing.T) {
	e, svc, _ := newEngine(t)
	svc.DeleteTaskErr = apperr.New(apperr.ServerError, "server error (500)")

	r := e.DeleteTask(context.Background(), engine.ProjectSelector{ID: "inbox"}, "t1")
	expectCode(t, r, apperr.ServerError)
}

func TestCreateTask(t *testing.T) {
	e, svc, _ := newEngine(t)

	r := e.CreateTask(context.Background(), engine.TaskCreate{
		Project:  engine.ProjectSelector{ID: "inbox"},
		Title:    "  Buy milk ",
		Priority: model.PriorityMedium,
		Tags:     []string{"errand"},
	})
	expectOK(t, r)
	created := r.Data.(output.TaskView).Task
	stored, ok := svc.Task("inbox", created.ID)
	if !ok {
		t.Fatalf("task %s not stored", created.ID)
	}
	if stored.Title != "Buy milk" || stored.Priority != model.PriorityMedium {
		t.Errorf("unexpected stored task %+v", stored)
	}
}

func TestCreateTask_InvalidPriority(t *testing.T) {
	e, svc, _ := newEngine(t)

	r := e.CreateTask(context.Background(), engine.TaskCreate{
		Project:  engine.ProjectSelector{ID: "inbox"},
		Title:    "x",
		Priority: model.Priority(4),
	})
	expectCode(t, r, apperr.InvalidRequest)
	if svc.CallCount("CreateTask") != 0 {
		t.Error("invalid input must not reach the service")
	}
}

func TestUpdateTask_PriorityPreservesFields(t *testing.T) {
	e, svc, _ := newEngine(t)
	svc.AddTask(model.Task{ID: "t1", ProjectID: "inbox", Title: "Report", Content: "numbers", Tags: []string{"work"}})

	high := model.PriorityHigh
	r := e.UpdateTask(context.Background(), engine.ProjectSelector{ID: "inbox"}, "t1", model.TaskPatch{Priority: &high})
	expectOK(t, r)

	stored, _ := svc.Task("inbox", "t1")
	if stored.Priority != model.PriorityHigh {
		t.Errorf("expected high priority, got %s", stored.Priority)
	}
	if stored.Title != "Report" || stored.Content != "numbers" || !stored.HasTag("work") {
		t.Errorf("update dropped fields: %+v", stored)
	}
}

func TestUpdateTask_EmptyPatch(t *testing.T) {
	e, svc, _ := newEngine(t)

	r := e.UpdateTask(context.Background(), engine.ProjectSelector{ID: "inbox"}, "t1", model.TaskPatch{})
	expectCode(t, r, apperr.InvalidRequest)
	if svc.CallCount("UpdateTask") != 0 {
		t.Error("empty patch must not reach the service")
	}
}

func TestCompleteAndUncompleteTask(t *testing.T) {
	e, svc, _ := newEngine(t)
	svc.AddTask(model.Task{ID: "t1", ProjectID: "inbox", Title: "Report", Priority: model.PriorityLow})
	sel := engine.ProjectSelector{ID: "inbox"}

	expectOK(t, e.CompleteTask(context.Background(), sel, "t1"))
	stored, _ := svc.Task("inbox", "t1")
	if !stored.IsComplete() {
		t.Fatal("expected complete task")
	}

	r := e.UncompleteTask(context.Background(), sel, "t1")
	expectOK(t, r)
	stored, _ = svc.Task("inbox", "t1")
	if stored.IsComplete() || stored.Title != "Report" || stored.Priority != model.PriorityLow {
		t.Errorf("unexpected task after uncomplete %+v", stored)
	}
}

func TestCompleteTask_NotFound(t *testing.T) {
	e, _, _ := newEngine(t)
	expectCode(t, e.CompleteTask(context.Background(), engine.ProjectSelector{ID: "inbox"}, "nope"), apperr.NotFound)
}

func TestSubtasks(t *testing.T) {
	e, svc, _ := newEngine(t)
	svc.AddTask(model.Task{
		ID:        "t1",
		ProjectID: "inbox",
		Title:     "Trip",
		Items:     []model.Subtask{{ID: "s1", Title: "tickets", SortOrder: 4}},
	})
	sel := engine.ProjectSelector{ID: "inbox"}
	ctx := context.Background()

	expectOK(t, e.AddSubtask(ctx, sel, "t1", "hotel"))
	stored, _ := svc.Task("inbox", "t1")
	if len(stored.Items) != 2 || stored.Items[1].Title != "hotel" || stored.Items[1].SortOrder != 5 {
		t.Fatalf("unexpected items %+v", stored.Items)
	}

	expectOK(t, e.CompleteSubtask(ctx, sel, "t1", "s1"))
	stored, _ = svc.Task("inbox", "t1")
	if !stored.Items[0].IsComplete() || stored.Items[0].CompletedTime == nil {
		t.Errorf("expected s1 completed, got %+v", stored.Items[0])
	}
	if stored.Items[1].IsComplete() {
		t.Error("other items must be untouched")
	}

	r := e.ListSubtasks(ctx, sel, "t1")
	expectOK(t, r)
	if list := r.Data.(output.SubtaskList); list.Count != 2 {
		t.Errorf("expected 2 subtasks, got %d", list.Count)
	}
}

func TestSubtaskMutations_SingleUpdateExchange(t *testing.T) {
	e, svc, _ := newEngine(t)
	svc.AddTask(model.Task{
		ID:        "t1",
		ProjectID: "inbox",
		Title:     "Trip",
		Items:     []model.Subtask{{ID: "s1", Title: "tickets"}},
	})
	sel := engine.ProjectSelector{ID: "inbox"}
	ctx := context.Background()

	expectOK(t, e.AddSubtask(ctx, sel, "t1", "hotel"))
	expectOK(t, e.CompleteSubtask(ctx, sel, "t1", "s1"))

	want := []string{
		"UpdateTaskWith inbox/t1", "SubmitTask inbox/t1",
		"UpdateTaskWith inbox/t1", "SubmitTask inbox/t1",
	}
	if !reflect.DeepEqual(svc.Calls, want) {
		t.Errorf("expected one merge-update per mutation\nexpected: %v\ngot:      %v", want, svc.Calls)
	}
}

func TestCompleteSubtask_UnknownNoWrite(t *testing.T) {
	e, svc, _ := newEngine(t)
	svc.AddTask(model.Task{ID: "t1", ProjectID: "inbox", Title: "Trip"})

	r := e.CompleteSubtask(context.Background(), engine.ProjectSelector{ID: "inbox"}, "t1", "missing")
	expectCode(t, r, apperr.NotFound)
	if svc.CallCount("SubmitTask") != 0 {
		t.Errorf("expected no write, got %v", svc.Calls)
	}
}

func TestAddSubtask_FetchFailureNoWrite(t *testing.T) {
	e, svc, _ := newEngine(t)
	svc.GetTaskErr = apperr.New(apperr.NetworkError, "request failed")

	r := e.AddSubtask(context.Background(), engine.ProjectSelector{ID: "inbox"}, "t1", "x")
	expectCode(t, r, apperr.NetworkError)
	if svc.CallCount("SubmitTask") != 0 {
		t.Errorf("expected no write, got %v", svc.Calls)
	}
}

func TestShowTask_RefRequiresID(t *testing.T) {
	e, _, _ := newEngine(t)
	expectCode(t, e.ShowTask(context.Background(), engine.ProjectSelector{ID: "inbox"}, " "), apperr.InvalidRequest)
}
