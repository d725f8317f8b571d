package apperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCodeOf_Wrapped(t *testing.T) {
	base := New(NotFound, "task %s not found", "t1")
	err := fmt.Errorf("update: %w", base)

	if got := CodeOf(err); got != NotFound {
		t.Errorf("expected %s, got %s", NotFound, got)
	}
	if !Is(err, NotFound) {
		t.Error("expected Is(err, NotFound)")
	}
	if Is(err, AuthExpired) {
		t.Error("did not expect Is(err, AuthExpired)")
	}
}

func TestCodeOf_Unclassified(t *testing.T) {
	if got := CodeOf(errors.New("boom")); got != ServerError {
		t.Errorf("expected %s, got %s", ServerError, got)
	}
	if got := CodeOf(nil); got != "" {
		t.Errorf("expected empty code for nil, got %s", got)
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(NetworkError, cause, "GET /project")

	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable")
	}
	if err.Error() != "GET /project: connection refused" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestWithDetail(t *testing.T) {
	err := New(RateLimited, "slow down").WithDetail("retryAfterSeconds", 30)
	if err.Details["retryAfterSeconds"] != 30 {
		t.Errorf("expected detail to be set, got %v", err.Details)
	}
}

func TestCodes_ScreamingSnakeCase(t *testing.T) {
	seen := make(map[Code]bool)
	for _, c := range Codes {
		if seen[c] {
			t.Errorf("duplicate code %s", c)
		}
		seen[c] = true
		if strings.ToUpper(string(c)) != string(c) || strings.Contains(string(c), " ") {
			t.Errorf("code %q is not SCREAMING_SNAKE_CASE", c)
		}
	}
}
