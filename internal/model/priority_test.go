package model

import (
	"encoding/json"
	"testing"
)

func TestPriority_RoundTrip(t *testing.T) {
	for _, p := range []Priority{PriorityNone, PriorityLow, PriorityMedium, PriorityHigh} {
		data, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("marshal %v: %v", p, err)
		}
		var got Priority
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if got != p {
			t.Errorf("expected %d, got %d", p, got)
		}
	}
}

func TestPriority_RejectsUndefinedOrdinals(t *testing.T) {
	for _, n := range []string{"2", "4", "6", "-1", "99"} {
		var p Priority
		if err := json.Unmarshal([]byte(n), &p); err == nil {
			t.Errorf("expected error decoding %s, got %v", n, p)
		}
	}
	if _, err := json.Marshal(Priority(2)); err == nil {
		t.Error("expected error encoding Priority(2)")
	}
}

func TestPriority_TaskDecodeFails(t *testing.T) {
	var task Task
	err := json.Unmarshal([]byte(`{"id":"t1","projectId":"p1","title":"x","priority":4}`), &task)
	if err == nil {
		t.Fatal("expected task with priority 4 to fail decoding")
	}
}

func TestParsePriority(t *testing.T) {
	cases := map[string]Priority{
		"none": PriorityNone, "0": PriorityNone,
		"low": PriorityLow, "1": PriorityLow,
		"medium": PriorityMedium, "MED": PriorityMedium, "3": PriorityMedium,
		"High": PriorityHigh, "5": PriorityHigh,
	}
	for in, want := range cases {
		got, err := ParsePriority(in)
		if err != nil {
			t.Errorf("ParsePriority(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParsePriority(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Error("expected error for 'urgent'")
	}
}

func TestStatus_Strict(t *testing.T) {
	var s Status
	if err := json.Unmarshal([]byte("2"), &s); err != nil || s != StatusComplete {
		t.Fatalf("expected complete, got %v (%v)", s, err)
	}
	if err := json.Unmarshal([]byte("1"), &s); err == nil {
		t.Error("expected error decoding status 1")
	}
	if _, err := json.Marshal(Status(7)); err == nil {
		t.Error("expected error encoding Status(7)")
	}
}
