package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is a task completion status as encoded by the API.
type Status int

const (
	StatusNormal   Status = 0
	StatusComplete Status = 2
)

// Valid reports whether s is one of the defined ordinals.
func (s Status) Valid() bool {
	return s == StatusNormal || s == StatusComplete
}

// IsComplete reports whether s is StatusComplete.
func (s Status) IsComplete() bool { return s == StatusComplete }

func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "incomplete"
	case StatusComplete:
		return "complete"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ParseStatus accepts complete/completed/done or incomplete/normal/open.
func ParseStatus(v string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "complete", "completed", "done", "2":
		return StatusComplete, nil
	case "incomplete", "normal", "open", "0":
		return StatusNormal, nil
	}
	return StatusNormal, fmt.Errorf("invalid status: %s (must be complete or incomplete)", v)
}

// MarshalJSON encodes the ordinal. Undefined ordinals are an error.
func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status value %d", int(s))
	}
	return json.Marshal(int(s))
}

// UnmarshalJSON decodes the ordinal. Undefined ordinals are an error.
func (s *Status) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid status %s: %w", data, err)
	}
	v := Status(n)
	if !v.Valid() {
		return fmt.Errorf("invalid status value %d", n)
	}
	*s = v
	return nil
}
