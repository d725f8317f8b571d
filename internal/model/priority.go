package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Priority is a task priority as encoded by the API. The ordinals are not contiguous.
type Priority int

const (
	PriorityNone   Priority = 0
	PriorityLow    Priority = 1
	PriorityMedium Priority = 3
	PriorityHigh   Priority = 5
)

// Valid reports whether p is one of the defined ordinals.
func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (p Priority) String() string {
	switch p {
	case PriorityNone:
		return "none"
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// ParsePriority accepts a name (none, low, medium/med, high) or an ordinal (0, 1, 3, 5).
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "0":
		return PriorityNone, nil
	case "low", "1":
		return PriorityLow, nil
	case "medium", "med", "3":
		return PriorityMedium, nil
	case "high", "5":
		return PriorityHigh, nil
	}
	return PriorityNone, fmt.Errorf("invalid priority: %s (must be none, low, medium or high)", s)
}

// MarshalJSON encodes the ordinal. Undefined ordinals are an error.
func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid priority value %d", int(p))
	}
	return json.Marshal(int(p))
}

// UnmarshalJSON decodes the ordinal. Undefined ordinals are an error, never coerced.
func (p *Priority) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid priority %s: %w", data, err)
	}
	v := Priority(n)
	if !v.Valid() {
		return fmt.Errorf("invalid priority value %d", n)
	}
	*p = v
	return nil
}
