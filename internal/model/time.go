package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// TimeLayout is the timestamp layout the API uses, e.g. 2026-01-15T14:00:00.000+0000.
const TimeLayout = "2006-01-02T15:04:05.000-0700"

var timeLayouts = []string{
	TimeLayout,
	"2006-01-02T15:04:05-0700",
	time.RFC3339Nano,
	time.RFC3339,
}

// Time is a timezone-qualified timestamp. A Time decoded from JSON re-encodes to the
// exact bytes it was decoded from, so fetched records round-trip unchanged.
type Time struct {
	time.Time
	raw []byte
}

// NewTime returns a Time that encodes t in TimeLayout.
func NewTime(t time.Time) Time {
	return Time{Time: t}
}

// ParseTime parses s using the layouts the API is known to emit.
func ParseTime(s string) (Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Time{Time: t}, nil
		}
	}
	return Time{}, fmt.Errorf("invalid timestamp: %s", s)
}

// MarshalJSON returns the original bytes if the value was decoded, else TimeLayout.
func (t Time) MarshalJSON() ([]byte, error) {
	if len(t.raw) > 0 {
		return t.raw, nil
	}
	return json.Marshal(t.Time.Format(TimeLayout))
}

// UnmarshalJSON accepts a timestamp string or epoch milliseconds.
func (t *Time) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] != '"' {
		ms, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid timestamp %s", data)
		}
		t.Time = time.UnixMilli(ms).UTC()
		t.raw = append([]byte(nil), data...)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed.Time
	t.raw = append([]byte(nil), data...)
	return nil
}

// Equal reports whether t and u are the same instant.
func (t Time) Equal(u Time) bool {
	return t.Time.Equal(u.Time)
}

func (t Time) String() string {
	return t.Time.Format(TimeLayout)
}

func cloneTime(t *Time) *Time {
	if t == nil {
		return nil
	}
	c := *t
	c.raw = append([]byte(nil), t.raw...)
	return &c
}
