// Package dates parses the date expressions accepted by --date, --start and --due.
package dates

import (
	"strconv"
	"strings"
	"time"

	"tick/internal/apperr"
	"tick/internal/model"
)

// absolute layouts tried in order. Layouts without a zone are read in now's location.
var layouts = []string{
	model.TimeLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
}

// Parse interprets input relative to now. Keywords (today, tomorrow, yesterday,
// next week, next month) resolve to midnight in now's location; "in N <unit>"
// offsets from now itself. Months are 30 days.
func Parse(input string, now time.Time) (model.Time, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return model.Time{}, invalid(input)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch s {
	case "today":
		return model.NewTime(today), nil
	case "tomorrow":
		return model.NewTime(today.AddDate(0, 0, 1)), nil
	case "yesterday":
		return model.NewTime(today.AddDate(0, 0, -1)), nil
	case "next week":
		return model.NewTime(today.AddDate(0, 0, 7)), nil
	case "next month":
		return model.NewTime(today.AddDate(0, 0, 30)), nil
	}

	if rest, ok := strings.CutPrefix(s, "in "); ok {
		if t, ok := relative(rest, now); ok {
			return model.NewTime(t), nil
		}
		return model.Time{}, invalid(input)
	}

	raw := strings.TrimSpace(input)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, now.Location()); err == nil {
			return model.NewTime(t), nil
		}
	}
	return model.Time{}, invalid(input)
}

func relative(s string, base time.Time) (time.Time, bool) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return time.Time{}, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return time.Time{}, false
	}
	switch fields[1] {
	case "day", "days":
		return base.AddDate(0, 0, n), true
	case "week", "weeks":
		return base.AddDate(0, 0, 7*n), true
	case "hour", "hours":
		return base.Add(time.Duration(n) * time.Hour), true
	case "minute", "minutes", "min", "mins":
		return base.Add(time.Duration(n) * time.Minute), true
	case "month", "months":
		return base.AddDate(0, 0, 30*n), true
	}
	return time.Time{}, false
}

func invalid(input string) error {
	return apperr.New(apperr.InvalidRequest,
		"could not parse date %q (try 'tomorrow', '2026-01-15' or 'in 3 days')", input).
		WithDetail("input", input)
}
