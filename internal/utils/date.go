package utils

import (
	"strings"
	"time"
)

// DateOnly returns the calendar-date prefix of a date or timestamp
// string. The postgres driver may return "2025-08-31T04:00:00.000Z" for a
// date column the app wrote as "2025-08-31"; callers compare only the
// prefix.
func DateOnly(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}

// CombineDueDatetime merges a "2006-01-02" date and a "15:04" time into a
// single timestamp. Both parts are required: a date-only task stores a
// null due_datetime, as does anything unparseable.
func CombineDueDatetime(date, clock string) *time.Time {
	if date == "" || clock == "" {
		return nil
	}

	day, err := time.Parse("2006-01-02", DateOnly(date))
	if err != nil {
		return nil
	}

	t, err := time.Parse("15:04", clock)
	if err != nil {
		return nil
	}

	combined := day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
	return &combined
}
