package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the storage and wire format of entry dates.
	DateLayout = "2006-01-02"
	// DisplayLayout renders dates the way responses show them, e.g. "Mon Jan 01 2024".
	DisplayLayout = "Mon Jan 02 2006"
)

// LogEntry is one exercise record in a user's log.
type LogEntry struct {
	Description string
	Duration    float64
	Date        time.Time // midnight UTC of the calendar day
}

// UserLog is a user together with their log in insertion order.
type UserLog struct {
	User    User
	Entries []LogEntry
}

// Day truncates t to midnight UTC of its calendar day in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts "2006-01-02" or an RFC 3339 timestamp and returns the
// calendar day it names.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Day(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
}

// FormatDisplay renders a date for responses.
func FormatDisplay(t time.Time) string {
	return t.Format(DisplayLayout)
}
