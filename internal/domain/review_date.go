package domain

import (
	"strings"
	"time"
)

// ReviewState is where a book stands relative to its review meeting.
type ReviewState int

const (
	// ReviewUnset means no usable review date: absent or unparseable.
	ReviewUnset ReviewState = iota
	// ReviewScheduled means the review date lies in the future.
	ReviewScheduled
	// ReviewReviewed means the review date is today or in the past.
	ReviewReviewed
)

// String returns the state name used in logs and the preview API.
func (s ReviewState) String() string {
	switch s {
	case ReviewScheduled:
		return "scheduled"
	case ReviewReviewed:
		return "reviewed"
	default:
		return "unset"
	}
}

// displayLayout matches an "en" locale short date, e.g. "Mar 14, 2025".
const displayLayout = "Jan 2, 2006"

var reviewDateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ReviewDate is the raw review date string from books.json.
type ReviewDate string

// Time parses the date. Date-only values are UTC midnight.
func (d ReviewDate) Time() (time.Time, bool) {
	s := strings.TrimSpace(string(d))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range reviewDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// State classifies the date relative to now.
func (d ReviewDate) State(now time.Time) ReviewState {
	t, ok := d.Time()
	switch {
	case !ok:
		return ReviewUnset
	case t.After(now):
		return ReviewScheduled
	default:
		return ReviewReviewed
	}
}

// Display formats the date for the page, or "" when unset.
func (d ReviewDate) Display() string {
	t, ok := d.Time()
	if !ok {
		return ""
	}
	return t.Format(displayLayout)
}
