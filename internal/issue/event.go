// Package issue reads GitHub issue forms and reports back to the issue.
package issue

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Issue is the part of a GitHub issue the forms use.
type Issue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Event is a GitHub Actions issue event payload.
type Event struct {
	Action string `json:"action"`
	Issue  Issue  `json:"issue"`
}

// LoadEvent reads the event payload at path, normally $GITHUB_EVENT_PATH.
func LoadEvent(path string) (*Event, error) {
	if path == "" {
		return nil, fmt.Errorf("event path not set: are you running in GitHub Actions?")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event: %w", err)
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	ev.Issue.Title = strings.TrimSpace(ev.Issue.Title)
	return &ev, nil
}

// ExtractField returns the value of a form line such as
//
//	- review date: `2025-03-14`
//
// The field name matches case-insensitively. Missing fields yield "".
func ExtractField(body, field string) string {
	re := regexp.MustCompile("(?i)- " + regexp.QuoteMeta(field) + ":\\s*`([^`]*)`")
	m := re.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
