package issue

import (
	"fmt"
	"strings"
)

// Summary builds the markdown comment posted back to the issue.
type Summary struct {
	lines []string
}

// NewSummary starts a summary with its "# SUMMARY" heading.
func NewSummary() *Summary {
	return &Summary{lines: []string{"# SUMMARY"}}
}

// Line appends a formatted line.
func (s *Summary) Line(format string, args ...any) *Summary {
	s.lines = append(s.lines, fmt.Sprintf(format, args...))
	return s
}

// Field appends "**label:** value" when value is not empty.
func (s *Summary) Field(label, value string) *Summary {
	if value == "" {
		return s
	}
	return s.Line("**%s:** %s", label, value)
}

// Heading appends a heading at the given level.
func (s *Summary) Heading(level int, text string) *Summary {
	return s.Line("%s %s", strings.Repeat("#", level), text)
}

// Notes appends the warnings and notices as GitHub alert blocks.
func (s *Summary) Notes(n *Notes) *Summary {
	if n == nil {
		return s
	}
	s.callout("Warnings", "WARNING", n.Warnings)
	s.callout("Notes", "NOTE", n.Notices)
	return s
}

func (s *Summary) callout(title, kind string, items []string) {
	if len(items) == 0 {
		return
	}
	s.Heading(3, title)
	s.Line("\n> [!%s]\n>", kind)
	for _, item := range items {
		s.Line("> - %s", item)
	}
}

// String returns the markdown.
func (s *Summary) String() string {
	return strings.Join(s.lines, "\n")
}
