package issue

import (
	"fmt"
	"log/slog"
)

// Notes collects the notices and warnings raised while handling an issue so
// they can be repeated in the summary comment. Each one is also logged.
type Notes struct {
	Notices  []string
	Warnings []string
	logger   *slog.Logger
}

// NewNotes creates an empty collection. logger may be nil.
func NewNotes(logger *slog.Logger) *Notes {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Notes{logger: logger}
}

// Notice records an informational message.
func (n *Notes) Notice(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	n.Notices = append(n.Notices, msg)
	n.logger.Info(msg)
}

// Warn records a warning.
func (n *Notes) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	n.Warnings = append(n.Warnings, msg)
	n.logger.Warn(msg)
}
