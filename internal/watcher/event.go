package watcher

import "time"

// EventType is the kind of change seen on a watched file.
type EventType int

const (
	// EventModified is emitted when a file was written or replaced.
	EventModified EventType = iota
	// EventRemoved is emitted when a file was deleted or moved away.
	EventRemoved
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventModified:
		return "modified"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is a settled change to one file.
type Event struct {
	Type    EventType
	Path    string
	Size    int64
	ModTime time.Time
}
