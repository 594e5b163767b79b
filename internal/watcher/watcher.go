// Package watcher reports changes to the club's data files so the preview
// server can re-render.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler receives a settled batch of changes, at most one per path.
type Handler func(events []Event)

// Watcher watches files and directories with fsnotify. Bursts of events are
// coalesced: the handler runs once the watched paths have been quiet for
// the settle delay.
type Watcher struct {
	logger  *slog.Logger
	opts    Options
	handler Handler
	fs      *fsnotify.Watcher

	mu      sync.Mutex
	files   map[string]bool // watched files
	dirs    map[string]bool // watched directories, every file inside counts
	pending map[string]EventType
	timer   *time.Timer

	stopOnce sync.Once
	done     chan struct{}
}

// New creates a watcher that calls handler with settled changes.
func New(logger *slog.Logger, opts Options, handler Handler) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts.setDefaults()

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		logger:  logger,
		opts:    opts,
		handler: handler,
		fs:      fs,
		files:   make(map[string]bool),
		dirs:    make(map[string]bool),
		pending: make(map[string]EventType),
		done:    make(chan struct{}),
	}, nil
}

// Watch adds a file or directory. A file is watched through its parent
// directory so atomic replacements are seen; the file need not exist yet.
func (w *Watcher) Watch(path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		dir = path
	case err != nil && !os.IsNotExist(err):
		return fmt.Errorf("stat path: %w", err)
	}

	if err := w.fs.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	w.mu.Lock()
	if dir == path {
		w.dirs[dir] = true
	} else {
		w.files[path] = true
	}
	w.mu.Unlock()

	w.logger.Debug("added watch", "path", path)
	return nil
}

// Run delivers events until ctx is cancelled or Stop is called.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Stop() //nolint:errcheck // closing twice is a no-op

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.done:
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// Stop releases the watcher. Pending changes are dropped.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		clear(w.pending)
		w.mu.Unlock()
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) handle(event fsnotify.Event) {
	path := filepath.Clean(event.Name)
	if !w.relevant(path) {
		return
	}

	var typ EventType
	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		typ = EventRemoved
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		typ = EventModified
	default:
		return
	}

	w.logger.Debug("file event", "path", path, "op", event.Op.String())

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = typ
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.SettleDelay, w.flush)
}

func (w *Watcher) relevant(path string) bool {
	if w.opts.shouldIgnore(path) {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[path] || w.dirs[filepath.Dir(path)]
}

// flush delivers the pending batch. A removal followed by a create within
// the window (an atomic replace) reports the file as modified.
func (w *Watcher) flush() {
	w.mu.Lock()
	select {
	case <-w.done:
		w.mu.Unlock()
		return
	default:
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	events := make([]Event, 0, len(paths))
	for _, p := range paths {
		ev := Event{Type: w.pending[p], Path: p}
		if info, err := os.Stat(p); err == nil {
			ev.Type = EventModified
			ev.Size = info.Size()
			ev.ModTime = info.ModTime()
		} else {
			ev.Type = EventRemoved
		}
		events = append(events, ev)
	}
	clear(w.pending)
	w.timer = nil
	w.mu.Unlock()

	if len(events) == 0 || w.handler == nil {
		return
	}
	w.logger.Info("watched files changed", "count", len(events))
	w.handler(events)
}
