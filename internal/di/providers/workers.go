package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/readingroom/bookclub/internal/api"
	"github.com/readingroom/bookclub/internal/config"
	"github.com/readingroom/bookclub/internal/logger"
	"github.com/readingroom/bookclub/internal/watcher"
)

// FileWatcherHandle wraps the file watcher with shutdown capability.
type FileWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *FileWatcherHandle) Shutdown() error {
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideFileWatcher watches the local data files and re-renders the preview
// whenever they settle after a change. Remote sources are not watched.
func ProvideFileWatcher(i do.Injector) (*FileWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	preview := do.MustInvoke[*api.Preview](i)

	ctx, cancel := context.WithCancel(context.Background())

	w, err := watcher.New(log.Logger, watcher.Options{}, func(events []watcher.Event) {
		for _, ev := range events {
			log.Info("data changed", "path", ev.Path, "type", ev.Type.String())
		}
		if err := preview.Refresh(ctx); err != nil {
			log.Warn("re-render failed, keeping previous page", "error", err)
		}
	})
	if err != nil {
		cancel()
		return nil, err
	}

	// The data directory also holds the popup fragment.
	paths := []string{cfg.Data.Dir}
	for _, src := range []string{cfg.Data.ClubFile, cfg.Data.BooksFile} {
		if !config.IsRemote(src) && filepath.Dir(src) != cfg.Data.Dir {
			paths = append(paths, src)
		}
	}
	for _, p := range paths {
		if err := w.Watch(p); err != nil {
			cancel()
			_ = w.Stop()
			return nil, err
		}
		log.Info("watching", "path", p)
	}

	go func() {
		if err := w.Run(ctx); err != nil {
			log.Error("file watcher error", "error", err)
		}
	}()

	return &FileWatcherHandle{Watcher: w, cancel: cancel}, nil
}
