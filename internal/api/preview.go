package api

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/readingroom/bookclub/internal/loader"
	"github.com/readingroom/bookclub/internal/render"
	"github.com/readingroom/bookclub/internal/store"
)

// ErrNotRendered is returned before the first successful refresh.
var ErrNotRendered = errors.New("page has not been rendered yet")

// Preview holds the most recently rendered page and the snapshot it was
// rendered from. Refreshes are serialized; readers always see a complete
// page.
type Preview struct {
	loader   *loader.Loader
	renderer *render.Renderer
	sources  loader.Sources
	indexer  store.SearchIndexer
	now      func() time.Time
	logger   *slog.Logger

	mu      sync.Mutex
	current atomic.Pointer[previewState]
}

type previewState struct {
	snap       *loader.Snapshot
	page       []byte
	renderedAt time.Time
}

// NewPreview creates a preview for sources. indexer may be nil.
func NewPreview(l *loader.Loader, r *render.Renderer, sources loader.Sources, indexer store.SearchIndexer, logger *slog.Logger) *Preview {
	if indexer == nil {
		indexer = store.NoopSearchIndexer{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Preview{
		loader:   l,
		renderer: r,
		sources:  sources,
		indexer:  indexer,
		now:      time.Now,
		logger:   logger,
	}
}

// Refresh reloads the data, renders the page, and swaps it in. On failure
// the previous page keeps being served.
func (p *Preview) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := p.now()
	snap, err := p.loader.Load(ctx, p.sources)
	if err != nil {
		p.logger.Error("preview load failed", "error", err)
		return err
	}

	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, snap, start); err != nil {
		p.logger.Error("preview render failed", "error", err)
		return err
	}

	if err := p.indexer.IndexBooks(snap.Books); err != nil {
		p.logger.Warn("failed to index books", "error", err)
	}

	p.current.Store(&previewState{snap: snap, page: buf.Bytes(), renderedAt: start})
	p.logger.Info("preview rendered",
		"books", len(snap.Books),
		"bytes", buf.Len(),
		"duration", p.now().Sub(start),
	)
	return nil
}

// Page returns the rendered HTML.
func (p *Preview) Page() ([]byte, time.Time, error) {
	st := p.current.Load()
	if st == nil {
		return nil, time.Time{}, ErrNotRendered
	}
	return st.page, st.renderedAt, nil
}

// Snapshot returns the data behind the current page.
func (p *Preview) Snapshot() (*loader.Snapshot, error) {
	st := p.current.Load()
	if st == nil {
		return nil, ErrNotRendered
	}
	return st.snap, nil
}
