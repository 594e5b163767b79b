// Package loader fetches the club descriptor, the book list, and the optional
// ratings popup fragment for a render pass.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/readingroom/bookclub/internal/domain"
)

// Sources locates the input documents. Each is a path or an http(s) URL.
type Sources struct {
	Club  string
	Books string
}

// Snapshot is everything one render pass reads. It is not modified after
// Load returns.
type Snapshot struct {
	Club  domain.Club
	Books []domain.Book
	// Popup is the raw ratings popup fragment; nil when the club has none.
	Popup []byte
	// PopupSource is the resolved location the fragment was read from.
	PopupSource string
	LoadedAt    time.Time
}

// Loader fetches snapshots.
type Loader struct {
	fetcher *Fetcher
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a Loader.
func New(fetcher *Fetcher, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if fetcher == nil {
		fetcher = NewFetcher(nil, logger)
	}
	return &Loader{fetcher: fetcher, logger: logger, now: time.Now}
}

// Load fetches the club and the books in parallel. When the club names a
// popup fragment it is fetched as soon as the club is decoded. Load returns
// only after every fetch has finished; any failure fails the whole load.
func (l *Loader) Load(ctx context.Context, src Sources) (*Snapshot, error) {
	snap := &Snapshot{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := l.fetcher.Fetch(ctx, src.Club)
		if err != nil {
			return fmt.Errorf("fetch club %s: %w", src.Club, err)
		}
		if err := json.Unmarshal(data, &snap.Club); err != nil {
			return fmt.Errorf("decode club %s: %w", src.Club, err)
		}
		l.logger.Debug("club loaded", "name", snap.Club.Name)

		if snap.Club.RatingPopupRef == "" {
			return nil
		}
		popupSrc, err := Resolve(src.Club, snap.Club.RatingPopupRef)
		if err != nil {
			return err
		}
		snap.PopupSource = popupSrc
		g.Go(func() error {
			data, err := l.fetcher.Fetch(ctx, popupSrc)
			if err != nil {
				return fmt.Errorf("fetch rating popup %s: %w", popupSrc, err)
			}
			snap.Popup = data
			return nil
		})
		return nil
	})

	g.Go(func() error {
		data, err := l.fetcher.Fetch(ctx, src.Books)
		if err != nil {
			return fmt.Errorf("fetch books %s: %w", src.Books, err)
		}
		var books []domain.Book
		if err := json.Unmarshal(data, &books); err != nil {
			return fmt.Errorf("decode books %s: %w", src.Books, err)
		}
		snap.Books = books
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.LoadedAt = l.now()
	l.logger.Info("data loaded",
		"club", snap.Club.Name,
		"books", len(snap.Books),
		"popup", snap.Popup != nil,
	)
	return snap, nil
}
