package search

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/readingroom/bookclub/internal/domain"
)

// Index wraps an in-memory Bleve index over the book list.
//
// Thread safety: all public methods are safe for concurrent use. IndexBooks
// builds a fresh index and swaps it in, so searches never see a half-built
// list.
type Index struct {
	mu     sync.RWMutex
	index  bleve.Index
	logger *slog.Logger
}

// New creates an empty index.
func New(logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Index{index: index, logger: logger}, nil
}

// Close releases the index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexBooks replaces the indexed documents with books. It satisfies
// store.SearchIndexer.
func (s *Index) IndexBooks(books []domain.Book) error {
	next, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	batch := next.NewBatch()
	indexed := 0
	for i := range books {
		doc := BookToDocument(&books[i])
		if doc.Key == "" {
			s.logger.Warn("skipping book without key", "title", doc.Title)
			continue
		}
		if err := batch.Index(doc.Key, doc.ToMap()); err != nil {
			_ = next.Close()
			return fmt.Errorf("batch index %s: %w", doc.Key, err)
		}
		indexed++
	}
	if err := next.Batch(batch); err != nil {
		_ = next.Close()
		return fmt.Errorf("commit batch: %w", err)
	}

	s.mu.Lock()
	prev := s.index
	s.index = next
	s.mu.Unlock()

	if err := prev.Close(); err != nil {
		s.logger.Warn("failed to close previous index", "error", err)
	}
	s.logger.Debug("indexed books", "count", indexed)
	return nil
}

// DocumentCount returns the number of indexed books.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}
