// Package store reads and writes the club's JSON data files.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/readingroom/bookclub/internal/domain"
)

// SearchIndexer is told about every saved book list so search stays in sync
// without the store depending on the search implementation.
type SearchIndexer interface {
	IndexBooks(books []domain.Book) error
}

// NoopSearchIndexer ignores updates.
type NoopSearchIndexer struct{}

// IndexBooks is a no-op.
func (NoopSearchIndexer) IndexBooks([]domain.Book) error { return nil }

// Store is a file-backed store for club.json and books.json.
type Store struct {
	clubPath  string
	booksPath string
	indexer   SearchIndexer
	logger    *slog.Logger

	mu sync.Mutex // serializes read-modify-write of books.json
}

// New creates a store over the given files. indexer may be nil.
func New(clubPath, booksPath string, indexer SearchIndexer, logger *slog.Logger) *Store {
	if indexer == nil {
		indexer = NoopSearchIndexer{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		clubPath:  clubPath,
		booksPath: booksPath,
		indexer:   indexer,
		logger:    logger,
	}
}

// ClubPath returns the club descriptor location.
func (s *Store) ClubPath() string { return s.clubPath }

// BooksPath returns the book list location.
func (s *Store) BooksPath() string { return s.booksPath }

// LoadClub reads the club descriptor. A missing file yields an empty club.
func (s *Store) LoadClub() (*domain.Club, error) {
	var club domain.Club
	if err := readJSON(s.clubPath, &club); err != nil {
		return nil, fmt.Errorf("load club: %w", err)
	}
	return &club, nil
}

// LoadBooks reads the book list. A missing file yields an empty list.
func (s *Store) LoadBooks() ([]domain.Book, error) {
	var books []domain.Book
	if err := readJSON(s.booksPath, &books); err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}
	return books, nil
}

// SaveBooks replaces the book list.
func (s *Store) SaveBooks(books []domain.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveBooks(books)
}

// UpdateBooks loads the book list, applies fn, and saves the result. Nothing
// is written when fn fails.
func (s *Store) UpdateBooks(fn func(books []domain.Book) ([]domain.Book, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.LoadBooks()
	if err != nil {
		return err
	}
	books, err = fn(books)
	if err != nil {
		return err
	}
	return s.saveBooks(books)
}

func (s *Store) saveBooks(books []domain.Book) error {
	if books == nil {
		books = []domain.Book{}
	}
	if err := writeJSON(s.booksPath, books); err != nil {
		return fmt.Errorf("save books: %w", err)
	}
	s.logger.Debug("books saved", "path", s.booksPath, "count", len(books))

	if err := s.indexer.IndexBooks(books); err != nil {
		// The file is the source of truth; a stale index is rebuilt on the next save.
		s.logger.Warn("failed to update search index", "error", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// writeJSON writes v with two-space indentation through a temp file and an
// atomic rename.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	return os.Rename(tmpPath, path)
}
