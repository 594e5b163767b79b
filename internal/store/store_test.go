package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readingroom/bookclub/internal/domain"
	"github.com/readingroom/bookclub/internal/store"
)

type recordingIndexer struct {
	calls [][]domain.Book
	err   error
}

func (r *recordingIndexer) IndexBooks(books []domain.Book) error {
	r.calls = append(r.calls, books)
	return r.err
}

func newStore(t *testing.T, indexer store.SearchIndexer) (*store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	return store.New(filepath.Join(dir, "club.json"), filepath.Join(dir, "data", "books.json"), indexer, nil), dir
}

func TestStore_MissingFilesAreEmpty(t *testing.T) {
	s, _ := newStore(t, nil)

	club, err := s.LoadClub()
	require.NoError(t, err)
	assert.Empty(t, club.Name)

	books, err := s.LoadBooks()
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestStore_LoadClub(t *testing.T) {
	s, dir := newStore(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "club.json"),
		[]byte(`{"name": "Readers", "permanent_members": ["arne", "mia"]}`), 0o644))

	club, err := s.LoadClub()
	require.NoError(t, err)
	assert.Equal(t, "Readers", club.Name)
	assert.Equal(t, []string{"arne", "mia"}, club.PermanentMembers)
}

func TestStore_SaveAndLoadBooks(t *testing.T) {
	indexer := &recordingIndexer{}
	s, _ := newStore(t, indexer)

	books := []domain.Book{{
		ReviewDate: "2025-03-14",
		Ratings:    domain.Ratings{{Key: "Mia", Value: domain.ScoreOf(9)}, {Key: "Arne", Value: domain.Score{}}},
		Meta:       domain.Meta{Key: "/works/OL1W", Title: "One"},
	}}
	require.NoError(t, s.SaveBooks(books))

	data, err := os.ReadFile(s.BooksPath())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {"), "two-space indentation")
	assert.Less(t, strings.Index(string(data), `"Mia"`), strings.Index(string(data), `"Arne"`))

	loaded, err := s.LoadBooks()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "One", loaded[0].Title())
	assert.Equal(t, []string{"Mia", "Arne"}, loaded[0].Ratings.Keys())

	require.Len(t, indexer.calls, 1)
	assert.Len(t, indexer.calls[0], 1)
}

func TestStore_SaveNilWritesEmptyList(t *testing.T) {
	s, _ := newStore(t, nil)
	require.NoError(t, s.SaveBooks(nil))

	data, err := os.ReadFile(s.BooksPath())
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestStore_UpdateBooks(t *testing.T) {
	s, _ := newStore(t, nil)
	require.NoError(t, s.SaveBooks([]domain.Book{{Meta: domain.Meta{Key: "/works/OL1W", Title: "One"}}}))

	err := s.UpdateBooks(func(books []domain.Book) ([]domain.Book, error) {
		return append(books, domain.Book{Meta: domain.Meta{Key: "/works/OL2W", Title: "Two"}}), nil
	})
	require.NoError(t, err)

	books, err := s.LoadBooks()
	require.NoError(t, err)
	assert.Len(t, books, 2)

	boom := errors.New("boom")
	err = s.UpdateBooks(func(books []domain.Book) ([]domain.Book, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	books, err = s.LoadBooks()
	require.NoError(t, err)
	assert.Len(t, books, 2, "failed update leaves the file alone")
}

func TestStore_IndexFailureDoesNotFailSave(t *testing.T) {
	s, _ := newStore(t, &recordingIndexer{err: errors.New("index down")})
	assert.NoError(t, s.SaveBooks([]domain.Book{{Meta: domain.Meta{Key: "/works/OL1W"}}}))
}

func TestStore_MalformedFile(t *testing.T) {
	s, _ := newStore(t, nil)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.BooksPath()), 0o755))
	require.NoError(t, os.WriteFile(s.BooksPath(), []byte(`{"oops"`), 0o644))

	_, err := s.LoadBooks()
	assert.ErrorContains(t, err, "decode")
}
