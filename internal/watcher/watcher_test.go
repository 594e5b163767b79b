package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, paths ...string) <-chan []Event {
	t.Helper()
	batches := make(chan []Event, 10)
	w, err := New(nil, Options{SettleDelay: 50 * time.Millisecond}, func(events []Event) {
		batches <- events
	})
	require.NoError(t, err)
	for _, p := range paths {
		require.NoError(t, w.Watch(p))
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return batches
}

func waitBatch(t *testing.T, batches <-chan []Event) []Event {
	t.Helper()
	select {
	case events := <-batches:
		return events
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for events")
		return nil
	}
}

func TestWatcher_FileWrite(t *testing.T) {
	dir := t.TempDir()
	books := filepath.Join(dir, "books.json")
	require.NoError(t, os.WriteFile(books, []byte("[]"), 0o644))

	batches := startWatcher(t, books)

	require.NoError(t, os.WriteFile(books, []byte(`[{"meta":{}}]`), 0o644))

	events := waitBatch(t, batches)
	require.Len(t, events, 1)
	assert.Equal(t, EventModified, events[0].Type)
	assert.Equal(t, books, events[0].Path)
	assert.Equal(t, int64(13), events[0].Size)
}

func TestWatcher_AtomicReplaceIsOneModification(t *testing.T) {
	dir := t.TempDir()
	books := filepath.Join(dir, "books.json")
	require.NoError(t, os.WriteFile(books, []byte("[]"), 0o644))

	batches := startWatcher(t, books)

	tmp := filepath.Join(dir, ".books.json-1")
	require.NoError(t, os.WriteFile(tmp, []byte("[ ]"), 0o644))
	require.NoError(t, os.Rename(tmp, books))

	events := waitBatch(t, batches)
	require.Len(t, events, 1)
	assert.Equal(t, books, events[0].Path)
	assert.Equal(t, EventModified, events[0].Type)
}

func TestWatcher_BurstIsCoalesced(t *testing.T) {
	dir := t.TempDir()
	club := filepath.Join(dir, "club.json")
	books := filepath.Join(dir, "books.json")

	batches := startWatcher(t, club, books)

	for i := range 5 {
		require.NoError(t, os.WriteFile(books, []byte{byte('0' + i)}, 0o644))
	}
	require.NoError(t, os.WriteFile(club, []byte("{}"), 0o644))

	events := waitBatch(t, batches)
	require.Len(t, events, 2)
	assert.Equal(t, books, events[0].Path)
	assert.Equal(t, club, events[1].Path)
}

func TestWatcher_IgnoresUnwatchedFiles(t *testing.T) {
	dir := t.TempDir()
	books := filepath.Join(dir, "books.json")

	batches := startWatcher(t, books)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case events := <-batches:
		t.Fatalf("unexpected events: %v", events)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_Removal(t *testing.T) {
	dir := t.TempDir()
	popup := filepath.Join(dir, "popup.html")
	require.NoError(t, os.WriteFile(popup, []byte("<p>"), 0o644))

	batches := startWatcher(t, popup)

	require.NoError(t, os.Remove(popup))

	events := waitBatch(t, batches)
	require.Len(t, events, 1)
	assert.Equal(t, EventRemoved, events[0].Type)
}

func TestWatcher_Directory(t *testing.T) {
	dir := t.TempDir()
	batches := startWatcher(t, dir)

	covers := filepath.Join(dir, "123.jpg")
	require.NoError(t, os.WriteFile(covers, []byte("jpg"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644))

	events := waitBatch(t, batches)
	require.Len(t, events, 1)
	assert.Equal(t, covers, events[0].Path)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := New(nil, Options{}, nil)
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
