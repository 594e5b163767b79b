package images

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	storage, err := NewStorage(filepath.Join(t.TempDir(), "covers"), "covers")
	require.NoError(t, err)
	return storage
}

func TestNewStorage(t *testing.T) {
	t.Run("creates nested directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "site", "covers")

		storage, err := NewStorage(dir, "/covers/")
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, dir, storage.Dir())
		assert.Equal(t, "covers/42.jpg", storage.PublicPath("42"))
	})

	t.Run("rejects empty directory", func(t *testing.T) {
		storage, err := NewStorage("", "covers")
		assert.Error(t, err)
		assert.Nil(t, storage)
	})
}

func TestStorage_SaveGet(t *testing.T) {
	storage := setupTestStorage(t)

	require.NoError(t, storage.Save("42", []byte("first")))
	require.NoError(t, storage.Save("42", []byte("second")))

	data, err := storage.Get("42")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
	assert.True(t, storage.Exists("42"))

	entries, err := os.ReadDir(storage.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestStorage_Errors(t *testing.T) {
	storage := setupTestStorage(t)

	assert.Error(t, storage.Save("", []byte("x")))
	assert.Error(t, storage.Save("42", nil))
	assert.Error(t, storage.Save("../escape", []byte("x")))
	assert.False(t, storage.Exists("../escape"))

	_, err := storage.Get("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStorage_Hash(t *testing.T) {
	storage := setupTestStorage(t)
	require.NoError(t, storage.Save("42", []byte("same")))
	require.NoError(t, storage.Save("43", []byte("same")))

	h1, err := storage.Hash("42")
	require.NoError(t, err)
	h2, err := storage.Hash("43")
	require.NoError(t, err)

	assert.Len(t, h1, 64)
	assert.Equal(t, h1, h2)
}

func TestStorage_Concurrent(t *testing.T) {
	storage := setupTestStorage(t)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("%d", i%5)
			assert.NoError(t, storage.Save(id, []byte(id)))
			_, err := storage.Get(id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for i := range 5 {
		assert.True(t, storage.Exists(fmt.Sprintf("%d", i)))
	}
}
