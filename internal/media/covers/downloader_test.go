package covers_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readingroom/bookclub/internal/media/covers"
	"github.com/readingroom/bookclub/internal/media/images"
)

func newDownloader(t *testing.T, handler http.HandlerFunc) (*covers.Downloader, *images.Storage, string) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	storage, err := images.NewStorage(filepath.Join(t.TempDir(), "covers"), "covers")
	require.NoError(t, err)
	return covers.NewDownloader(server.Client(), storage, nil), storage, server.URL
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 120, 180))))
	return buf.Bytes()
}

func TestDownloader_Download(t *testing.T) {
	data := pngBytes(t)
	d, storage, url := newDownloader(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	})

	cover, err := d.Download(context.Background(), "14348537", url+"/b/id/14348537-M.jpg")
	require.NoError(t, err)

	assert.Equal(t, "covers/14348537.jpg", cover.PublicPath)
	assert.Equal(t, 120, cover.Width)
	assert.Equal(t, 180, cover.Height)
	assert.Equal(t, len(data), cover.Size)
	assert.NotEmpty(t, cover.BlurHash)

	stored, err := os.ReadFile(storage.Path("14348537"))
	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

func TestDownloader_UndecodableImageIsStillStored(t *testing.T) {
	d, storage, url := newDownloader(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("opaque bytes"))
	})

	cover, err := d.Download(context.Background(), "7", url)
	require.NoError(t, err)
	assert.Zero(t, cover.Width)
	assert.Empty(t, cover.BlurHash)
	assert.True(t, storage.Exists("7"))
}

func TestDownloader_Errors(t *testing.T) {
	d, storage, url := newDownloader(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := d.Download(context.Background(), "7", url)
	assert.ErrorContains(t, err, "status 404")
	assert.False(t, storage.Exists("7"))

	_, err = d.Download(context.Background(), "7", "")
	assert.Error(t, err)
}
