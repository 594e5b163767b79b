// Package covers downloads OpenLibrary cover images into the site.
package covers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/readingroom/bookclub/internal/media/images"
)

const (
	// maxCoverSize caps a single download.
	maxCoverSize = 10 << 20

	downloadTimeout = 30 * time.Second
)

// Cover describes a stored cover.
type Cover struct {
	ID         string
	PublicPath string // site-relative, stored in the book record
	Width      int
	Height     int
	Size       int
	BlurHash   string
}

// Downloader fetches covers and stores them.
type Downloader struct {
	http    *http.Client
	storage *images.Storage
	logger  *slog.Logger
}

// NewDownloader creates a downloader. A nil client gets a default with a
// timeout.
func NewDownloader(client *http.Client, storage *images.Storage, logger *slog.Logger) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: downloadTimeout}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Downloader{http: client, storage: storage, logger: logger}
}

// Download fetches url and stores it under id. Dimensions and the BlurHash
// are best effort: an image the decoders cannot read is still stored.
func (d *Downloader) Download(ctx context.Context, id, url string) (*Cover, error) {
	if url == "" {
		return nil, errors.New("empty cover URL")
	}

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverSize+1))
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	if len(data) > maxCoverSize {
		return nil, fmt.Errorf("cover exceeds %d bytes", maxCoverSize)
	}

	cover := &Cover{ID: id, PublicPath: d.storage.PublicPath(id), Size: len(data)}

	if w, h, err := images.Dimensions(data); err != nil {
		d.logger.Warn("failed to parse cover dimensions", "id", id, "url", url, "error", err)
	} else {
		cover.Width, cover.Height = w, h
		if hash, err := images.ComputeBlurHash(data); err != nil {
			d.logger.Warn("failed to compute blurhash", "id", id, "error", err)
		} else {
			cover.BlurHash = hash
		}
	}

	if err := d.storage.Save(id, data); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	d.logger.Info("downloaded cover",
		"id", id,
		"path", cover.PublicPath,
		"size", cover.Size,
		"width", cover.Width,
		"height", cover.Height,
	)
	return cover, nil
}
