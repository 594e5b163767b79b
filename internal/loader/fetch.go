package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	// maxDocumentSize caps every fetched document.
	maxDocumentSize = 16 << 20
	userAgent       = "bookclub/1.0"
)

// Fetcher reads a source that is either a local path or an http(s) URL.
type Fetcher struct {
	http   *http.Client
	logger *slog.Logger
}

// NewFetcher creates a Fetcher. A nil client gets a default with a timeout.
func NewFetcher(client *http.Client, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Fetcher{http: client, logger: logger}
}

// Fetch returns the full contents of source.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	if isURL(source) {
		return f.fetchURL(ctx, source)
	}

	f.logger.Debug("reading file", "path", source)
	file, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return readLimited(file)
}

func (f *Fetcher) fetchURL(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	f.logger.Debug("fetching document", "url", source)

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", source, resp.StatusCode)
	}
	return readLimited(resp.Body)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("document exceeds %d bytes", maxDocumentSize)
	}
	return data, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Resolve interprets ref relative to base. URLs resolve as links do; paths
// resolve against base's directory. Absolute refs are returned unchanged.
func Resolve(base, ref string) (string, error) {
	if isURL(ref) {
		return ref, nil
	}
	if isURL(base) {
		b, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("parse base %q: %w", base, err)
		}
		r, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("parse reference %q: %w", ref, err)
		}
		return b.ResolveReference(r).String(), nil
	}
	if filepath.IsAbs(ref) {
		return ref, nil
	}
	return filepath.Join(filepath.Dir(base), filepath.FromSlash(ref)), nil
}
