// Package openlibrary is a small client for the OpenLibrary search API.
package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public OpenLibrary site.
	DefaultBaseURL = "https://openlibrary.org"
	// DefaultCoversURL serves cover images by cover id.
	DefaultCoversURL = "https://covers.openlibrary.org"

	defaultTimeout   = 15 * time.Second
	defaultRPS       = 1
	defaultLimit     = 10
	defaultUserAgent = "bookclub/1.0 (+https://github.com/readingroom/bookclub)"
)

// Sentinel errors for OpenLibrary requests.
var (
	ErrRateLimited = errors.New("openlibrary: rate limited by server")
	ErrServer      = errors.New("openlibrary: server error")
)

// SearchFields are the work fields requested from search.json.
var SearchFields = []string{
	"key",
	"type",
	"title",
	"author_name",
	"first_publish_year",
	"first_edition",
	"number_of_pages_median",
	"first_sentence",
	"description",
	"subject",
	"edition_count",
	"id_wikidata",
	"place",
	"time",
	"cover_i",
}

// Config configures a Client. Zero values use the defaults.
type Config struct {
	BaseURL           string
	CoversURL         string
	UserAgent         string
	RequestsPerSecond int
	Limit             int
	HTTPClient        *http.Client
}

// Client is a rate-limited OpenLibrary client. It is safe for concurrent use.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	baseURL   string
	coversURL string
	userAgent string
	limit     int
	logger    *slog.Logger
}

// NewClient creates a client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CoversURL == "" {
		cfg.CoversURL = DefaultCoversURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRPS
	}
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		http:      cfg.HTTPClient,
		limiter:   rate.NewLimiter(rate.Every(time.Second/time.Duration(cfg.RequestsPerSecond)), 1),
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		coversURL: strings.TrimRight(cfg.CoversURL, "/"),
		userAgent: cfg.UserAgent,
		limit:     cfg.Limit,
		logger:    logger,
	}
}

// SearchURL returns the search.json URL for query, sorted by edition count.
func (c *Client) SearchURL(query string) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("sorts", "editions")
	params.Set("fields", strings.Join(SearchFields, ","))
	return c.baseURL + "/search.json?" + params.Encode()
}

// Search queries search.json. Docs come back with the most editions first.
func (c *Client) Search(ctx context.Context, query string) (*SearchResponse, error) {
	searchURL := c.SearchURL(query)

	c.logger.Debug("searching OpenLibrary",
		"query", query,
		"url", searchURL,
	)

	var resp SearchResponse
	if err := c.get(ctx, searchURL, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	resp.URL = searchURL

	c.logger.Debug("OpenLibrary search results",
		"query", query,
		"found", resp.NumFound,
		"docs", len(resp.Docs),
	)
	return &resp, nil
}

// CoverURL returns the medium-size cover image URL for a cover id.
func (c *Client) CoverURL(coverID int) string {
	return fmt.Sprintf("%s/b/id/%d-M.jpg", c.coversURL, coverID)
}

// WorkURL returns the public page of a work key such as "/works/OL1W".
func (c *Client) WorkURL(key string) string {
	return c.baseURL + key
}

func (c *Client) get(ctx context.Context, target string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode >= 500:
		return ErrServer
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
