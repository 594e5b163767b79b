package issue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultAPIURL is the public GitHub REST API.
const DefaultAPIURL = "https://api.github.com"

// CommenterConfig is the workflow context needed to comment on an issue.
type CommenterConfig struct {
	Token      string
	Repository string // owner/name
	APIURL     string
	HTTPClient *http.Client
}

// Commenter posts comments to one issue.
type Commenter struct {
	cfg    CommenterConfig
	http   *http.Client
	logger *slog.Logger
}

// NewCommenter creates a commenter.
func NewCommenter(cfg CommenterConfig, logger *slog.Logger) *Commenter {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Commenter{cfg: cfg, http: client, logger: logger}
}

// Post adds body as a comment on issue number. Without a token, repository,
// or issue number it logs and returns nil: running outside a workflow is not
// an error.
func (c *Commenter) Post(ctx context.Context, number int, body string) error {
	if c.cfg.Token == "" || c.cfg.Repository == "" {
		c.logger.Info("missing GitHub context, not posting comment")
		return nil
	}
	if number <= 0 {
		c.logger.Info("could not determine issue number, skipping comment")
		return nil
	}

	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return fmt.Errorf("encode comment: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/issues/%d/comments", strings.TrimRight(c.cfg.APIURL, "/"), c.cfg.Repository, number)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post comment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post comment: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	c.logger.Info("posted summary comment", "issue", number)
	return nil
}
