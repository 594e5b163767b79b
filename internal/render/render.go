// Package render writes the club's static page from a loaded snapshot.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/readingroom/bookclub/internal/loader"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// IndexFile is the page written by WriteFile.
const IndexFile = "index.html"

// Renderer renders book club pages. It is safe for concurrent use.
type Renderer struct {
	tmpl   *template.Template
	md     goldmark.Markdown
	logger *slog.Logger
}

// New parses the embedded templates.
func New(logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tmpl, err := template.New("page.html.tmpl").ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Renderer{
		tmpl: tmpl,
		// Raw HTML in descriptions is escaped: WithUnsafe is not set.
		md: goldmark.New(
			goldmark.WithRendererOptions(
				goldmarkHTML.WithHardWraps(),
			),
		),
		logger: logger,
	}, nil
}

// Render writes the page for snap as seen at now.
func (r *Renderer) Render(w io.Writer, snap *loader.Snapshot, now time.Time) error {
	page, err := r.BuildPage(snap, now)
	if err != nil {
		return err
	}
	if err := r.tmpl.Execute(w, page); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}
	return nil
}

// WriteFile renders the page into dir/index.html, replacing any previous
// version atomically.
func (r *Renderer) WriteFile(dir string, snap *loader.Snapshot, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".index-*.html")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := r.Render(tmp, snap, now); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod page: %w", err)
	}

	path := filepath.Join(dir, IndexFile)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename page: %w", err)
	}

	r.logger.Info("page written", "path", path, "books", len(snap.Books))
	return path, nil
}
