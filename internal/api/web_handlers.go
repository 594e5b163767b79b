package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *Server) registerWebRoutes() {
	// The page and covers are plain files, served by chi directly.
	s.router.Get("/", s.handlePage)
	s.router.Get("/index.html", s.handlePage)
	s.router.Get("/covers/{path}", s.handleServeCover)
}

// handlePage serves the most recently rendered page.
// GET /
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, renderedAt, err := s.preview.Page()
	if errors.Is(err, ErrNotRendered) {
		http.Error(w, "page has not been rendered yet", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		s.logger.Error("failed to read page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Last-Modified", renderedAt.UTC().Format(http.TimeFormat))
	w.Header().Set("Content-Length", strconv.Itoa(len(page)))
	if r.Method == http.MethodHead {
		return
	}
	w.Write(page) //nolint:errcheck // client went away
}

// handleServeCover serves a downloaded cover image.
// GET /covers/{id}.jpg
func (s *Server) handleServeCover(w http.ResponseWriter, r *http.Request) {
	if s.covers == nil {
		http.NotFound(w, r)
		return
	}

	id := strings.TrimSuffix(chi.URLParam(r, "path"), ".jpg")
	if id == "" {
		http.Error(w, "path required", http.StatusBadRequest)
		return
	}

	data, err := s.covers.Get(id)
	if err != nil {
		http.Error(w, "cover not found", http.StatusNotFound)
		return
	}

	if hash, err := s.covers.Hash(id); err == nil {
		etag := `"` + hash + `"`
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data) //nolint:errcheck // client went away
}
