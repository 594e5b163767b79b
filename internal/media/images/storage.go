// Package images stores cover images and derives their placeholders.
package images

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound is returned when no image is stored under an id.
var ErrNotFound = errors.New("image not found")

// Storage keeps cover images as {dir}/{id}.jpg. The files are published with
// the page, so every image also has a site-relative path.
// Safe for concurrent use.
type Storage struct {
	dir     string
	urlBase string
	mu      sync.RWMutex
}

// NewStorage creates the directory if needed. urlBase is the site-relative
// prefix under which the directory is published, e.g. "covers".
func NewStorage(dir, urlBase string) (*Storage, error) {
	if dir == "" {
		return nil, errors.New("storage directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create covers directory: %w", err)
	}
	return &Storage{dir: dir, urlBase: strings.Trim(urlBase, "/")}, nil
}

// Dir returns the storage directory.
func (s *Storage) Dir() string { return s.dir }

// Save writes the image for id, replacing any previous version atomically.
func (s *Storage) Save(id string, data []byte) error {
	if err := validID(id); err != nil {
		return err
	}
	if len(data) == 0 {
		return errors.New("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+id+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close image: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod image: %w", err)
	}
	return os.Rename(tmp.Name(), s.Path(id))
}

// Get returns the stored image for id.
func (s *Storage) Get(id string) ([]byte, error) {
	if err := validID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}

// Exists reports whether an image is stored for id.
func (s *Storage) Exists(id string) bool {
	if validID(id) != nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(id))
	return err == nil
}

// Hash returns the hex SHA-256 of the stored image, used as an ETag.
func (s *Storage) Hash(id string) (string, error) {
	data, err := s.Get(id)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Path returns the filesystem path for id.
func (s *Storage) Path(id string) string {
	return filepath.Join(s.dir, id+".jpg")
}

// PublicPath returns the site-relative path for id, e.g. "covers/123.jpg".
func (s *Storage) PublicPath(id string) string {
	return path.Join(s.urlBase, id+".jpg")
}

func validID(id string) error {
	if id == "" {
		return errors.New("image id cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("invalid image id %q", id)
	}
	return nil
}
