package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store defines scratch storage for decoder input files.
type Store interface {
	Save(id string, r io.Reader) (string, error)
	Remove(path string) error
	Dir() string
}

// TempStore writes <id>.pdf files into a shared scratch directory.
// Files are never reused: a name that already exists is an error.
type TempStore struct {
	dir string
}

// NewTempStore creates a TempStore rooted at dir, or os.TempDir() when dir is empty.
func NewTempStore(dir string) (*TempStore, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}

	return &TempStore{dir: dir}, nil
}

// Dir returns the scratch directory.
func (s *TempStore) Dir() string {
	return s.dir
}

// PathFor returns the scratch path for an artifact identifier.
func (s *TempStore) PathFor(id string) string {
	return filepath.Join(s.dir, id+".pdf")
}

// Save copies r into a new file named after id and returns its path.
func (s *TempStore) Save(id string, r io.Reader) (string, error) {
	if id == "" || filepath.Base(id) != id {
		return "", fmt.Errorf("invalid artifact id %q", id)
	}
	path := s.PathFor(id)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	return path, nil
}

// Remove deletes a scratch file. A file that is already gone is not an error.
func (s *TempStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting temp file: %w", err)
	}
	return nil
}
