package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	catalogapp "github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/catalog"
)

// Ensure LocalImageStorage implements ImageStorage
var _ catalogapp.ImageStorage = (*LocalImageStorage)(nil)

// LocalImageStorage writes images below a directory that the HTTP server
// exposes at BaseURL. Use this for development without an object store.
type LocalImageStorage struct {
	Dir     string
	BaseURL string
}

// NewLocalImageStorage creates the root directory if needed
func NewLocalImageStorage(dir, baseURL string) (*LocalImageStorage, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalImageStorage{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload writes the image to disk and returns its public URL
func (s *LocalImageStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return s.BaseURL + "/" + key, nil
}

// Delete removes the image; a missing file is not an error
func (s *LocalImageStorage) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// KeyFromURL maps a URL returned by Upload back to its key
func (s *LocalImageStorage) KeyFromURL(rawURL string) (string, bool) {
	return keyFromURL(s.BaseURL, rawURL)
}

// path resolves key below Dir and rejects keys escaping it
func (s *LocalImageStorage) path(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.Dir, clean), nil
}
