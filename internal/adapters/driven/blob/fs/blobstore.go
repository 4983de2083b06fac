// Package fs provides a filesystem-backed blob store for index
// snapshots.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// BlobStore stores blobs as files under a root directory. Writes go
// through a temp file plus rename, so a reader never observes a
// partially written blob even across a crash mid-write.
type BlobStore struct {
	root string
}

// NewBlobStore creates a blob store rooted at dir, creating it if
// needed.
func NewBlobStore(dir string) (*BlobStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty blob directory", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}
	return &BlobStore{root: dir}, nil
}

// Put stores the blob under key, replacing any existing value.
func (s *BlobStore) Put(_ context.Context, key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating blob subdirectory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".blob-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing blob: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing blob: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publishing blob: %w", err)
	}
	return nil
}

// Get retrieves the blob stored under key.
func (s *BlobStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: blob %s", domain.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading blob: %w", err)
	}
	return data, nil
}

// Delete removes the blob under key. Deleting a missing key is not an
// error.
func (s *BlobStore) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting blob: %w", err)
	}
	return nil
}

// Exists reports whether a blob is stored under key.
func (s *BlobStore) Exists(_ context.Context, key string) (bool, error) {
	path, err := s.path(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking blob: %w", err)
	}
	return true, nil
}

// Close releases resources.
func (s *BlobStore) Close() error {
	return nil
}

// path maps a key to a file path under the root, rejecting keys that
// would escape it.
func (s *BlobStore) path(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty blob key", domain.ErrInvalidInput)
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: blob key escapes store root: %s", domain.ErrInvalidInput, key)
	}
	return filepath.Join(s.root, clean), nil
}
