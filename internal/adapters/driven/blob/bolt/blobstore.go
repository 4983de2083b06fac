// Package bolt provides a bbolt-backed blob store for index
// snapshots. Each Put is a single write transaction, so readers never
// observe a partial blob.
package bolt

import (
	"context"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// bucketName holds all blobs.
var bucketName = []byte("blobs")

// BlobStore stores blobs in a local bbolt database file.
type BlobStore struct {
	db *bbolt.DB
}

// NewBlobStore opens (or creates) the database at path.
func NewBlobStore(path string) (*BlobStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", domain.ErrInvalidInput)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating blobs bucket: %w", err)
	}

	return &BlobStore{db: db}, nil
}

// Put stores the blob under key, replacing any existing value.
func (s *BlobStore) Put(_ context.Context, key string, data []byte) error {
	if key == "" {
		return fmt.Errorf("%w: empty blob key", domain.ErrInvalidInput)
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("storing blob: %w", err)
	}
	return nil
}

// Get retrieves the blob stored under key.
func (s *BlobStore) Get(_ context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v == nil {
			return fmt.Errorf("%w: blob %s", domain.ErrNotFound, key)
		}
		// The value is only valid inside the transaction.
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Delete removes the blob under key. Deleting a missing key is not an
// error.
func (s *BlobStore) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("deleting blob: %w", err)
	}
	return nil
}

// Exists reports whether a blob is stored under key.
func (s *BlobStore) Exists(_ context.Context, key string) (bool, error) {
	var exists bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		exists = tx.Bucket(bucketName).Get([]byte(key)) != nil
		return nil
	})
	return exists, err
}

// Close releases the database file.
func (s *BlobStore) Close() error {
	return s.db.Close()
}
