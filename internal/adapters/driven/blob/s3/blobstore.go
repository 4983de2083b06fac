// Package s3 provides a blob store backed by an S3-compatible object
// store (MinIO, AWS S3). Each Put is a single PutObject call, so
// readers never observe a partial blob.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// Config holds configuration for the S3 blob store.
type Config struct {
	// Endpoint is the S3-compatible endpoint, with or without scheme
	// (e.g. "minio.local:9000" or "https://s3.amazonaws.com").
	Endpoint string

	// Bucket holds the blobs (required). It is created when missing.
	Bucket string

	// AccessKey and SecretKey are the static credentials.
	AccessKey string
	SecretKey string

	// UseSSL enables TLS. An https:// endpoint scheme implies it.
	UseSSL bool
}

// BlobStore stores blobs as objects in one bucket.
type BlobStore struct {
	client *minio.Client
	bucket string
}

// NewBlobStore creates an S3 blob store and ensures the bucket
// exists.
func NewBlobStore(ctx context.Context, cfg Config) (*BlobStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: s3 endpoint is required", domain.ErrInvalidInput)
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: s3 bucket is required", domain.ErrInvalidInput)
	}

	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL
	if u, err := url.Parse(cfg.Endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			useSSL = true
		}
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating s3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &BlobStore{client: client, bucket: cfg.Bucket}, nil
}

// Put stores the blob under key, replacing any existing value.
func (s *BlobStore) Put(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return fmt.Errorf("%w: empty blob key", domain.ErrInvalidInput)
	}

	_, err := s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return fmt.Errorf("storing blob %s: %w", key, err)
	}
	return nil
}

// Get retrieves the blob stored under key.
func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetching blob %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: blob %s", domain.ErrNotFound, key)
		}
		return nil, fmt.Errorf("reading blob %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the blob under key. Deleting a missing key is not an
// error.
func (s *BlobStore) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("deleting blob %s: %w", key, err)
	}
	return nil
}

// Exists reports whether a blob is stored under key.
func (s *BlobStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking blob %s: %w", key, err)
	}
	return true, nil
}

// Close releases resources.
func (s *BlobStore) Close() error {
	return nil
}

// isNotFound reports whether err is an S3 "no such key" response.
func isNotFound(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.StatusCode == http.StatusNotFound
	}
	return false
}
