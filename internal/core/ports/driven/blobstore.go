package driven

import "context"

// BlobStore is opaque durable storage for index snapshots, keyed by
// string. Put must be atomic: a reader never observes a partially
// written blob, even across a crash mid-write.
//
// Implementations may include:
//   - Filesystem (temp file + rename)
//   - bbolt (single transaction per write)
//   - S3-compatible object stores (single PutObject)
type BlobStore interface {
	// Put stores the blob under key, replacing any existing value.
	Put(ctx context.Context, key string, data []byte) error

	// Get retrieves the blob stored under key.
	// Fails with domain.ErrNotFound when the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a blob is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Close releases resources.
	Close() error
}
