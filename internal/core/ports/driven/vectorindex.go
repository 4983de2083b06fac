package driven

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// VectorIndex owns the passage → embedding mapping and answers
// k-nearest-neighbour queries over it. The contract is backed by an
// exact brute-force scan at the corpus sizes this tool targets, but
// an approximate index can be substituted without changing callers.
//
// Access discipline is single-writer, multiple-reader: Query may run
// concurrently, Add and Load require exclusive access. The index is
// the sole writer of its persisted snapshot.
type VectorIndex interface {
	// Add appends passage/embedding pairs. Each passage ID must be
	// unique within the index: a duplicate fails the whole call with
	// domain.ErrConflict and nothing is added. An embedding whose
	// length differs from the index dimensionality fails with
	// domain.ErrDimensionMismatch.
	Add(ctx context.Context, passages []domain.Passage, embeddings [][]float32) error

	// Query returns the k stored passages most similar to the vector,
	// ranked by descending score with ties broken ascending by passage
	// ID. Fails with domain.ErrIndexNotReady when the index is empty.
	// If fewer than k passages exist, all of them are returned.
	Query(ctx context.Context, vector []float32, k int) (domain.RetrievedEvidence, error)

	// Persist writes the full index (vectors + passage metadata +
	// embedding model version) to durable storage as one atomic unit.
	// A partially written snapshot is never observable by Load.
	Persist(ctx context.Context) error

	// Load replaces the index contents from the persisted snapshot.
	// Fails with domain.ErrMalformedIndex when the snapshot does not
	// pass checksum or shape validation, and with domain.ErrNotFound
	// when no snapshot exists.
	Load(ctx context.Context) error

	// IsEmpty reports whether the index holds zero passages.
	IsEmpty() bool

	// Len returns the number of stored passages.
	Len() int

	// Dimensions returns the embedding dimensionality, 0 until the
	// first Add or Load fixes it.
	Dimensions() int

	// Close releases resources.
	Close() error
}
