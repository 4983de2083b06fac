package driving

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// IndexStatus reports the state of the corpus index.
type IndexStatus struct {
	// Documents is the number of cataloged documents.
	Documents int

	// Passages is the number of indexed passages.
	Passages int

	// Dimensions is the embedding dimensionality, 0 when empty.
	Dimensions int

	// Ready reports whether the index can answer queries.
	Ready bool
}

// IndexReport summarises one ingestion run.
type IndexReport struct {
	// DocumentsAdded is how many documents were extracted and indexed.
	DocumentsAdded int

	// DocumentsSkipped is how many files yielded no extractable text.
	DocumentsSkipped int

	// Passages is how many passages were added to the index.
	Passages int
}

// IndexService ingests PDF documents into the corpus index.
type IndexService interface {
	// Index scans the configured docs directory for PDFs not yet in
	// the corpus, extracts, chunks, embeds, and indexes them, then
	// persists the index.
	Index(ctx context.Context) (*IndexReport, error)

	// Reindex rebuilds the whole index from the cataloged documents.
	// The rebuilt index replaces the active one atomically; queries
	// in flight finish against the prior snapshot.
	Reindex(ctx context.Context) (*IndexReport, error)

	// Status reports the current index state.
	Status(ctx context.Context) (*IndexStatus, error)

	// Watch blocks, reindexing whenever PDFs under the docs directory
	// change, until ctx is cancelled.
	Watch(ctx context.Context) error
}

// DocumentService manages documents in the corpus catalog.
type DocumentService interface {
	// List returns all cataloged documents, without page text.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves one document with pages.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Remove deletes a document from the catalog and rebuilds the
	// index without it.
	Remove(ctx context.Context, id string) error
}
