package driven

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// CorpusStore is the catalog of ingested documents and their passages.
// It is the source of truth for index rebuilds: re-chunking the
// cataloged documents with the same configuration reproduces the
// index byte for byte.
type CorpusStore interface {
	// SaveDocument stores or replaces a document with its pages.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID, including pages.
	// Fails with domain.ErrNotFound when the document does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents ordered by ID, without page
	// text (PageCount is populated, Pages is nil).
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document and its passages.
	// Fails with domain.ErrNotFound when the document does not exist.
	DeleteDocument(ctx context.Context, id string) error

	// SavePassages stores the passages for a document, replacing any
	// previously stored set.
	SavePassages(ctx context.Context, documentID string, passages []domain.Passage) error

	// GetPassages returns the passages of one document in chunk order.
	GetPassages(ctx context.Context, documentID string) ([]domain.Passage, error)

	// CountPassages returns the total number of stored passages.
	CountPassages(ctx context.Context) (int, error)
}
