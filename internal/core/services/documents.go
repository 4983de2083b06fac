package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// reindexer rebuilds the index after catalog changes.
type reindexer interface {
	Reindex(ctx context.Context) (*driving.IndexReport, error)
}

// DocumentService manages documents in the corpus catalog.
type DocumentService struct {
	corpus  driven.CorpusStore
	indexer reindexer
}

// NewDocumentService creates a document service. The indexer is used
// to rebuild the index after removals.
func NewDocumentService(corpus driven.CorpusStore, indexer reindexer) *DocumentService {
	return &DocumentService{corpus: corpus, indexer: indexer}
}

// List returns all cataloged documents, without page text.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.corpus.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing documents: %s", domain.ErrCollaborator, err)
	}
	return docs, nil
}

// Get retrieves one document with pages.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput)
	}
	return s.corpus.GetDocument(ctx, id)
}

// Remove deletes a document from the catalog and rebuilds the index
// without it.
func (s *DocumentService) Remove(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput)
	}

	if err := s.corpus.DeleteDocument(ctx, id); err != nil {
		return err
	}
	logger.Info("Removed %s from catalog", id)

	if _, err := s.indexer.Reindex(ctx); err != nil {
		return fmt.Errorf("rebuilding index after removal: %w", err)
	}
	return nil
}
