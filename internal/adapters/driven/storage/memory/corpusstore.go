package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore is an in-memory implementation of driven.CorpusStore.
type CorpusStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	passages  map[string][]domain.Passage
}

// NewCorpusStore creates a new in-memory corpus store.
func NewCorpusStore() *CorpusStore {
	return &CorpusStore{
		documents: make(map[string]domain.Document),
		passages:  make(map[string][]domain.Passage),
	}
}

// SaveDocument stores or replaces a document with its pages.
func (s *CorpusStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID, including pages.
func (s *CorpusStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns all documents ordered by ID, without page text.
func (s *CorpusStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		doc.Pages = nil
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// DeleteDocument removes a document and its passages.
func (s *CorpusStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	delete(s.passages, id)
	return nil
}

// SavePassages stores the passages for a document.
func (s *CorpusStore) SavePassages(_ context.Context, documentID string, passages []domain.Passage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]domain.Passage, len(passages))
	copy(cp, passages)
	s.passages[documentID] = cp
	return nil
}

// GetPassages returns the passages of one document in chunk order.
func (s *CorpusStore) GetPassages(_ context.Context, documentID string) ([]domain.Passage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	passages, ok := s.passages[documentID]
	if !ok {
		return nil, nil
	}
	cp := make([]domain.Passage, len(passages))
	copy(cp, passages)
	return cp, nil
}

// CountPassages returns the total number of stored passages.
func (s *CorpusStore) CountPassages(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, passages := range s.passages {
		count += len(passages)
	}
	return count, nil
}
