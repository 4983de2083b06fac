package services

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService exposes ask history.
type HistoryService struct {
	store driven.HistoryStore
}

// NewHistoryService creates a history service.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// List returns up to limit history rows, newest first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.AskRecord, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListRecords(ctx, limit)
}
