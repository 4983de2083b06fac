package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
)

// Mock services for command tests. Each mock returns canned data so
// command output can be asserted without real dependencies.

type mockAskService struct {
	answer *domain.Answer
	err    error
}

func (m *mockAskService) Ask(_ context.Context, _ string) (*domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

type mockIndexService struct {
	report *driving.IndexReport
	status *driving.IndexStatus
	err    error
}

func (m *mockIndexService) Index(_ context.Context) (*driving.IndexReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func (m *mockIndexService) Reindex(_ context.Context) (*driving.IndexReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func (m *mockIndexService) Status(_ context.Context) (*driving.IndexStatus, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.status, nil
}

func (m *mockIndexService) Watch(_ context.Context) error {
	return m.err
}

type mockDocumentService struct {
	docs []domain.Document
	doc  *domain.Document
	err  error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.docs, nil
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.doc, nil
}

func (m *mockDocumentService) Remove(_ context.Context, _ string) error {
	return m.err
}

type mockHistoryService struct {
	records []domain.AskRecord
	err     error
}

func (m *mockHistoryService) List(_ context.Context, limit int) ([]domain.AskRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > 0 && limit < len(m.records) {
		return m.records[:limit], nil
	}
	return m.records, nil
}

// setupTestServices installs mocks with canned data and returns a
// cleanup function restoring the previous services.
func setupTestServices() func() {
	prevAsk := askService
	prevIndex := indexService
	prevDocument := documentService
	prevHistory := historyService

	askService = &mockAskService{
		answer: &domain.Answer{
			Text: "Paris is the capital of France.",
			Citations: []domain.Citation{
				{Source: "geography.pdf", Page: 12, Preview: "Paris, the capital..."},
			},
		},
	}
	indexService = &mockIndexService{
		report: &driving.IndexReport{DocumentsAdded: 2, DocumentsSkipped: 1, Passages: 40},
		status: &driving.IndexStatus{Documents: 2, Passages: 40, Dimensions: 768, Ready: true},
	}
	documentService = &mockDocumentService{
		docs: []domain.Document{
			{
				ID:        "doc-1",
				Path:      "/docs/geography.pdf",
				Title:     "Geography Basics",
				PageCount: 12,
				IndexedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
			},
		},
		doc: &domain.Document{
			ID:        "doc-1",
			Path:      "/docs/geography.pdf",
			Title:     "Geography Basics",
			PageCount: 1,
			Pages:     []domain.Page{{Number: 1, Text: "Paris is the capital of France."}},
		},
	}
	historyService = &mockHistoryService{
		records: []domain.AskRecord{
			{
				ID:        "rec-1",
				Question:  "What is the capital of France?",
				Answer:    "Paris is the capital of France.",
				CreatedAt: time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC),
			},
		},
	}

	return func() {
		askService = prevAsk
		indexService = prevIndex
		documentService = prevDocument
		historyService = prevHistory
	}
}
