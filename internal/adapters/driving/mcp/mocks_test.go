package mcp

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
)

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	answer *domain.Answer
	err    error
}

func (m *mockAskService) Ask(_ context.Context, _ string) (*domain.Answer, error) {
	return m.answer, m.err
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	report *driving.IndexReport
	status *driving.IndexStatus
	err    error
}

func (m *mockIndexService) Index(_ context.Context) (*driving.IndexReport, error) {
	return m.report, m.err
}

func (m *mockIndexService) Reindex(_ context.Context) (*driving.IndexReport, error) {
	return m.report, m.err
}

func (m *mockIndexService) Status(_ context.Context) (*driving.IndexStatus, error) {
	return m.status, m.err
}

func (m *mockIndexService) Watch(_ context.Context) error {
	return m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Remove(_ context.Context, _ string) error {
	return m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	records []domain.AskRecord
	err     error
}

func (m *mockHistoryService) List(_ context.Context, _ int) ([]domain.AskRecord, error) {
	return m.records, m.err
}
