package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askdocs-cli/internal/chunker"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/vectorindex"
	"github.com/custodia-labs/askdocs-cli/internal/vectorindex/flat"
)

// mockExtractor implements driven.Extractor for testing. Each file
// yields a single page whose text is derived from the file name.
type mockExtractor struct {
	extractErr error
	emptyText  bool
}

func (m *mockExtractor) Extract(_ context.Context, path string) (*domain.Document, error) {
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	id := filepath.Base(path)
	text := "content of " + id
	if m.emptyText {
		text = ""
	}
	return &domain.Document{
		ID:    id,
		Path:  path,
		Title: id,
		Pages: []domain.Page{{Number: 1, Text: text}},
	}, nil
}

func (m *mockExtractor) CheckAvailable(_ context.Context) error { return nil }

// indexFixture wires an IndexService over in-memory collaborators
// and a docs directory holding the named PDF files.
type indexFixture struct {
	svc    *IndexService
	corpus *memory.CorpusStore
	handle *vectorindex.Handle
	docs   string
}

func newIndexFixture(t *testing.T, extractor driven.Extractor, pdfNames ...string) *indexFixture {
	t.Helper()

	docs := t.TempDir()
	for _, name := range pdfNames {
		require.NoError(t, os.WriteFile(filepath.Join(docs, name), []byte("%PDF-1.4"), 0o600))
	}

	blobs := memory.NewBlobStore()
	newIndex := func() driven.VectorIndex {
		return flat.New(flat.Config{ModelName: "mock-embed", Blobs: blobs})
	}
	corpus := memory.NewCorpusStore()
	handle := vectorindex.NewHandle(newIndex())

	svc := NewIndexService(
		corpus,
		extractor,
		&mockEmbeddingService{embedding: []float32{1, 0}},
		chunker.New(),
		handle,
		newIndex,
		docs,
	)
	svc.SetRateLimit(10000, 100)

	return &indexFixture{svc: svc, corpus: corpus, handle: handle, docs: docs}
}

func TestIndexService_IndexesNewPDFs(t *testing.T) {
	f := newIndexFixture(t, &mockExtractor{}, "a.pdf", "b.pdf")

	report, err := f.svc.Index(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.DocumentsAdded)
	assert.Equal(t, 2, report.Passages)
	assert.Equal(t, 0, report.DocumentsSkipped)

	docs, err := f.corpus.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.pdf", docs[0].ID)

	assert.Equal(t, 2, f.handle.Len())
}

func TestIndexService_SkipsAlreadyIndexed(t *testing.T) {
	f := newIndexFixture(t, &mockExtractor{}, "a.pdf")

	_, err := f.svc.Index(context.Background())
	require.NoError(t, err)

	report, err := f.svc.Index(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.DocumentsAdded)
	assert.Equal(t, 1, f.handle.Len())
}

func TestIndexService_SkipsTextlessPDF(t *testing.T) {
	f := newIndexFixture(t, &mockExtractor{emptyText: true}, "scan.pdf")

	report, err := f.svc.Index(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.DocumentsAdded)
	assert.Equal(t, 1, report.DocumentsSkipped)
	assert.True(t, f.handle.IsEmpty())
}

func TestIndexService_IgnoresNonPDFFiles(t *testing.T) {
	f := newIndexFixture(t, &mockExtractor{}, "a.pdf")
	require.NoError(t, os.WriteFile(filepath.Join(f.docs, "notes.txt"), []byte("text"), 0o600))

	report, err := f.svc.Index(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.DocumentsAdded)
}

func TestIndexService_ExtractionFailure(t *testing.T) {
	f := newIndexFixture(t, &mockExtractor{extractErr: fmt.Errorf("pdftotext exited 1")}, "a.pdf")

	_, err := f.svc.Index(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCollaborator)
}

func TestIndexService_ReindexSwapsFreshIndex(t *testing.T) {
	f := newIndexFixture(t, &mockExtractor{}, "a.pdf", "b.pdf")

	_, err := f.svc.Index(context.Background())
	require.NoError(t, err)
	before := f.handle.Len()

	report, err := f.svc.Reindex(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.DocumentsAdded)
	assert.Equal(t, before, f.handle.Len())

	// The rebuilt index still answers queries.
	evidence, err := f.handle.Query(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Len(t, evidence, 2)
}

func TestIndexService_Status(t *testing.T) {
	f := newIndexFixture(t, &mockExtractor{}, "a.pdf")

	status, err := f.svc.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Ready)
	assert.Equal(t, 0, status.Documents)

	_, err = f.svc.Index(context.Background())
	require.NoError(t, err)

	status, err = f.svc.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Ready)
	assert.Equal(t, 1, status.Documents)
	assert.Equal(t, 1, status.Passages)
	assert.Equal(t, 2, status.Dimensions)
}

func TestDocumentService_RemoveRebuildsIndex(t *testing.T) {
	f := newIndexFixture(t, &mockExtractor{}, "a.pdf", "b.pdf")

	_, err := f.svc.Index(context.Background())
	require.NoError(t, err)

	docSvc := NewDocumentService(f.corpus, f.svc)
	require.NoError(t, docSvc.Remove(context.Background(), "a.pdf"))

	docs, err := docSvc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b.pdf", docs[0].ID)

	assert.Equal(t, 1, f.handle.Len())

	_, err = docSvc.Get(context.Background(), "a.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_RemoveUnknownDocument(t *testing.T) {
	f := newIndexFixture(t, &mockExtractor{})

	docSvc := NewDocumentService(f.corpus, f.svc)
	err := docSvc.Remove(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
