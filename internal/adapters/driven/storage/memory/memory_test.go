package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

func TestBlobStore_PutGetRoundTrip(t *testing.T) {
	s := NewBlobStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "index/corpus", []byte("snapshot")))

	data, err := s.Get(ctx, "index/corpus")
	require.NoError(t, err)
	assert.Equal(t, []byte("snapshot"), data)

	exists, err := s.Exists(ctx, "index/corpus")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestBlobStore_GetMissing(t *testing.T) {
	s := NewBlobStore()
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBlobStore_PutCopiesData(t *testing.T) {
	s := NewBlobStore()
	ctx := context.Background()

	data := []byte("original")
	require.NoError(t, s.Put(ctx, "k", data))
	data[0] = 'X'

	stored, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), stored)
}

func TestBlobStore_DeleteMissingIsNoError(t *testing.T) {
	s := NewBlobStore()
	assert.NoError(t, s.Delete(context.Background(), "nope"))
}

func TestCorpusStore_DocumentLifecycle(t *testing.T) {
	s := NewCorpusStore()
	ctx := context.Background()

	doc := &domain.Document{
		ID:        "report.pdf",
		Title:     "report",
		Pages:     []domain.Page{{Number: 1, Text: "hello"}},
		PageCount: 1,
		IndexedAt: time.Now(),
	}
	require.NoError(t, s.SaveDocument(ctx, doc))

	got, err := s.GetDocument(ctx, "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Pages[0].Text)

	docs, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Nil(t, docs[0].Pages, "listing omits page text")

	require.NoError(t, s.DeleteDocument(ctx, "report.pdf"))
	_, err = s.GetDocument(ctx, "report.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCorpusStore_ListOrderedByID(t *testing.T) {
	s := NewCorpusStore()
	ctx := context.Background()

	for _, id := range []string{"c.pdf", "a.pdf", "b.pdf"} {
		require.NoError(t, s.SaveDocument(ctx, &domain.Document{ID: id}))
	}

	docs, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "a.pdf", docs[0].ID)
	assert.Equal(t, "b.pdf", docs[1].ID)
	assert.Equal(t, "c.pdf", docs[2].ID)
}

func TestCorpusStore_Passages(t *testing.T) {
	s := NewCorpusStore()
	ctx := context.Background()

	passages := []domain.Passage{
		{ID: "a.pdf:1:0", DocumentID: "a.pdf", Page: 1, Text: "one"},
		{ID: "a.pdf:1:1", DocumentID: "a.pdf", Page: 1, Ordinal: 1, Text: "two"},
	}
	require.NoError(t, s.SavePassages(ctx, "a.pdf", passages))

	got, err := s.GetPassages(ctx, "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, passages, got)

	count, err := s.CountPassages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Saving again replaces, never appends.
	require.NoError(t, s.SavePassages(ctx, "a.pdf", passages[:1]))
	count, err = s.CountPassages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCorpusStore_DeleteMissing(t *testing.T) {
	s := NewCorpusStore()
	err := s.DeleteDocument(context.Background(), "nope.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryStore_NewestFirst(t *testing.T) {
	s := NewHistoryStore()
	ctx := context.Background()

	for _, q := range []string{"first", "second", "third"} {
		require.NoError(t, s.SaveRecord(ctx, domain.AskRecord{
			ID:       q,
			Question: q,
		}))
	}

	records, err := s.ListRecords(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "third", records[0].Question)
	assert.Equal(t, "second", records[1].Question)

	all, err := s.ListRecords(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
