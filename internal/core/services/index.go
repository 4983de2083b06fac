package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/askdocs-cli/internal/chunker"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// embedBatchSize is how many passages are embedded per collaborator call.
const embedBatchSize = 32

// IndexSwapper is the process-wide index handle the service queries,
// extends, and atomically replaces on rebuild.
type IndexSwapper interface {
	driven.VectorIndex

	// Swap replaces the active index and returns the displaced one.
	Swap(next driven.VectorIndex) driven.VectorIndex
}

// IndexService ingests PDFs from the docs directory into the corpus:
// extract, catalog, chunk, embed, index, persist. It is the single
// writer of index state; queries keep running against the prior
// snapshot until a rebuild swaps the new index in.
type IndexService struct {
	corpus    driven.CorpusStore
	extractor driven.Extractor
	embedder  driven.EmbeddingService
	chunker   *chunker.Chunker
	index     IndexSwapper
	newIndex  func() driven.VectorIndex
	docsDir   string

	// limiter paces embedding batch calls so bulk ingestion stays
	// under provider rate limits.
	limiter *rate.Limiter
}

// NewIndexService creates an index service. newIndex builds an empty
// index for rebuilds; the service owns swapping it into the handle.
func NewIndexService(
	corpus driven.CorpusStore,
	extractor driven.Extractor,
	embedder driven.EmbeddingService,
	chk *chunker.Chunker,
	index IndexSwapper,
	newIndex func() driven.VectorIndex,
	docsDir string,
) *IndexService {
	return &IndexService{
		corpus:    corpus,
		extractor: extractor,
		embedder:  embedder,
		chunker:   chk,
		index:     index,
		newIndex:  newIndex,
		docsDir:   docsDir,
		limiter:   rate.NewLimiter(rate.Limit(2), 4),
	}
}

// SetRateLimit overrides the embedding call pacing.
func (s *IndexService) SetRateLimit(perSecond float64, burst int) {
	s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Index scans the docs directory for PDFs not yet cataloged and
// ingests them into the active index, then persists the snapshot.
func (s *IndexService) Index(ctx context.Context) (*driving.IndexReport, error) {
	logger.Section("Index")

	paths, err := s.scanDocsDir()
	if err != nil {
		return nil, err
	}

	known, err := s.knownDocuments(ctx)
	if err != nil {
		return nil, err
	}

	report := &driving.IndexReport{}
	for _, path := range paths {
		id := filepath.Base(path)
		if known[id] {
			logger.Debug("Skipping %s: already indexed", id)
			continue
		}

		passages, err := s.ingest(ctx, path, s.index)
		if err != nil {
			return nil, err
		}
		if passages == 0 {
			report.DocumentsSkipped++
			continue
		}
		report.DocumentsAdded++
		report.Passages += passages
	}

	if report.DocumentsAdded > 0 {
		if err := s.index.Persist(ctx); err != nil {
			return nil, err
		}
	}

	logger.Info("Indexed %d documents (%d passages, %d without text)",
		report.DocumentsAdded, report.Passages, report.DocumentsSkipped)
	return report, nil
}

// Reindex rebuilds the whole index from the cataloged documents into
// a fresh index, persists it, and swaps it in atomically. In-flight
// queries finish against the prior snapshot. For a fixed catalog and
// embedding model the rebuilt snapshot is byte-identical.
func (s *IndexService) Reindex(ctx context.Context) (*driving.IndexReport, error) {
	logger.Section("Reindex")

	docs, err := s.corpus.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing documents: %s", domain.ErrCollaborator, err)
	}

	fresh := s.newIndex()
	report := &driving.IndexReport{}

	for _, doc := range docs {
		passages, err := s.corpus.GetPassages(ctx, doc.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: loading passages for %s: %s", domain.ErrCollaborator, doc.ID, err)
		}
		if len(passages) == 0 {
			report.DocumentsSkipped++
			continue
		}

		if err := s.embedAndAdd(ctx, fresh, passages); err != nil {
			return nil, err
		}
		report.DocumentsAdded++
		report.Passages += len(passages)
	}

	if err := fresh.Persist(ctx); err != nil {
		return nil, err
	}

	prev := s.index.Swap(fresh)
	if prev != nil {
		prev.Close()
	}

	logger.Info("Rebuilt index: %d documents, %d passages", report.DocumentsAdded, report.Passages)
	return report, nil
}

// Status reports the current index state.
func (s *IndexService) Status(ctx context.Context) (*driving.IndexStatus, error) {
	docs, err := s.corpus.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing documents: %s", domain.ErrCollaborator, err)
	}

	return &driving.IndexStatus{
		Documents:  len(docs),
		Passages:   s.index.Len(),
		Dimensions: s.index.Dimensions(),
		Ready:      !s.index.IsEmpty(),
	}, nil
}

// ingest extracts one PDF, catalogs it, and adds its passages to idx.
// Returns the number of passages added; 0 with nil error means the
// file had no extractable text.
func (s *IndexService) ingest(ctx context.Context, path string, idx driven.VectorIndex) (int, error) {
	passages, err := s.catalog(ctx, path)
	if err != nil {
		return 0, err
	}
	if len(passages) == 0 {
		return 0, nil
	}

	if err := s.embedAndAdd(ctx, idx, passages); err != nil {
		return 0, err
	}
	return len(passages), nil
}

// catalog extracts one PDF and stores its pages and passages, without
// touching the index. Returns nil passages when the file has no
// extractable text.
func (s *IndexService) catalog(ctx context.Context, path string) ([]domain.Passage, error) {
	id := filepath.Base(path)
	logger.Debug("Extracting %s", id)

	doc, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: extracting %s: %s", domain.ErrCollaborator, id, err)
	}
	doc.IndexedAt = time.Now().UTC()

	if err := s.corpus.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: cataloging %s: %s", domain.ErrCollaborator, id, err)
	}

	passages := s.chunker.Chunk(doc)
	if len(passages) == 0 {
		logger.Warn("%s has no extractable text", id)
		return nil, nil
	}

	if err := s.corpus.SavePassages(ctx, doc.ID, passages); err != nil {
		return nil, fmt.Errorf("%w: saving passages for %s: %s", domain.ErrCollaborator, id, err)
	}

	return passages, nil
}

// embedAndAdd embeds passages in rate-limited batches and adds them
// to the index.
func (s *IndexService) embedAndAdd(ctx context.Context, idx driven.VectorIndex, passages []domain.Passage) error {
	if s.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	for start := 0; start < len(passages); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(passages) {
			end = len(passages)
		}
		batch := passages[start:end]

		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		texts := make([]string, len(batch))
		for i := range batch {
			texts[i] = batch[i].Text
		}

		embeddings, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("%w: embedding batch: %s", domain.ErrCollaborator, err)
		}

		if err := idx.Add(ctx, batch, embeddings); err != nil {
			return err
		}
	}
	return nil
}

// scanDocsDir lists PDF files under the docs directory, sorted by
// name for deterministic ingestion order.
func (s *IndexService) scanDocsDir() ([]string, error) {
	if s.docsDir == "" {
		return nil, fmt.Errorf("%w: docs directory not configured", domain.ErrInvalidInput)
	}

	entries, err := os.ReadDir(s.docsDir)
	if err != nil {
		return nil, fmt.Errorf("reading docs directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			paths = append(paths, filepath.Join(s.docsDir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// knownDocuments returns the set of cataloged document IDs.
func (s *IndexService) knownDocuments(ctx context.Context) (map[string]bool, error) {
	docs, err := s.corpus.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing documents: %s", domain.ErrCollaborator, err)
	}
	known := make(map[string]bool, len(docs))
	for _, doc := range docs {
		known[doc.ID] = true
	}
	return known, nil
}
