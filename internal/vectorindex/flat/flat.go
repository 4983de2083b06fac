// Package flat provides an exact brute-force vector index.
//
// At the corpus sizes askdocs targets (hundreds of documents, tens of
// thousands of passages) a linear scan answers queries in well under a
// millisecond, so no approximate structure is needed. The index
// implements the driven.VectorIndex port, so an approximate
// implementation can be substituted without touching callers.
package flat

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Similarity selects the scoring function, fixed at construction.
type Similarity byte

// Available similarity functions.
const (
	// SimilarityCosine scores by cosine similarity.
	SimilarityCosine Similarity = iota

	// SimilarityDot scores by inner product.
	SimilarityDot
)

// String returns the similarity name.
func (s Similarity) String() string {
	switch s {
	case SimilarityCosine:
		return "cosine"
	case SimilarityDot:
		return "dot"
	default:
		return "unknown"
	}
}

// Config holds configuration for the flat index.
type Config struct {
	// Similarity is the scoring function (default: cosine).
	Similarity Similarity

	// ModelName is the embedding model version recorded in the
	// snapshot and validated on load. Mixing model versions in one
	// index silently corrupts similarity semantics, so load refuses
	// snapshots written under a different model.
	ModelName string

	// Blobs is the durable storage for snapshots.
	Blobs driven.BlobStore

	// Key is the blob key the snapshot lives under.
	Key string
}

// record pairs one passage with its embedding.
type record struct {
	passage domain.Passage
	vector  []float32
}

// Index is an exact k-NN index over passage embeddings.
//
// Access is single-writer, multiple-reader: Query takes a read lock
// and may run concurrently; Add and Load take the write lock.
type Index struct {
	mu   sync.RWMutex
	cfg  Config
	dims int

	records []record
	byID    map[string]int
}

// New creates an empty flat index. Dimensionality is fixed by the
// first Add or Load.
func New(cfg Config) *Index {
	if cfg.Key == "" {
		cfg.Key = "index/corpus"
	}
	return &Index{
		cfg:  cfg,
		byID: make(map[string]int),
	}
}

// Add appends passage/embedding pairs. The whole batch is validated
// before anything is stored: a duplicate ID fails with
// domain.ErrConflict, a wrong-length embedding with
// domain.ErrDimensionMismatch, and in both cases nothing is added.
func (idx *Index) Add(_ context.Context, passages []domain.Passage, embeddings [][]float32) error {
	if len(passages) != len(embeddings) {
		return fmt.Errorf("%w: %d passages but %d embeddings",
			domain.ErrInvalidInput, len(passages), len(embeddings))
	}
	if len(passages) == 0 {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	dims := idx.dims
	if dims == 0 {
		dims = len(embeddings[0])
	}

	batch := make(map[string]bool, len(passages))
	for i, p := range passages {
		if _, exists := idx.byID[p.ID]; exists {
			return fmt.Errorf("%w: %s", domain.ErrConflict, p.ID)
		}
		if batch[p.ID] {
			return fmt.Errorf("%w: %s", domain.ErrConflict, p.ID)
		}
		batch[p.ID] = true

		if len(embeddings[i]) != dims {
			return fmt.Errorf("%w: passage %s has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, p.ID, len(embeddings[i]), dims)
		}
	}

	idx.dims = dims
	for i, p := range passages {
		idx.byID[p.ID] = len(idx.records)
		idx.records = append(idx.records, record{passage: p, vector: embeddings[i]})
	}
	return nil
}

// Query returns the k most similar passages, descending by score with
// ties broken ascending by passage ID for determinism.
func (idx *Index) Query(_ context.Context, vector []float32, k int) (domain.RetrievedEvidence, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.records) == 0 {
		return nil, domain.ErrIndexNotReady
	}
	if len(vector) != idx.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(vector), idx.dims)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}

	type scored struct {
		pos   int
		score float64
	}

	hits := make([]scored, len(idx.records))
	for i := range idx.records {
		hits[i] = scored{pos: i, score: idx.score(vector, idx.records[i].vector)}
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].score != hits[b].score {
			return hits[a].score > hits[b].score
		}
		return idx.records[hits[a].pos].passage.ID < idx.records[hits[b].pos].passage.ID
	})

	if k > len(hits) {
		k = len(hits)
	}

	evidence := make(domain.RetrievedEvidence, k)
	for i := 0; i < k; i++ {
		p := idx.records[hits[i].pos].passage
		evidence[i] = domain.Evidence{Passage: &p, Score: hits[i].score}
	}
	return evidence, nil
}

// score computes the configured similarity between two vectors.
func (idx *Index) score(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if idx.cfg.Similarity == SimilarityDot {
		return dot
	}

	// Cosine. Zero vectors have no direction; score them 0.
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// IsEmpty reports whether the index holds zero passages.
func (idx *Index) IsEmpty() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.records) == 0
}

// Len returns the number of stored passages.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.records)
}

// Dimensions returns the embedding dimensionality, 0 until the first
// Add or Load fixes it.
func (idx *Index) Dimensions() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dims
}

// Persist writes the full index to the blob store as one snapshot.
// Atomicity is the blob store's contract; the index only ever hands
// it a complete, checksummed encoding.
func (idx *Index) Persist(ctx context.Context) error {
	if idx.cfg.Blobs == nil {
		return fmt.Errorf("%w: no blob store configured", domain.ErrInvalidInput)
	}

	idx.mu.RLock()
	data := idx.encode()
	idx.mu.RUnlock()

	if err := idx.cfg.Blobs.Put(ctx, idx.cfg.Key, data); err != nil {
		return fmt.Errorf("%w: persisting index: %s", domain.ErrCollaborator, err)
	}
	return nil
}

// Load replaces the index contents from the persisted snapshot.
func (idx *Index) Load(ctx context.Context) error {
	if idx.cfg.Blobs == nil {
		return fmt.Errorf("%w: no blob store configured", domain.ErrInvalidInput)
	}

	data, err := idx.cfg.Blobs.Get(ctx, idx.cfg.Key)
	if err != nil {
		return err
	}

	dims, records, err := decode(data, idx.cfg.Similarity, idx.cfg.ModelName)
	if err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.dims = dims
	idx.records = records
	idx.byID = make(map[string]int, len(records))
	for i := range records {
		idx.byID[records[i].passage.ID] = i
	}
	return nil
}

// Close releases resources. The flat index holds none.
func (idx *Index) Close() error {
	return nil
}
