// Package vectorindex provides the process-wide handle to the active
// vector index.
package vectorindex

import (
	"context"
	"sync"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure Handle implements the interface.
var _ driven.VectorIndex = (*Handle)(nil)

// Handle wraps the active index and swaps in a replacement
// atomically. Exactly one Handle is active per corpus; it is the
// explicitly owned shared resource, not an implicit singleton, so
// tests inject a fresh one per case.
//
// Readers that entered through the old index finish against it;
// callers arriving after Swap see only the new one. No query ever
// observes a half-built index.
type Handle struct {
	mu  sync.RWMutex
	idx driven.VectorIndex
}

// NewHandle creates a handle over the given index.
func NewHandle(idx driven.VectorIndex) *Handle {
	return &Handle{idx: idx}
}

// Swap atomically replaces the active index and returns the previous
// one so the caller can close it.
func (h *Handle) Swap(next driven.VectorIndex) driven.VectorIndex {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev := h.idx
	h.idx = next
	return prev
}

// active returns the current index under a read lock.
func (h *Handle) active() driven.VectorIndex {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.idx
}

// Add appends passage/embedding pairs to the active index.
func (h *Handle) Add(ctx context.Context, passages []domain.Passage, embeddings [][]float32) error {
	return h.active().Add(ctx, passages, embeddings)
}

// Query delegates to the active index.
func (h *Handle) Query(ctx context.Context, vector []float32, k int) (domain.RetrievedEvidence, error) {
	return h.active().Query(ctx, vector, k)
}

// Persist delegates to the active index.
func (h *Handle) Persist(ctx context.Context) error {
	return h.active().Persist(ctx)
}

// Load delegates to the active index.
func (h *Handle) Load(ctx context.Context) error {
	return h.active().Load(ctx)
}

// IsEmpty delegates to the active index.
func (h *Handle) IsEmpty() bool {
	return h.active().IsEmpty()
}

// Len delegates to the active index.
func (h *Handle) Len() int {
	return h.active().Len()
}

// Dimensions delegates to the active index.
func (h *Handle) Dimensions() int {
	return h.active().Dimensions()
}

// Close closes the active index.
func (h *Handle) Close() error {
	return h.active().Close()
}
