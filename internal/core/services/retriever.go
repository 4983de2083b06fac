package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

// Retriever embeds a question and fetches the top-k most similar
// passages from the vector index.
type Retriever struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	topK     int
}

// NewRetriever creates a retriever. topK defaults when non-positive.
func NewRetriever(embedder driven.EmbeddingService, index driven.VectorIndex, topK int) *Retriever {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &Retriever{
		embedder: embedder,
		index:    index,
		topK:     topK,
	}
}

// Retrieve returns the top-k evidence for the question, ranked by
// descending similarity. An empty index surfaces ErrIndexNotReady so
// callers can tell the user to index first; an embedding failure
// surfaces ErrCollaborator.
func (r *Retriever) Retrieve(ctx context.Context, question string) (domain.RetrievedEvidence, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if r.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if r.index == nil || r.index.IsEmpty() {
		return nil, domain.ErrIndexNotReady
	}

	logger.Debug("Embedding question (%d chars)", len(question))
	vector, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding question: %s", domain.ErrCollaborator, err)
	}

	evidence, err := r.index.Query(ctx, vector, r.topK)
	if err != nil {
		if errors.Is(err, domain.ErrIndexNotReady) {
			return nil, err
		}
		return nil, fmt.Errorf("query index: %w", err)
	}

	logger.Debug("Retrieved %d passages, top score %.3f", len(evidence), evidence.TopScore())
	return evidence, nil
}
