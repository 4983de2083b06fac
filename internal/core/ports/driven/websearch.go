package driven

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// WebSearchService is the "query → ranked snippets with URLs"
// collaborator the agent escalates to when document evidence is
// insufficient. Optional: when nil, the agent answers from documents
// only.
//
// Implementations may include:
//   - Tavily (search API built for LLM grounding)
type WebSearchService interface {
	// Search returns up to maxResults ranked results for the query.
	Search(ctx context.Context, query string, maxResults int) ([]domain.WebResult, error)

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
