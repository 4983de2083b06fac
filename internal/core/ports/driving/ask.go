package driving

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// AskService answers natural-language questions against the corpus,
// escalating to web search when document evidence is insufficient.
type AskService interface {
	// Ask runs the agent for one question and returns the final
	// answer with ordered citations. Fails with
	// domain.ErrCollaborator when an external call fails.
	Ask(ctx context.Context, question string) (*domain.Answer, error)
}
