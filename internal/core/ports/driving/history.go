package driving

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// HistoryService exposes ask history to external actors.
type HistoryService interface {
	// List returns up to limit history rows, newest first.
	List(ctx context.Context, limit int) ([]domain.AskRecord, error)
}
