package driven

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// HistoryStore persists ask history: one summary row per answered
// question. Optional: when nil, answers are not recorded.
type HistoryStore interface {
	// SaveRecord appends one history row.
	SaveRecord(ctx context.Context, record domain.AskRecord) error

	// ListRecords returns up to limit rows, newest first.
	ListRecords(ctx context.Context, limit int) ([]domain.AskRecord, error)
}
