package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// AskService orchestrates one question: run the agent, compose the
// answer, record a history row.
type AskService struct {
	agent    *Agent
	composer *Composer
	history  driven.HistoryStore
}

// NewAskService creates an ask service. history may be nil, in which
// case answers are not recorded.
func NewAskService(agent *Agent, composer *Composer, history driven.HistoryStore) *AskService {
	return &AskService{
		agent:    agent,
		composer: composer,
		history:  history,
	}
}

// Ask answers one question and returns the final answer with ordered
// citations.
func (s *AskService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	start := time.Now()
	result, err := s.agent.Run(ctx, question)
	if err != nil {
		return nil, err
	}

	answer := s.composer.Compose(result)
	duration := time.Since(start)
	logger.Info("Answered in %s (web search: %t, citations: %d)",
		duration.Round(time.Millisecond), answer.WebSearchUsed, len(answer.Citations))

	if s.history != nil {
		record := domain.AskRecord{
			ID:            uuid.New().String(),
			Question:      question,
			Answer:        answer.Text,
			WebSearchUsed: answer.WebSearchUsed,
			Duration:      duration,
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.history.SaveRecord(ctx, record); err != nil {
			// History is best-effort; a failed write never loses the answer.
			logger.Warn("Saving history record: %v", err)
		}
	}

	return answer, nil
}
