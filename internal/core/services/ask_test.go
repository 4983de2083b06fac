package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// newAskService wires an AskService over mocks. history takes the
// interface type so a nil argument stays a nil interface and
// exercises the no-history path rather than a typed nil.
func newAskService(retriever *mockRetriever, strategy SufficiencyStrategy, llm *mockLLMService, history driven.HistoryStore) *AskService {
	agent := NewAgent(retriever, strategy, llm, nil, 3)
	return NewAskService(agent, NewComposer(), history)
}

func TestAskService_AnswersAndRecordsHistory(t *testing.T) {
	history := memory.NewHistoryStore()
	svc := newAskService(
		&mockRetriever{evidence: domain.RetrievedEvidence{passageEvidence("a.pdf:1:0", 0.9)}},
		&mockStrategy{sufficient: true},
		&mockLLMService{reply: "The answer."},
		history,
	)

	answer, err := svc.Ask(context.Background(), "what is it?")
	require.NoError(t, err)

	assert.Equal(t, "The answer.", answer.Text)
	require.Len(t, answer.Citations, 1)
	assert.Equal(t, "a.pdf", answer.Citations[0].Source)

	records, err := history.ListRecords(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "what is it?", records[0].Question)
	assert.Equal(t, "The answer.", records[0].Answer)
	assert.False(t, records[0].WebSearchUsed)
	assert.NotEmpty(t, records[0].ID)
}

func TestAskService_EmptyQuestion(t *testing.T) {
	svc := newAskService(&mockRetriever{}, &mockStrategy{}, &mockLLMService{}, nil)

	_, err := svc.Ask(context.Background(), "  \n ")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAskService_AgentFailurePropagates(t *testing.T) {
	history := memory.NewHistoryStore()
	svc := newAskService(
		&mockRetriever{err: domain.ErrEmbeddingUnavailable},
		&mockStrategy{},
		&mockLLMService{},
		history,
	)

	_, err := svc.Ask(context.Background(), "anything?")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCollaborator)

	// Failed runs are not recorded.
	records, err := history.ListRecords(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAskService_NilHistoryStillAnswers(t *testing.T) {
	svc := newAskService(
		&mockRetriever{evidence: domain.RetrievedEvidence{passageEvidence("a.pdf:1:0", 0.9)}},
		&mockStrategy{sufficient: true},
		&mockLLMService{reply: "ok"},
		nil,
	)

	answer, err := svc.Ask(context.Background(), "anything?")
	require.NoError(t, err)
	assert.Equal(t, "ok", answer.Text)
}

func TestHistoryService_List(t *testing.T) {
	store := memory.NewHistoryStore()
	require.NoError(t, store.SaveRecord(context.Background(), domain.AskRecord{ID: "1", Question: "first"}))
	require.NoError(t, store.SaveRecord(context.Background(), domain.AskRecord{ID: "2", Question: "second"}))

	svc := NewHistoryService(store)

	records, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "second", records[0].Question)
}

func TestHistoryService_NilStore(t *testing.T) {
	svc := NewHistoryService(nil)

	records, err := svc.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
