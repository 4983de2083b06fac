package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockRetriever implements EvidenceRetriever for testing.
type mockRetriever struct {
	evidence domain.RetrievedEvidence
	err      error
	calls    int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ string) (domain.RetrievedEvidence, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.evidence, nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	reply       string
	generateErr error
	prompts     []string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.reply, nil
}

func (m *mockLLMService) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	return m.reply, m.generateErr
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

// mockWebSearchService implements driven.WebSearchService for testing.
type mockWebSearchService struct {
	results   []domain.WebResult
	searchErr error
	calls     int
}

func (m *mockWebSearchService) Search(_ context.Context, _ string, maxResults int) ([]domain.WebResult, error) {
	m.calls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if maxResults < len(m.results) {
		return m.results[:maxResults], nil
	}
	return m.results, nil
}

func (m *mockWebSearchService) Ping(_ context.Context) error { return nil }

func (m *mockWebSearchService) Close() error { return nil }

// mockStrategy implements SufficiencyStrategy for testing.
type mockStrategy struct {
	sufficient    bool
	justification string
	err           error
}

func (m *mockStrategy) Evaluate(_ context.Context, _ string, _ domain.RetrievedEvidence) (bool, string, error) {
	return m.sufficient, m.justification, m.err
}

// --- Test helpers ---

func passageEvidence(id string, score float64) domain.Evidence {
	parts := strings.SplitN(id, ":", 3)
	return domain.Evidence{
		Passage: &domain.Passage{
			ID:         id,
			DocumentID: parts[0],
			Page:       1,
			Text:       "passage text for " + id,
		},
		Score: score,
	}
}

// --- Tests ---

func TestAgent_AnswersFromDocsWhenSufficient(t *testing.T) {
	retriever := &mockRetriever{evidence: domain.RetrievedEvidence{
		passageEvidence("manual.pdf:1:0", 0.92),
		passageEvidence("manual.pdf:1:1", 0.85),
	}}
	llm := &mockLLMService{reply: "The answer is 42."}
	web := &mockWebSearchService{}
	agent := NewAgent(retriever, &mockStrategy{sufficient: true}, llm, web, 3)

	result, err := agent.Run(context.Background(), "what is the answer?")
	require.NoError(t, err)

	assert.Equal(t, "The answer is 42.", result.Text)
	assert.False(t, result.WebSearchUsed)
	assert.Len(t, result.Evidence, 2)
	assert.Equal(t, "manual.pdf:1:0", result.Evidence[0].Passage.ID)
	assert.Equal(t, 0, web.calls, "sufficient evidence must not trigger web search")

	// Synthesis saw exactly the retrieved passages.
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "passage text for manual.pdf:1:0")
	assert.Contains(t, llm.prompts[0], "what is the answer?")
}

func TestAgent_EscalatesToWebExactlyOnce(t *testing.T) {
	retriever := &mockRetriever{evidence: domain.RetrievedEvidence{
		passageEvidence("manual.pdf:1:0", 0.12),
	}}
	llm := &mockLLMService{reply: "Per the web, it launched in 2024."}
	web := &mockWebSearchService{results: []domain.WebResult{
		{Title: "Launch notes", URL: "https://example.com/launch", Snippet: "Launched in 2024."},
		{Title: "Review", URL: "https://example.com/review", Snippet: "A review."},
	}}
	agent := NewAgent(retriever,
		&mockStrategy{sufficient: false, justification: "low similarity"},
		llm, web, 3)

	result, err := agent.Run(context.Background(), "when did it launch?")
	require.NoError(t, err)

	assert.True(t, result.WebSearchUsed)
	assert.Equal(t, "low similarity", result.Justification)
	assert.Equal(t, 1, web.calls, "web search must run at most once per question")
	assert.Equal(t, 1, retriever.calls, "retrieval must not repeat after escalation")

	// Web results replaced the passages as the active evidence set.
	require.Len(t, result.Evidence, 2)
	assert.True(t, result.Evidence[0].IsWeb())
	assert.Equal(t, "https://example.com/launch", result.Evidence[0].Web.URL)

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "https://example.com/launch")
	assert.NotContains(t, llm.prompts[0], "passage text for manual.pdf:1:0")
}

func TestAgent_EmptyIndexShortCircuits(t *testing.T) {
	retriever := &mockRetriever{err: domain.ErrIndexNotReady}
	llm := &mockLLMService{reply: "should never be called"}
	web := &mockWebSearchService{}
	agent := NewAgent(retriever, &mockStrategy{sufficient: true}, llm, web, 3)

	result, err := agent.Run(context.Background(), "anything?")
	require.NoError(t, err)

	assert.Equal(t, noDocumentsAnswer, result.Text)
	assert.Empty(t, result.Evidence)
	assert.False(t, result.WebSearchUsed)
	assert.Empty(t, llm.prompts, "no synthesis without documents")
	assert.Equal(t, 0, web.calls)
}

func TestAgent_RetrievalFailureFailsRun(t *testing.T) {
	retriever := &mockRetriever{
		err: errors.New("embedding service unreachable"),
	}
	agent := NewAgent(retriever, &mockStrategy{}, &mockLLMService{}, nil, 3)

	result, err := agent.Run(context.Background(), "anything?")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCollaborator)
	assert.Nil(t, result)
}

func TestAgent_WebSearchFailureFailsRun(t *testing.T) {
	retriever := &mockRetriever{evidence: domain.RetrievedEvidence{
		passageEvidence("manual.pdf:1:0", 0.1),
	}}
	web := &mockWebSearchService{searchErr: errors.New("tavily: 500")}
	agent := NewAgent(retriever,
		&mockStrategy{sufficient: false, justification: "low similarity"},
		&mockLLMService{}, web, 3)

	result, err := agent.Run(context.Background(), "anything?")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCollaborator)
	assert.Nil(t, result)
}

func TestAgent_SynthesisFailureFailsRun(t *testing.T) {
	retriever := &mockRetriever{evidence: domain.RetrievedEvidence{
		passageEvidence("manual.pdf:1:0", 0.9),
	}}
	llm := &mockLLMService{generateErr: errors.New("model overloaded")}
	agent := NewAgent(retriever, &mockStrategy{sufficient: true}, llm, nil, 3)

	result, err := agent.Run(context.Background(), "anything?")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCollaborator)
	assert.Nil(t, result)
}

func TestAgent_InsufficientWithoutWebSearchAnswersFromDocs(t *testing.T) {
	retriever := &mockRetriever{evidence: domain.RetrievedEvidence{
		passageEvidence("manual.pdf:1:0", 0.1),
	}}
	llm := &mockLLMService{reply: "Best effort from documents."}
	agent := NewAgent(retriever,
		&mockStrategy{sufficient: false, justification: "low similarity"},
		llm, nil, 3)

	result, err := agent.Run(context.Background(), "anything?")
	require.NoError(t, err)

	assert.False(t, result.WebSearchUsed)
	assert.Equal(t, "Best effort from documents.", result.Text)
	require.Len(t, result.Evidence, 1)
	assert.NotNil(t, result.Evidence[0].Passage)
}

func TestAgent_EvaluationFailureFailsRun(t *testing.T) {
	retriever := &mockRetriever{evidence: domain.RetrievedEvidence{
		passageEvidence("manual.pdf:1:0", 0.5),
	}}
	agent := NewAgent(retriever,
		&mockStrategy{err: domain.ErrLLMUnavailable},
		&mockLLMService{}, nil, 3)

	_, err := agent.Run(context.Background(), "anything?")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCollaborator)
}

func TestAgent_CancelledContextStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	retriever := &mockRetriever{evidence: domain.RetrievedEvidence{
		passageEvidence("manual.pdf:1:0", 0.9),
	}}
	agent := NewAgent(retriever, &mockStrategy{sufficient: true}, &mockLLMService{}, nil, 3)

	_, err := agent.Run(ctx, "anything?")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, retriever.calls)
}

func TestAgent_TraceRecordsStates(t *testing.T) {
	retriever := &mockRetriever{evidence: domain.RetrievedEvidence{
		passageEvidence("manual.pdf:1:0", 0.9),
	}}
	agent := NewAgent(retriever, &mockStrategy{sufficient: true}, &mockLLMService{reply: "ok"}, nil, 3)

	result, err := agent.Run(context.Background(), "anything?")
	require.NoError(t, err)

	require.NotEmpty(t, result.Trace.ID)
	states := make([]domain.AgentState, 0, len(result.Trace.Steps))
	for _, step := range result.Trace.Steps {
		states = append(states, step.State)
	}
	assert.Equal(t, []domain.AgentState{
		domain.StateStart,
		domain.StateRetrieve,
		domain.StateEvaluate,
		domain.StateAnswerFromDocs,
		domain.StateSynthesize,
		domain.StateDone,
	}, states)
}
