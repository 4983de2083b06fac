package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
)

type mockAskService struct {
	answer *domain.Answer
	err    error
}

func (m *mockAskService) Ask(_ context.Context, _ string) (*domain.Answer, error) {
	return m.answer, m.err
}

type mockIndexService struct {
	status *driving.IndexStatus
	err    error
}

func (m *mockIndexService) Index(_ context.Context) (*driving.IndexReport, error) {
	return nil, m.err
}

func (m *mockIndexService) Reindex(_ context.Context) (*driving.IndexReport, error) {
	return nil, m.err
}

func (m *mockIndexService) Status(_ context.Context) (*driving.IndexStatus, error) {
	return m.status, m.err
}

func (m *mockIndexService) Watch(_ context.Context) error {
	return m.err
}

type mockHistoryService struct {
	records []domain.AskRecord
	err     error
}

func (m *mockHistoryService) List(_ context.Context, _ int) ([]domain.AskRecord, error) {
	return m.records, m.err
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(&Ports{Ask: &mockAskService{
		answer: &domain.Answer{Text: "Paris."},
	}})
	require.NoError(t, err)
	return app
}

// sized sends a WindowSizeMsg so the viewport exists.
func sized(app *App) *App {
	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return model.(*App)
}

func TestNewApp(t *testing.T) {
	t.Run("nil ask service returns error", func(t *testing.T) {
		app, err := NewApp(&Ports{})
		require.Error(t, err)
		assert.Nil(t, app)
		assert.ErrorIs(t, err, ErrMissingAskService)
	})

	t.Run("valid ports creates app", func(t *testing.T) {
		app := newTestApp(t)
		assert.NotNil(t, app)
		assert.False(t, app.ready)
	})
}

func TestApp_WindowSizeMakesReady(t *testing.T) {
	app := sized(newTestApp(t))
	assert.True(t, app.ready)
	assert.Equal(t, 80, app.width)
}

func TestApp_ViewBeforeReady(t *testing.T) {
	app := newTestApp(t)
	assert.Contains(t, app.View(), "Loading")
}

func TestApp_AnswerReceivedAppendsEntry(t *testing.T) {
	app := sized(newTestApp(t))

	model, _ := app.Update(messages.AnswerReceived{
		Question: "What is the capital of France?",
		Answer: &domain.Answer{
			Text: "Paris is the capital of France.",
			Citations: []domain.Citation{
				{Source: "geography.pdf", Page: 12},
			},
		},
	})
	app = model.(*App)

	require.Len(t, app.entries, 1)
	assert.False(t, app.asking)

	view := app.View()
	assert.Contains(t, view, "What is the capital of France?")
	assert.Contains(t, view, "Paris is the capital of France.")
	assert.Contains(t, view, "geography.pdf, page 12")
}

func TestApp_AnswerReceivedWithError(t *testing.T) {
	app := sized(newTestApp(t))

	model, _ := app.Update(messages.AnswerReceived{
		Question: "anything",
		Err:      errors.New("index not ready"),
	})
	app = model.(*App)

	require.Len(t, app.entries, 1)
	assert.Contains(t, app.View(), "index not ready")
}

func TestApp_WebSearchBadge(t *testing.T) {
	app := sized(newTestApp(t))

	model, _ := app.Update(messages.AnswerReceived{
		Question: "population?",
		Answer: &domain.Answer{
			Text:          "Around 67 million.",
			WebSearchUsed: true,
			Citations: []domain.Citation{
				{Source: "Stats", URL: "https://example.com"},
			},
		},
	})
	app = model.(*App)

	view := app.View()
	assert.Contains(t, view, "(answered from web search)")
	assert.Contains(t, view, "https://example.com")
}

func TestApp_StatusLoaded(t *testing.T) {
	t.Run("ready index", func(t *testing.T) {
		app := sized(newTestApp(t))

		model, _ := app.Update(messages.StatusLoaded{
			Status: &driving.IndexStatus{Documents: 3, Passages: 60, Ready: true},
		})
		app = model.(*App)

		assert.Contains(t, app.statusLine, "3 documents")
		assert.Contains(t, app.statusLine, "60 passages")
	})

	t.Run("empty index", func(t *testing.T) {
		app := sized(newTestApp(t))

		model, _ := app.Update(messages.StatusLoaded{
			Status: &driving.IndexStatus{},
		})
		app = model.(*App)

		assert.Contains(t, app.statusLine, "index not ready")
	})
}

func TestApp_HistoryLoadedSeedsTranscript(t *testing.T) {
	app := sized(newTestApp(t))

	// Records arrive newest first; the transcript shows oldest first.
	model, _ := app.Update(messages.HistoryLoaded{
		Records: []domain.AskRecord{
			{Question: "newest?", Answer: "b", CreatedAt: time.Now()},
			{Question: "oldest?", Answer: "a", CreatedAt: time.Now().Add(-time.Hour)},
		},
	})
	app = model.(*App)

	require.Len(t, app.entries, 2)
	assert.Equal(t, "oldest?", app.entries[0].question)
	assert.Equal(t, "newest?", app.entries[1].question)
}

func TestApp_HistoryLoadedDoesNotOverwriteConversation(t *testing.T) {
	app := sized(newTestApp(t))

	model, _ := app.Update(messages.AnswerReceived{
		Question: "live question",
		Answer:   &domain.Answer{Text: "live answer"},
	})
	app = model.(*App)

	model, _ = app.Update(messages.HistoryLoaded{
		Records: []domain.AskRecord{{Question: "old?", Answer: "old"}},
	})
	app = model.(*App)

	require.Len(t, app.entries, 1)
	assert.Equal(t, "live question", app.entries[0].question)
}

func TestApp_EnterSubmitsQuestion(t *testing.T) {
	app := sized(newTestApp(t))
	app.input.SetValue("What is the capital of France?")

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)

	assert.True(t, app.asking)
	assert.Empty(t, app.input.Value())
	require.NotNil(t, cmd)
}

func TestApp_EnterIgnoresEmptyInput(t *testing.T) {
	app := sized(newTestApp(t))
	app.input.SetValue("   ")

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)

	assert.False(t, app.asking)
}

func TestApp_EscClearsInput(t *testing.T) {
	app := sized(newTestApp(t))
	app.input.SetValue("half-typed question")

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(*App)

	assert.Empty(t, app.input.Value())
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := sized(newTestApp(t))

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_AskCmdReturnsAnswer(t *testing.T) {
	app := sized(newTestApp(t))

	msg := app.askCmd("What is the capital of France?")()

	received, ok := msg.(messages.AnswerReceived)
	require.True(t, ok)
	assert.Equal(t, "What is the capital of France?", received.Question)
	require.NotNil(t, received.Answer)
	assert.Equal(t, "Paris.", received.Answer.Text)
}

func TestApp_LoadCmdsNilWithoutOptionalPorts(t *testing.T) {
	app := newTestApp(t)
	assert.Nil(t, app.loadStatusCmd())
	assert.Nil(t, app.loadHistoryCmd())
}

func TestApp_LoadStatusCmd(t *testing.T) {
	app, err := NewApp(&Ports{
		Ask:   &mockAskService{},
		Index: &mockIndexService{status: &driving.IndexStatus{Ready: true}},
	})
	require.NoError(t, err)

	msg := app.loadStatusCmd()()

	loaded, ok := msg.(messages.StatusLoaded)
	require.True(t, ok)
	assert.True(t, loaded.Status.Ready)
}

func TestApp_EmptyTranscriptPlaceholder(t *testing.T) {
	app := sized(newTestApp(t))
	assert.True(t, strings.Contains(app.View(), "No questions yet"))
}
