// Package messages defines Bubbletea message types for the chat UI.
// Messages represent events that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
)

// QuestionAsked is sent when the user submits a question.
type QuestionAsked struct {
	Question string
}

// AnswerReceived carries the agent's answer back to the model.
type AnswerReceived struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// StatusLoaded carries the index status for the status bar.
type StatusLoaded struct {
	Status *driving.IndexStatus
	Err    error
}

// HistoryLoaded carries prior questions used to seed the transcript.
type HistoryLoaded struct {
	Records []domain.AskRecord
	Err     error
}
