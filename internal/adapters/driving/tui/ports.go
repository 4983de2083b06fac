// Package tui provides the interactive chat interface for askdocs.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the chat UI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ask answers questions against the corpus.
	Ask driving.AskService

	// Index reports corpus index state for the status line.
	Index driving.IndexService

	// History exposes past questions loaded into the transcript.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	// Index and History are optional
	return nil
}
