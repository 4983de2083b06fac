package mcp

import (
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ask answers questions against the corpus.
	Ask driving.AskService

	// Index manages the corpus index.
	Index driving.IndexService

	// Document exposes the corpus catalog.
	Document driving.DocumentService

	// History exposes past questions and answers.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	// Index, Document, and History are optional
	return nil
}
