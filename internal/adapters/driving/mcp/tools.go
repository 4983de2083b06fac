package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the natural-language question to answer from the document corpus"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer        string           `json:"answer"`
	WebSearchUsed bool             `json:"web_search_used"`
	Justification string           `json:"justification,omitempty"`
	Citations     []CitationOutput `json:"citations,omitempty"`
}

// CitationOutput represents one citation backing an answer.
type CitationOutput struct {
	Source  string `json:"source"`
	Page    int    `json:"page,omitempty"`
	URL     string `json:"url,omitempty"`
	Preview string `json:"preview,omitempty"`
}

// ReindexOutput is the output schema for the reindex tool.
type ReindexOutput struct {
	Documents int `json:"documents"`
	Passages  int `json:"passages"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the indexed PDF documents, with citations",
	}, s.handleAsk)

	if s.ports.Index != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "reindex",
			Description: "Rebuild the document index from the cataloged documents",
		}, s.handleReindex)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Ask.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:        answer.Text,
		WebSearchUsed: answer.WebSearchUsed,
		Justification: answer.Justification,
		Citations:     make([]CitationOutput, len(answer.Citations)),
	}

	for i, c := range answer.Citations {
		output.Citations[i] = CitationOutput{
			Source:  c.Source,
			Page:    c.Page,
			URL:     c.URL,
			Preview: c.Preview,
		}
	}

	return nil, output, nil
}

// handleReindex handles the reindex tool invocation.
func (s *Server) handleReindex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ReindexOutput, error) {
	report, err := s.ports.Index.Reindex(ctx)
	if err != nil {
		return nil, ReindexOutput{}, err
	}

	return nil, ReindexOutput{
		Documents: report.DocumentsAdded,
		Passages:  report.Passages,
	}, nil
}
