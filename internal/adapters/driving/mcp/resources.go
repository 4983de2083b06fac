package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for AskDocs resources.
	uriScheme = "askdocs://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing cataloged documents.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "List of all indexed documents",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Template for document text.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document-text",
		Description: "Extracted text of a specific document",
		MIMEType:    "text/plain",
	}, s.handleDocumentTextResource)

	// Static resource for recent ask history.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recent questions and answers",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleDocumentsResource returns a list of all cataloged documents.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	// Build simplified document list.
	type docInfo struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Path  string `json:"path"`
		Pages int    `json:"pages"`
	}

	infos := make([]docInfo, len(docs))
	for i := range docs {
		infos[i] = docInfo{
			ID:    docs[i].ID,
			Title: docs[i].Title,
			Path:  docs[i].Path,
			Pages: docs[i].PageCount,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentTextResource returns the extracted text of one document.
func (s *Server) handleDocumentTextResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract documentId from URI: askdocs://documents/{documentId}
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Document.Get(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	var b strings.Builder
	for _, page := range doc.Pages {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(page.Text)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     b.String(),
		}},
	}, nil
}

// historyResourceLimit caps how many history rows the resource returns.
const historyResourceLimit = 20

// handleHistoryResource returns recent questions and answers.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	records, err := s.ports.History.List(ctx, historyResourceLimit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	type recordInfo struct {
		Question      string `json:"question"`
		Answer        string `json:"answer"`
		WebSearchUsed bool   `json:"web_search_used"`
		AskedAt       string `json:"asked_at"`
	}

	infos := make([]recordInfo, len(records))
	for i := range records {
		infos[i] = recordInfo{
			Question:      records[i].Question,
			Answer:        records[i].Answer,
			WebSearchUsed: records[i].WebSearchUsed,
			AskedAt:       records[i].CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling history: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like askdocs://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
