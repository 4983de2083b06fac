package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

func TestComposer_PassageCitations(t *testing.T) {
	composer := NewComposer()

	result := &AgentResult{
		Text: "The warranty is two years.",
		Evidence: domain.RetrievedEvidence{
			{Passage: &domain.Passage{ID: "manual.pdf:3:0", DocumentID: "manual.pdf", Page: 3, Text: "Warranty: two years."}, Score: 0.9},
			{Passage: &domain.Passage{ID: "terms.pdf:1:2", DocumentID: "terms.pdf", Page: 1, Text: "See warranty terms."}, Score: 0.7},
		},
	}

	answer := composer.Compose(result)

	assert.Equal(t, "The warranty is two years.", answer.Text)
	assert.False(t, answer.WebSearchUsed)
	require.Len(t, answer.Citations, 2)

	assert.Equal(t, "manual.pdf", answer.Citations[0].Source)
	assert.Equal(t, 3, answer.Citations[0].Page)
	assert.Empty(t, answer.Citations[0].URL)
	assert.Equal(t, "Warranty: two years.", answer.Citations[0].Preview)

	// Citation order follows evidence order.
	assert.Equal(t, "terms.pdf", answer.Citations[1].Source)
}

func TestComposer_WebCitations(t *testing.T) {
	composer := NewComposer()

	result := &AgentResult{
		Text:          "It launched in 2024.",
		WebSearchUsed: true,
		Justification: "low similarity",
		Evidence: domain.RetrievedEvidence{
			{Web: &domain.WebResult{Title: "Launch notes", URL: "https://example.com/launch", Snippet: "Launched in 2024."}},
			{Web: &domain.WebResult{URL: "https://example.com/untitled", Snippet: "More details."}},
		},
	}

	answer := composer.Compose(result)

	assert.True(t, answer.WebSearchUsed)
	assert.Equal(t, "low similarity", answer.Justification)
	require.Len(t, answer.Citations, 2)

	assert.Equal(t, "Launch notes", answer.Citations[0].Source)
	assert.Equal(t, "https://example.com/launch", answer.Citations[0].URL)
	assert.Zero(t, answer.Citations[0].Page)

	// Untitled results fall back to the URL as the source label.
	assert.Equal(t, "https://example.com/untitled", answer.Citations[1].Source)
}

func TestComposer_NoEvidenceNoCitations(t *testing.T) {
	composer := NewComposer()

	answer := composer.Compose(&AgentResult{Text: noDocumentsAnswer})

	assert.Equal(t, noDocumentsAnswer, answer.Text)
	assert.Empty(t, answer.Citations)
}

func TestComposer_PreviewTruncation(t *testing.T) {
	composer := NewComposer()

	long := strings.Repeat("word ", 200)
	result := &AgentResult{
		Evidence: domain.RetrievedEvidence{
			{Passage: &domain.Passage{ID: "a.pdf:1:0", DocumentID: "a.pdf", Page: 1, Text: long}},
		},
	}

	answer := composer.Compose(result)

	require.Len(t, answer.Citations, 1)
	preview := answer.Citations[0].Preview
	assert.True(t, strings.HasSuffix(preview, "..."))
	assert.Len(t, []rune(preview), domain.CitationPreviewLength+3)
}

func TestComposer_PreviewCollapsesWhitespace(t *testing.T) {
	composer := NewComposer()

	result := &AgentResult{
		Evidence: domain.RetrievedEvidence{
			{Passage: &domain.Passage{ID: "a.pdf:1:0", DocumentID: "a.pdf", Page: 1, Text: "line one\n\n  line\ttwo"}},
		},
	}

	answer := composer.Compose(result)

	require.Len(t, answer.Citations, 1)
	assert.Equal(t, "line one line two", answer.Citations[0].Preview)
}
