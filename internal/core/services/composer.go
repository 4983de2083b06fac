package services

import (
	"strings"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// Composer turns an agent result into the final answer with ordered
// citations. It never fails on well-formed input: no evidence simply
// means no citations.
type Composer struct{}

// NewComposer creates a composer.
func NewComposer() *Composer {
	return &Composer{}
}

// Compose maps each evidence item to a citation, preserving the
// order in which the agent used the evidence. Passage evidence cites
// source and page; web evidence cites title and URL.
func (c *Composer) Compose(result *AgentResult) *domain.Answer {
	answer := &domain.Answer{
		Text:          result.Text,
		WebSearchUsed: result.WebSearchUsed,
		Justification: result.Justification,
	}

	for _, e := range result.Evidence {
		switch {
		case e.Passage != nil:
			answer.Citations = append(answer.Citations, domain.Citation{
				Source:  e.Passage.DocumentID,
				Page:    e.Passage.Page,
				Preview: preview(e.Passage.Text),
			})
		case e.Web != nil:
			source := e.Web.Title
			if source == "" {
				source = e.Web.URL
			}
			answer.Citations = append(answer.Citations, domain.Citation{
				Source:  source,
				URL:     e.Web.URL,
				Preview: preview(e.Web.Snippet),
			})
		}
	}

	return answer
}

// preview truncates text to the citation preview length on a rune
// boundary, collapsing newlines.
func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= domain.CitationPreviewLength {
		return text
	}
	return string(runes[:domain.CitationPreviewLength]) + "..."
}
