package domain

// CitationPreviewLength is the maximum length of a citation preview string.
const CitationPreviewLength = 300

// Citation is a user-facing reference to one evidence item used in an
// answer. Document passages cite source and page; web results cite a URL.
type Citation struct {
	// Source is the document title (or ID) for passages,
	// or the page title for web results.
	Source string

	// Page is the 1-based page number for passage citations; 0 for web.
	Page int

	// URL is set for web citations only.
	URL string

	// Preview is a short excerpt of the cited evidence.
	Preview string
}

// Answer is the final response to one question.
type Answer struct {
	// Text is the synthesized answer.
	Text string

	// Citations reference the evidence actually used, in the order
	// the agent used it. Empty when no evidence backed the answer.
	Citations []Citation

	// WebSearchUsed reports whether the agent escalated to web search.
	WebSearchUsed bool

	// Justification is the sufficiency judgment's reasoning when the
	// agent escalated; empty when documents sufficed.
	Justification string
}
