// Package chunker splits extracted document pages into overlapping
// fixed-size passages with exact page provenance.
package chunker

import (
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// Chunker splits documents into passages. Chunking is deterministic:
// the same document and configuration always yield byte-identical
// passages with identical IDs, which is what makes index rebuilds
// reproducible.
type Chunker struct {
	maxChunkSize int
	overlap      int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxChunkSize sets the maximum passage length in characters.
func WithMaxChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.maxChunkSize = size
		}
	}
}

// WithOverlap sets the overlap between adjacent passages in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		maxChunkSize: domain.DefaultChunkSize,
		overlap:      domain.DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave forward progress per step.
	if c.overlap >= c.maxChunkSize {
		c.overlap = c.maxChunkSize / 4
	}

	return c
}

// MaxChunkSize returns the configured maximum passage length.
func (c *Chunker) MaxChunkSize() int {
	return c.maxChunkSize
}

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Chunk splits the document's pages into passages. Passages never
// span a page boundary. A document with no extractable text yields
// zero passages, which is not an error.
func (c *Chunker) Chunk(doc *domain.Document) []domain.Passage {
	if doc == nil {
		return nil
	}

	var passages []domain.Passage
	for _, page := range doc.Pages {
		passages = append(passages, c.chunkPage(doc.ID, page)...)
	}
	return passages
}

// chunkPage splits one page's text into passages.
func (c *Chunker) chunkPage(docID string, page domain.Page) []domain.Passage {
	if page.Text == "" {
		return nil
	}

	text := page.Text
	textLen := len(text)
	step := c.maxChunkSize - c.overlap

	estimated := textLen/step + 1
	passages := make([]domain.Passage, 0, estimated)

	ordinal := 0
	for start := 0; start < textLen; start += step {
		end := start + c.maxChunkSize
		if end > textLen {
			end = textLen
		}

		passages = append(passages, domain.Passage{
			ID:         domain.PassageID(docID, page.Number, ordinal),
			DocumentID: docID,
			Page:       page.Number,
			Ordinal:    ordinal,
			Text:       text[start:end],
		})
		ordinal++

		if end == textLen {
			break
		}
	}

	return passages
}
