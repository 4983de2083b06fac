package domain

import (
	"fmt"
	"time"
)

// Document represents an ingested PDF with its extracted pages.
// It is the canonical representation after text extraction.
// Documents are immutable once stored; removal is an explicit
// corpus operation, never an update in place.
type Document struct {
	// ID is the unique identifier, the file name within the corpus.
	ID string

	// Path is the absolute location the document was ingested from.
	Path string

	// Title is the human-readable title derived from the file name.
	Title string

	// Pages holds the extracted text in page order.
	Pages []Page

	// PageCount is len(Pages) at extraction time, kept for catalog
	// listings that do not load page text.
	PageCount int

	// IndexedAt is when the document was last (re)indexed.
	IndexedAt time.Time
}

// Page is one page of extracted document text.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Text is the plain text extracted from the page.
	Text string
}

// HasText reports whether any page carries extractable text.
// A document without text yields zero passages, which is not an error.
func (d *Document) HasText() bool {
	for _, p := range d.Pages {
		if p.Text != "" {
			return true
		}
	}
	return false
}

// Passage is the smallest retrievable unit of document text.
// Passages never span a page boundary, so page attribution is exact.
type Passage struct {
	// ID is the deterministic identifier "docID:page:ordinal".
	// Determinism is required so rebuilding an index from the same
	// documents reproduces identical passages.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Page is the 1-based page the text was taken from.
	Page int

	// Ordinal is the position of this passage within the page.
	Ordinal int

	// Text is the passage content.
	Text string
}

// PassageID builds the deterministic identifier for a passage.
func PassageID(documentID string, page, ordinal int) string {
	return fmt.Sprintf("%s:%d:%d", documentID, page, ordinal)
}
