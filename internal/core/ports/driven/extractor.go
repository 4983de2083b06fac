package driven

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// Extractor turns a PDF file into a document with pages of plain
// text. Text extraction is a collaborator concern: the core only ever
// sees extracted pages. A PDF with no extractable text yields a
// document whose pages are all empty, which is not an error.
type Extractor interface {
	// Extract reads the file at path and returns the document with
	// its pages in order.
	Extract(ctx context.Context, path string) (*domain.Document, error)

	// CheckAvailable verifies the extraction tool is installed.
	CheckAvailable(ctx context.Context) error
}

// CommandRunner executes an external command and returns its output.
// It exists so extractors that shell out (pdftotext) can be tested
// without the tool installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
