package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
}

func (m *mockRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return m.output, m.err
}

func TestExtract_SplitsPagesOnFormFeed(t *testing.T) {
	runner := &mockRunner{
		output: []byte("Manual Title\n\nPage one content.\fPage two content.\f"),
	}
	extractor := NewWithRunner(runner)

	doc, err := extractor.Extract(context.Background(), "/docs/manual.pdf")
	require.NoError(t, err)

	assert.Equal(t, "manual.pdf", doc.ID)
	assert.Equal(t, "/docs/manual.pdf", doc.Path)
	assert.Equal(t, "Manual Title", doc.Title)

	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 1, doc.Pages[0].Number)
	assert.Contains(t, doc.Pages[0].Text, "Page one content.")
	assert.Equal(t, 2, doc.Pages[1].Number)
	assert.Equal(t, "Page two content.", doc.Pages[1].Text)
}

func TestExtract_TextlessPDF(t *testing.T) {
	// A scanned PDF: pdftotext succeeds but emits only separators.
	runner := &mockRunner{output: []byte("\f\f")}
	extractor := NewWithRunner(runner)

	doc, err := extractor.Extract(context.Background(), "/docs/scan.pdf")
	require.NoError(t, err)

	assert.False(t, doc.HasText())
	assert.Equal(t, "scan", doc.Title)
}

func TestExtract_RunnerError(t *testing.T) {
	runner := &mockRunner{err: errors.New("pdftotext crashed")}
	extractor := NewWithRunner(runner)

	_, err := extractor.Extract(context.Background(), "/docs/broken.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.pdf")
}

func TestExtract_EmptyPath(t *testing.T) {
	extractor := NewWithRunner(&mockRunner{})

	_, err := extractor.Extract(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		pages    []domain.Page
		filename string
		expected string
	}{
		{
			name:     "first line as title",
			pages:    []domain.Page{{Number: 1, Text: "Document Title\n\nSome content here."}},
			filename: "doc.pdf",
			expected: "Document Title",
		},
		{
			name:     "skip empty lines",
			pages:    []domain.Page{{Number: 1, Text: "\n\n\nActual Title\nContent"}},
			filename: "doc.pdf",
			expected: "Actual Title",
		},
		{
			name:     "fallback to filename",
			pages:    nil,
			filename: "my_document.pdf",
			expected: "my document",
		},
		{
			name:     "skip very long first line",
			pages:    []domain.Page{{Number: 1, Text: string(make([]byte, 250)) + "\nShort Title\nContent"}},
			filename: "doc.pdf",
			expected: "Short Title",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := extractTitle(tc.pages, tc.filename)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Error(t, ErrPDFToolNotFound)
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}
