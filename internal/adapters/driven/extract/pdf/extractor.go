// Package pdf provides a PDF text extractor backed by the poppler
// pdftotext tool.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// pageSeparator is the form-feed character pdftotext emits between
// pages.
const pageSeparator = "\f"

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor extracts page text from PDF files by shelling out to
// pdftotext.
type Extractor struct {
	runner driven.CommandRunner
}

// New creates a PDF extractor using the system pdftotext.
func New() *Extractor {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates a PDF extractor with a custom command runner.
// Used in tests to avoid requiring pdftotext.
func NewWithRunner(runner driven.CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// Extract reads the PDF at path and returns the document with one
// entry per page. A page with no extractable text yields an empty
// page, which is not an error.
func (e *Extractor) Extract(ctx context.Context, path string) (*domain.Document, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}

	// -enc UTF-8 keeps output stable across locales; the trailing
	// dash writes to stdout.
	output, err := e.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", path, "-")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("pdftotext failed on %s: %s", path, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("pdftotext failed on %s: %w", path, err)
	}

	raw := strings.Split(string(output), pageSeparator)
	// pdftotext terminates the last page with a form feed too, which
	// leaves a trailing empty element.
	if len(raw) > 1 && strings.TrimSpace(raw[len(raw)-1]) == "" {
		raw = raw[:len(raw)-1]
	}

	pages := make([]domain.Page, len(raw))
	for i, text := range raw {
		pages[i] = domain.Page{
			Number: i + 1,
			Text:   strings.TrimSpace(text),
		}
	}

	id := filepath.Base(path)
	return &domain.Document{
		ID:    id,
		Path:  path,
		Title: extractTitle(pages, id),
		Pages: pages,
	}, nil
}

// CheckAvailable verifies pdftotext is installed.
func (e *Extractor) CheckAvailable(_ context.Context) error {
	return CheckAvailable()
}

// CheckAvailable verifies pdftotext is in PATH.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform-specific install guidance for
// the extraction tool.
func InstallInstructions() string {
	return `pdftotext is required for PDF extraction. Install it with:

  macOS:         brew install poppler
  Debian/Ubuntu: sudo apt install poppler-utils
  Fedora:        sudo dnf install poppler-utils`
}

// extractTitle picks the first reasonable non-empty line of the first
// page, falling back to the file name.
func extractTitle(pages []domain.Page, filename string) string {
	if len(pages) > 0 {
		for _, line := range strings.Split(pages[0].Text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || len(line) > 200 {
				continue
			}
			return line
		}
	}

	title := strings.TrimSuffix(filename, filepath.Ext(filename))
	return strings.ReplaceAll(title, "_", " ")
}
