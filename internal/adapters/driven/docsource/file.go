// Package docsource loads contract documents from the filesystem and
// computes their content signatures.
package docsource

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/leasewise/leasewise-cli/internal/core/domain"
	"github.com/leasewise/leasewise-cli/internal/core/ports/driven"
)

// Ensure FileSource implements the interface.
var _ driven.DocumentSource = (*FileSource)(nil)

// FileSource loads PDF and plain-text documents from local paths.
type FileSource struct{}

// NewFileSource creates a new filesystem document source.
func NewFileSource() *FileSource {
	return &FileSource{}
}

// SupportedExtensions returns file extensions this source handles.
func (s *FileSource) SupportedExtensions() []string {
	return []string{".pdf", ".txt", ".md"}
}

// Load reads the document, extracts per-page text and computes the
// SHA-256 content signature over the raw bytes. Missing, unreadable
// and zero-length files fail with domain.ErrDocumentLoad.
func (s *FileSource) Load(_ context.Context, uri string) (*domain.Document, error) {
	raw, err := os.ReadFile(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrDocumentLoad, uri, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrDocumentLoad, uri)
	}

	sum := sha256.Sum256(raw)
	doc := &domain.Document{
		URI:       uri,
		Signature: hex.EncodeToString(sum[:]),
	}

	switch strings.ToLower(filepath.Ext(uri)) {
	case ".pdf":
		doc.Pages, err = extractPDFPages(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrDocumentLoad, uri, err)
		}
	default:
		// Plain text has no page structure; everything is page 0.
		doc.Pages = []domain.Page{{Number: 0, Text: string(raw)}}
	}

	return doc, nil
}

// extractPDFPages pulls the plain text of each PDF page. Page numbers
// are zero-based to match the rest of the pipeline.
func extractPDFPages(raw []byte) ([]domain.Page, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	pages := make([]domain.Page, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}

		pages = append(pages, domain.Page{Number: i - 1, Text: text})
	}

	return pages, nil
}
