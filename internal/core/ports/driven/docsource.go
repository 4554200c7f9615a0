package driven

import (
	"context"

	"github.com/leasewise/leasewise-cli/internal/core/domain"
)

// DocumentSource loads contract documents and computes their content
// signatures. A missing, unreadable or empty document fails with an
// error wrapping domain.ErrDocumentLoad.
type DocumentSource interface {
	// Load reads the document at the given URI, extracts per-page text
	// and computes the SHA-256 content signature over the raw bytes.
	Load(ctx context.Context, uri string) (*domain.Document, error)

	// SupportedExtensions returns file extensions this source handles.
	SupportedExtensions() []string
}

// Chunker splits a document into ordered, page-attributed passages.
// Chunking is deterministic: the same document and configuration always
// produce the same chunk sequence.
type Chunker interface {
	// Chunk splits the document. An empty document produces zero
	// chunks; callers treat that as a load error.
	Chunk(doc *domain.Document) ([]domain.Chunk, error)

	// ChunkSize returns the configured maximum chunk length.
	ChunkSize() int

	// ChunkOverlap returns the configured overlap between consecutive
	// chunks.
	ChunkOverlap() int
}
