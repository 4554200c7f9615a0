package domain

import "time"

// Document represents a source contract loaded from a DocumentSource.
// A Document is immutable once loaded: a new upload with different bytes
// is a new Document with a new Signature, never a mutation of the old one.
type Document struct {
	// URI is the original location (file path, URL, etc).
	URI string

	// Signature is the hex-encoded SHA-256 hash of the document's raw bytes.
	// It keys the persisted index for this document.
	Signature string

	// Pages holds the extracted text, one entry per source page.
	Pages []Page
}

// Page is the text of a single source page.
type Page struct {
	// Number is the zero-based page number.
	Number int

	// Text is the extracted page text.
	Text string
}

// IsEmpty reports whether the document contains no extractable text.
func (d *Document) IsEmpty() bool {
	for _, p := range d.Pages {
		if len(p.Text) > 0 {
			return false
		}
	}
	return true
}

// Chunk represents a retrievable passage within a document.
// Chunks are produced deterministically by the chunker and never span
// a page boundary.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Signature links to the document the chunk was extracted from.
	Signature string

	// Text is the passage text.
	Text string

	// Page is the zero-based source page the passage was drawn from.
	Page int

	// Topic is a derived tag used to group passages in comprehensive
	// answers. Defaults to "general".
	Topic string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation used for similarity search.
	Embedding []float32
}

// Manifest records how an index was built. A stored index is only valid
// while every manifest field matches the live document and configuration;
// any mismatch forces a full rebuild.
type Manifest struct {
	// Signature is the document signature the index was built from.
	Signature string

	// EmbeddingModel is the model that produced the chunk embeddings.
	// Queries must be embedded with the same model.
	EmbeddingModel string

	// Dimensions is the embedding vector size.
	Dimensions int

	// ChunkSize is the maximum chunk length used when splitting.
	ChunkSize int

	// ChunkOverlap is the overlap between consecutive chunks.
	ChunkOverlap int

	// CreatedAt is when the index was built.
	CreatedAt time.Time
}

// Index is the embedded chunk set for one document. It is the context
// object passed into every retrieval and answer call; swapping the active
// document means constructing a new Index, never mutating a shared one.
type Index struct {
	Manifest Manifest

	// Chunks are the embedded passages in document order.
	Chunks []Chunk
}

// Len returns the number of chunks in the index.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.Chunks)
}
