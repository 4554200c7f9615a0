// Package chunker splits contract text into overlapping passages with
// page provenance. Splitting is recursive: it prefers the largest
// semantic boundary (paragraph, line, sentence, word) that keeps a
// piece within the size limit, falling back to a hard character cut.
package chunker

import (
	"strings"

	"github.com/google/uuid"

	"github.com/leasewise/leasewise-cli/internal/core/domain"
	"github.com/leasewise/leasewise-cli/internal/core/ports/driven"
)

// Ensure Processor implements the port.
var _ driven.Chunker = (*Processor)(nil)

// DefaultChunkSize is the default maximum characters per chunk.
// Tuned empirically against the reference contract corpus.
const DefaultChunkSize = 450

// DefaultChunkOverlap is the default number of overlapping characters
// between consecutive chunks.
const DefaultChunkOverlap = 100

// separators is the split priority: paragraph breaks, then line breaks,
// then sentence breaks, then spaces, then a hard character cut.
var separators = []string{"\n\n", "\n", ". ", " "}

// Processor splits document pages into overlapping chunks.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Overlap must stay strictly below the chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// ChunkSize returns the configured maximum chunk length.
func (p *Processor) ChunkSize() int { return p.chunkSize }

// ChunkOverlap returns the configured overlap.
func (p *Processor) ChunkOverlap() int { return p.overlap }

// Chunk splits the document page by page, so every chunk carries the
// page it was drawn from and never spans a page boundary. An empty
// document produces zero chunks.
func (p *Processor) Chunk(doc *domain.Document) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	position := 0

	for _, page := range doc.Pages {
		text := strings.TrimSpace(page.Text)
		if text == "" {
			continue
		}

		for _, piece := range p.splitText(text, separators) {
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}

			chunks = append(chunks, domain.Chunk{
				ID:        uuid.New().String(),
				Signature: doc.Signature,
				Text:      piece,
				Page:      page.Number,
				Topic:     topicFor(piece),
				Position:  position,
			})
			position++
		}
	}

	return chunks, nil
}

// splitText recursively splits text on the first separator present,
// recursing with finer separators for pieces that are still too large,
// then merges the pieces back into overlapping chunks.
func (p *Processor) splitText(text string, seps []string) []string {
	if len(text) <= p.chunkSize {
		return []string{text}
	}

	sep, rest := pickSeparator(text, seps)
	if sep == "" {
		return p.splitByWidth(text)
	}

	var frags []string
	for _, part := range strings.Split(text, sep) {
		if part == "" {
			continue
		}
		if len(part) > p.chunkSize {
			frags = append(frags, p.splitText(part, rest)...)
		} else {
			frags = append(frags, part)
		}
	}

	return p.merge(frags, sep)
}

// pickSeparator returns the first separator that occurs in the text and
// the remaining, finer separators. Empty string means no separator
// applies and the text needs a hard cut.
func pickSeparator(text string, seps []string) (string, []string) {
	for i, sep := range seps {
		if strings.Contains(text, sep) {
			return sep, seps[i+1:]
		}
	}
	return "", nil
}

// merge greedily joins fragments into chunks of at most chunkSize,
// carrying a tail of trailing fragments up to the overlap length into
// the next chunk.
func (p *Processor) merge(frags []string, sep string) []string {
	var out []string
	var cur []string

	for _, frag := range frags {
		if len(cur) > 0 && joinedLen(cur, sep)+len(sep)+len(frag) > p.chunkSize {
			out = append(out, strings.Join(cur, sep))
			for len(cur) > 0 &&
				(joinedLen(cur, sep) > p.overlap ||
					joinedLen(cur, sep)+len(sep)+len(frag) > p.chunkSize) {
				cur = cur[1:]
			}
		}
		cur = append(cur, frag)
	}
	if len(cur) > 0 {
		out = append(out, strings.Join(cur, sep))
	}

	return out
}

func joinedLen(frags []string, sep string) int {
	n := 0
	for i, f := range frags {
		if i > 0 {
			n += len(sep)
		}
		n += len(f)
	}
	return n
}

// splitByWidth hard-cuts text into fixed windows with overlap. Only
// reached when no separator at all occurs in an oversized piece.
func (p *Processor) splitByWidth(text string) []string {
	runes := []rune(text)
	step := p.chunkSize - p.overlap
	if step <= 0 {
		step = p.chunkSize
	}

	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + p.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}
