package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/leasewise/leasewise-cli/internal/core/domain"
	"github.com/leasewise/leasewise-cli/internal/core/ports/driven"
)

// --- Mock implementations of the driven ports ---

// mockEmbedder implements driven.EmbeddingService with canned vectors.
// Unknown texts get a fixed fallback vector.
type mockEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32

	embedCalls int
	batchCalls int
	embedErr   error
	batchErr   error

	model      string
	dimensions int
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{
		vectors:    make(map[string][]float32),
		model:      "mock-embed",
		dimensions: 3,
	}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := m.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = []float32{1, 0, 0}
		}
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return m.dimensions }
func (m *mockEmbedder) ModelName() string            { return m.model }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockLLM implements driven.LLMService, recording every call.
type mockLLM struct {
	mu       sync.Mutex
	response string
	err      error

	calls    int
	messages [][]driven.ChatMessage
	opts     []driven.ChatOptions
}

func newMockLLM(response string) *mockLLM {
	return &mockLLM{response: response}
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.messages = append(m.messages, messages)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) lastUserPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return ""
	}
	last := m.messages[len(m.messages)-1]
	for _, msg := range last {
		if msg.Role == "user" {
			return msg.Content
		}
	}
	return ""
}

// mockDocSource implements driven.DocumentSource over a fixed document
// per URI.
type mockDocSource struct {
	docs    map[string]*domain.Document
	loadErr error
}

func newMockDocSource() *mockDocSource {
	return &mockDocSource{docs: make(map[string]*domain.Document)}
}

func (m *mockDocSource) Load(_ context.Context, uri string) (*domain.Document, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	doc, ok := m.docs[uri]
	if !ok {
		return nil, fmt.Errorf("%w: no document at %s", domain.ErrDocumentLoad, uri)
	}
	return doc, nil
}

func (m *mockDocSource) SupportedExtensions() []string { return []string{".txt"} }

// mockChunker implements driven.Chunker by splitting on sentence stops,
// one chunk per sentence.
type mockChunker struct {
	size    int
	overlap int
}

func newMockChunker() *mockChunker {
	return &mockChunker{size: 450, overlap: 100}
}

func (m *mockChunker) Chunk(doc *domain.Document) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	position := 0
	for _, page := range doc.Pages {
		for _, sentence := range strings.Split(page.Text, ". ") {
			sentence = strings.TrimSpace(sentence)
			if sentence == "" {
				continue
			}
			chunks = append(chunks, domain.Chunk{
				ID:        fmt.Sprintf("chunk-%d", position),
				Signature: doc.Signature,
				Text:      sentence,
				Page:      page.Number,
				Topic:     "general",
				Position:  position,
			})
			position++
		}
	}
	return chunks, nil
}

func (m *mockChunker) ChunkSize() int    { return m.size }
func (m *mockChunker) ChunkOverlap() int { return m.overlap }
