package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leasewise/leasewise-cli/internal/core/domain"
	"github.com/leasewise/leasewise-cli/internal/core/ports/driven"
	"github.com/leasewise/leasewise-cli/internal/core/ports/driving"
	"github.com/leasewise/leasewise-cli/internal/logger"
)

// Ensure IndexManager implements the interface.
var _ driving.IndexService = (*IndexManager)(nil)

// IndexManager owns the persisted indexes. It detects staleness via the
// document's content signature and rebuilds from scratch on any
// mismatch. Stored indexes are never incrementally patched.
type IndexManager struct {
	source   driven.DocumentSource
	store    driven.IndexStore
	embedder driven.EmbeddingService
	chunker  driven.Chunker

	// locks serializes rebuilds per signature so two callers observing
	// the same stale index cannot delete-and-rebuild concurrently.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewIndexManager creates a new index manager.
func NewIndexManager(
	source driven.DocumentSource,
	store driven.IndexStore,
	embedder driven.EmbeddingService,
	chunker driven.Chunker,
) *IndexManager {
	return &IndexManager{
		source:   source,
		store:    store,
		embedder: embedder,
		chunker:  chunker,
		locks:    make(map[string]*sync.Mutex),
	}
}

// GetIndex returns an up-to-date index for the document at uri.
//
// The document is loaded and its signature computed on every call; a
// stored index whose manifest matches the signature and the current
// embedding/chunking configuration is served as-is. Anything else is
// purged and rebuilt synchronously, so the caller pays the rebuild
// latency inline on a cache miss.
func (m *IndexManager) GetIndex(ctx context.Context, uri string) (*domain.Index, error) {
	doc, err := m.source.Load(ctx, uri)
	if err != nil {
		return nil, err
	}
	if doc.IsEmpty() {
		return nil, fmt.Errorf("%w: %s contains no extractable text", domain.ErrDocumentLoad, uri)
	}

	lock := m.signatureLock(doc.Signature)
	lock.Lock()
	defer lock.Unlock()

	stored, err := m.store.Read(ctx, doc.Signature)
	if err == nil && m.manifestValid(stored.Manifest, doc.Signature) {
		logger.Debug("Index hit for signature %.12s (%d chunks)", doc.Signature, stored.Len())
		return stored, nil
	}
	if err == nil {
		logger.Info("Stored index for %.12s is stale, rebuilding", doc.Signature)
	} else {
		logger.Info("No stored index for %.12s, building", doc.Signature)
	}

	// Purge whatever is there before rebuilding from scratch.
	if err := m.store.Delete(ctx, doc.Signature); err != nil {
		return nil, fmt.Errorf("purging stale index: %w", err)
	}

	return m.rebuild(ctx, doc)
}

// rebuild chunks, embeds and persists a fresh index. The write happens
// only after every embedding succeeded, so a failed build leaves no
// partial index behind.
func (m *IndexManager) rebuild(ctx context.Context, doc *domain.Document) (*domain.Index, error) {
	chunks, err := m.chunker.Chunk(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: chunking %s: %v", domain.ErrDocumentLoad, doc.URI, err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s produced no chunks", domain.ErrDocumentLoad, doc.URI)
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	embeddings, err := m.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingService, err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrEmbeddingService, len(embeddings), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	index := &domain.Index{
		Manifest: domain.Manifest{
			Signature:      doc.Signature,
			EmbeddingModel: m.embedder.ModelName(),
			Dimensions:     m.embedder.Dimensions(),
			ChunkSize:      m.chunker.ChunkSize(),
			ChunkOverlap:   m.chunker.ChunkOverlap(),
			CreatedAt:      time.Now().UTC(),
		},
		Chunks: chunks,
	}

	if err := m.store.Write(ctx, index); err != nil {
		return nil, fmt.Errorf("persisting index: %w", err)
	}

	logger.Info("Built index for %.12s: %d chunks, model %s",
		doc.Signature, len(chunks), index.Manifest.EmbeddingModel)
	return index, nil
}

// manifestValid reports whether a stored manifest still matches the live
// document and the current embedding/chunking configuration. Any
// mismatch, including a changed embedding model, invalidates the
// index, which keeps index and query embeddings in the same space.
func (m *IndexManager) manifestValid(man domain.Manifest, signature string) bool {
	return man.Signature == signature &&
		man.EmbeddingModel == m.embedder.ModelName() &&
		man.Dimensions == m.embedder.Dimensions() &&
		man.ChunkSize == m.chunker.ChunkSize() &&
		man.ChunkOverlap == m.chunker.ChunkOverlap()
}

func (m *IndexManager) signatureLock(signature string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[signature]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[signature] = lock
	}
	return lock
}
