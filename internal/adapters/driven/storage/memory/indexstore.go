// Package memory provides in-memory implementations of driven ports
// for testing and ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/leasewise/leasewise-cli/internal/core/domain"
	"github.com/leasewise/leasewise-cli/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore is an in-memory implementation of driven.IndexStore.
type IndexStore struct {
	mu      sync.RWMutex
	indexes map[string]*domain.Index
}

// NewIndexStore creates a new in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{
		indexes: make(map[string]*domain.Index),
	}
}

// Read loads the index stored for the signature.
func (s *IndexStore) Read(_ context.Context, signature string) (*domain.Index, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index, ok := s.indexes[signature]
	if !ok {
		return nil, fmt.Errorf("%w: no index for signature %s", domain.ErrNotFound, signature)
	}
	return index, nil
}

// Write stores the index, replacing any existing one for the signature.
func (s *IndexStore) Write(_ context.Context, index *domain.Index) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.indexes[index.Manifest.Signature] = index
	return nil
}

// Delete removes the index for the signature.
func (s *IndexStore) Delete(_ context.Context, signature string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.indexes, signature)
	return nil
}

// Close releases resources.
func (s *IndexStore) Close() error {
	return nil
}

// Len returns the number of stored indexes. Test helper.
func (s *IndexStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.indexes)
}
