package driven

import (
	"context"

	"github.com/leasewise/leasewise-cli/internal/core/domain"
)

// IndexStore persists embedded chunk indexes keyed by document
// signature. The index manager exclusively owns writes; everything else
// reads through it.
//
// At most one valid index exists per signature. Write must be atomic
// with respect to concurrent readers: a reader sees either the full
// index or nothing, never a half-written one.
type IndexStore interface {
	// Read loads the index stored for the signature.
	// Returns domain.ErrNotFound when nothing is stored.
	Read(ctx context.Context, signature string) (*domain.Index, error)

	// Write persists the index atomically, replacing any existing
	// index for the same signature.
	Write(ctx context.Context, index *domain.Index) error

	// Delete removes all stored artifacts for the signature.
	// Deleting an absent signature is not an error.
	Delete(ctx context.Context, signature string) error

	// Close releases resources.
	Close() error
}
