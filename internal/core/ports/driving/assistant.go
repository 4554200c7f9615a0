package driving

import (
	"context"

	"github.com/leasewise/leasewise-cli/internal/core/domain"
)

// IndexService produces up-to-date indexes for documents.
type IndexService interface {
	// GetIndex returns the index for the document at uri, rebuilding
	// it when the stored one is missing or stale. The returned Index
	// is an immutable snapshot safe for concurrent queries.
	GetIndex(ctx context.Context, uri string) (*domain.Index, error)
}

// AssistantService answers questions against a document index.
type AssistantService interface {
	// Ask routes the question to the single-passage or comprehensive
	// path and returns the structured result. Generation failures are
	// absorbed into a degraded-but-valid AnswerResult; only errors that
	// block answering entirely propagate.
	Ask(ctx context.Context, query string, index *domain.Index) (domain.AnswerResult, error)
}

// RouteClassifier decides which composition path a question takes.
// The default is a lexical cue list; the interface exists so a model-
// based intent classifier can replace it without touching callers.
type RouteClassifier interface {
	// Route classifies the question.
	Route(query string) domain.Route
}
