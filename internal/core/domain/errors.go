package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDocumentLoad indicates the source document is missing,
	// unreadable or empty. Not retried; it blocks all queries against
	// that document.
	ErrDocumentLoad = errors.New("document load failed")

	// ErrEmbeddingService indicates an embedding call failed.
	// During index build the build aborts with no partial persist;
	// at query time the caller should retry.
	ErrEmbeddingService = errors.New("embedding service failed")

	// ErrGenerationService indicates a text-generation call failed.
	// Recovered locally: the user receives a templated apology with the
	// escalation flag set, never the raw error.
	ErrGenerationService = errors.New("generation service failed")
)
