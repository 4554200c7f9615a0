// Package domain defines the core business entities for Leasewise.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A loaded contract with its content signature
//   - Chunk: A retrievable passage with page provenance
//   - Index: The embedded chunks for one document, plus its manifest
//   - RetrievalResult: A chunk with a cosine-distance score
//   - AnswerResult: The stable result contract returned to every caller
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
