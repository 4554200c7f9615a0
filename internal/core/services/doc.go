// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The retrieval-and-confidence pipeline lives here: IndexManager keeps
// per-signature indexes fresh, Retriever ranks passages by cosine
// distance, LexicalRouter picks the composition path, and Answerer
// turns retrieval results into grounded answers.
package services
