package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/leasewise/leasewise-cli/internal/core/domain"
	"github.com/leasewise/leasewise-cli/internal/core/ports/driven"
	"github.com/leasewise/leasewise-cli/internal/logger"
)

// Retriever ranks index passages against a query by cosine distance.
// It only reads the index snapshot it is handed; persisted state is
// owned by IndexManager.
type Retriever struct {
	embedder driven.EmbeddingService
}

// NewRetriever creates a new retriever.
func NewRetriever(embedder driven.EmbeddingService) *Retriever {
	return &Retriever{embedder: embedder}
}

// Search embeds the query and returns up to topK results ordered
// ascending by cosine distance (best first, ties in chunk order).
//
// An empty index yields an empty result slice and no error; callers
// treat that as "cannot answer". No query embedding call is made in
// that case.
func (r *Retriever) Search(
	ctx context.Context, query string, topK int, index *domain.Index,
) ([]domain.RetrievalResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: topK must be >= 1, got %d", domain.ErrInvalidInput, topK)
	}
	if index.Len() == 0 {
		logger.Debug("Empty index, returning no results")
		return []domain.RetrievalResult{}, nil
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", domain.ErrEmbeddingService, err)
	}

	results := make([]domain.RetrievalResult, 0, index.Len())
	for i := range index.Chunks {
		score, err := cosineDistance(vector, index.Chunks[i].Embedding)
		if err != nil {
			return nil, fmt.Errorf("scoring chunk %d: %w", i, err)
		}
		results = append(results, domain.RetrievalResult{
			Chunk: index.Chunks[i],
			Score: score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})

	if topK < len(results) {
		results = results[:topK]
	}

	logger.Debug("Retrieved %d results", len(results))
	logger.Score("top-1 distance", results[0].Score)
	return results, nil
}

// cosineDistance computes 1 - cosine similarity, giving the 0..2 range
// used throughout: 0 = identical, 2 = unrelated.
func cosineDistance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("empty vectors")
	}

	var dot, na, nb float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na += va * va
		nb += vb * vb
	}
	if na == 0 || nb == 0 {
		return domain.WorstScore, nil
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb)), nil
}
