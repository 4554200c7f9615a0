package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasewise/leasewise-cli/internal/core/domain"
)

// testIndex builds an index whose chunks carry hand-picked embeddings.
func testIndex(vectors ...[]float32) *domain.Index {
	ix := &domain.Index{
		Manifest: domain.Manifest{Signature: "sig"},
	}
	for i, v := range vectors {
		ix.Chunks = append(ix.Chunks, domain.Chunk{
			ID:        string(rune('a' + i)),
			Signature: "sig",
			Text:      "chunk",
			Position:  i,
			Embedding: v,
		})
	}
	return ix
}

func TestRetriever_Search_OrdersByDistanceAscending(t *testing.T) {
	embedder := newMockEmbedder()
	embedder.vectors["query"] = []float32{1, 0, 0}

	// Distances from the query: 0.0, ~0.29, 1.0, 2.0.
	index := testIndex(
		[]float32{0, 1, 0},  // orthogonal, distance 1
		[]float32{1, 0, 0},  // identical, distance 0
		[]float32{-1, 0, 0}, // opposite, distance 2
		[]float32{1, 1, 0},  // 45 degrees, distance ~0.29
	)

	r := NewRetriever(embedder)
	results, err := r.Search(context.Background(), "query", 10, index)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Score, results[i].Score,
			"results must be ordered ascending by score")
	}
	assert.InDelta(t, 0.0, results[0].Score, 1e-9)
	assert.InDelta(t, 2.0, results[3].Score, 1e-9)
}

func TestRetriever_Search_TruncatesToTopK(t *testing.T) {
	embedder := newMockEmbedder()
	index := testIndex(
		[]float32{1, 0, 0}, []float32{0, 1, 0}, []float32{0, 0, 1},
		[]float32{1, 1, 0}, []float32{1, 0, 1},
	)

	r := NewRetriever(embedder)
	results, err := r.Search(context.Background(), "query", 2, index)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRetriever_Search_TopKSmallerThanOne(t *testing.T) {
	r := NewRetriever(newMockEmbedder())

	_, err := r.Search(context.Background(), "query", 0, testIndex([]float32{1, 0, 0}))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRetriever_Search_EmptyIndex(t *testing.T) {
	embedder := newMockEmbedder()
	r := NewRetriever(embedder)

	results, err := r.Search(context.Background(), "query", 5, &domain.Index{})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, embedder.embedCalls, "empty index must not trigger a query embedding")
}

func TestRetriever_Search_NilIndex(t *testing.T) {
	embedder := newMockEmbedder()
	r := NewRetriever(embedder)

	results, err := r.Search(context.Background(), "query", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetriever_Search_EmbeddingFailure(t *testing.T) {
	embedder := newMockEmbedder()
	embedder.embedErr = errors.New("connection refused")

	r := NewRetriever(embedder)
	_, err := r.Search(context.Background(), "query", 5, testIndex([]float32{1, 0, 0}))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingService)
}

func TestRetriever_Search_StableTieOrder(t *testing.T) {
	embedder := newMockEmbedder()
	embedder.vectors["query"] = []float32{1, 0, 0}

	// Two chunks at identical distance keep their original order.
	index := testIndex([]float32{0, 1, 0}, []float32{0, 0, 1})

	r := NewRetriever(embedder)
	results, err := r.Search(context.Background(), "query", 10, index)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Chunk.Position)
	assert.Equal(t, 1, results[1].Chunk.Position)
}

func TestCosineDistance(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		d, err := cosineDistance([]float32{1, 2, 3}, []float32{1, 2, 3})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, d, 1e-9)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		d, err := cosineDistance([]float32{1, 0}, []float32{0, 1})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, d, 1e-9)
	})

	t.Run("opposite vectors", func(t *testing.T) {
		d, err := cosineDistance([]float32{1, 0}, []float32{-1, 0})
		require.NoError(t, err)
		assert.InDelta(t, 2.0, d, 1e-9)
	})

	t.Run("scale invariant", func(t *testing.T) {
		d1, err := cosineDistance([]float32{1, 2}, []float32{2, 1})
		require.NoError(t, err)
		d2, err := cosineDistance([]float32{10, 20}, []float32{2, 1})
		require.NoError(t, err)
		assert.InDelta(t, d1, d2, 1e-6)
	})

	t.Run("zero vector yields worst score", func(t *testing.T) {
		d, err := cosineDistance([]float32{0, 0}, []float32{1, 0})
		require.NoError(t, err)
		assert.Equal(t, domain.WorstScore, d)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := cosineDistance([]float32{1, 0}, []float32{1, 0, 0})
		assert.Error(t, err)
	})

	t.Run("empty vectors", func(t *testing.T) {
		_, err := cosineDistance(nil, nil)
		assert.Error(t, err)
	})
}
