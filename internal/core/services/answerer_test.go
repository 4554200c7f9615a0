package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasewise/leasewise-cli/internal/core/domain"
)

// answerIndex builds an index from chunks whose embeddings were placed
// at a chosen cosine distance from the query. The mock embedder maps
// any unknown query text to {1,0,0}, so vectorForScore positions each
// chunk relative to that axis.
func answerIndex(_ *mockEmbedder, chunks ...domain.Chunk) *domain.Index {
	return &domain.Index{
		Manifest: domain.Manifest{Signature: "sig"},
		Chunks:   chunks,
	}
}

// vectorForScore returns a unit vector at cosine distance score from
// {1,0,0}.
func vectorForScore(score float64) []float32 {
	cos := 1 - score
	sin := 1 - cos*cos
	if sin < 0 {
		sin = 0
	}
	return []float32{float32(cos), float32(math.Sqrt(sin)), 0}
}

func scoredChunk(id string, page int, topic, text string, score float64) domain.Chunk {
	return domain.Chunk{
		ID:        id,
		Signature: "sig",
		Text:      text,
		Page:      page,
		Topic:     topic,
		Embedding: vectorForScore(score),
	}
}

func newTestAnswerer(embedder *mockEmbedder, llm *mockLLM, strategy domain.ConfidenceStrategy) *Answerer {
	if strategy == nil {
		strategy = domain.BinaryStrategy{Threshold: 0.65}
	}
	return NewAnswerer(NewRetriever(embedder), llm, strategy, NewLexicalRouter(), DefaultAnswerConfig())
}

func TestAnswerer_Ask_SimpleAnswer(t *testing.T) {
	embedder := newMockEmbedder()
	llm := newMockLLM("Rent is due on the 1st of each month.")

	index := answerIndex(embedder,
		scoredChunk("c1", 2, "payment", "Rent  shall be\npaid on the 1st of each month.", 0.30),
		scoredChunk("c2", 4, "deposit", "The deposit is two months of rent.", 0.90),
	)

	a := newTestAnswerer(embedder, llm, nil)
	result, err := a.Ask(context.Background(), "When is my rent due?", index)
	require.NoError(t, err)

	assert.True(t, result.CanAnswer)
	assert.Equal(t, "Rent is due on the 1st of each month.", result.Answer)
	assert.False(t, result.IsComprehensive)
	assert.False(t, result.Escalate)
	assert.InDelta(t, 0.30, result.Score, 1e-3)

	require.NotNil(t, result.Reference)
	assert.Equal(t, 2, result.Reference.Page)
	assert.Equal(t, "Rent shall be paid on the 1st of each month.", result.Reference.Text,
		"reference text must be whitespace-normalised")

	assert.Equal(t, 1, llm.calls)
	assert.InDelta(t, 0.1, llm.opts[0].Temperature, 1e-9)
	assert.Equal(t, 500, llm.opts[0].MaxTokens)
}

func TestAnswerer_Ask_BelowThresholdRefuses(t *testing.T) {
	embedder := newMockEmbedder()
	llm := newMockLLM("should never be called")

	index := answerIndex(embedder,
		scoredChunk("c1", 0, "general", "Governing law clause.", 0.90),
	)

	a := newTestAnswerer(embedder, llm, nil)
	result, err := a.Ask(context.Background(), "Can I sublet the flat?", index)
	require.NoError(t, err)

	assert.False(t, result.CanAnswer)
	assert.Equal(t, notFoundAnswer, result.Answer)
	assert.Nil(t, result.Reference)
	assert.True(t, result.Escalate)
	assert.Zero(t, llm.calls, "refusal must not reach the generator")
}

func TestAnswerer_Ask_EmptyIndexRefuses(t *testing.T) {
	embedder := newMockEmbedder()
	llm := newMockLLM("unused")

	a := newTestAnswerer(embedder, llm, nil)
	result, err := a.Ask(context.Background(), "When is my rent due?", &domain.Index{})
	require.NoError(t, err)

	assert.False(t, result.CanAnswer)
	assert.Equal(t, domain.WorstScore, result.Score)
	assert.Zero(t, llm.calls)
}

func TestAnswerer_Ask_GenerationFailureDegrades(t *testing.T) {
	embedder := newMockEmbedder()
	llm := newMockLLM("")
	llm.err = errors.New("upstream timeout")

	index := answerIndex(embedder,
		scoredChunk("c1", 1, "payment", "Rent is payable monthly in advance.", 0.20),
	)

	a := newTestAnswerer(embedder, llm, nil)
	result, err := a.Ask(context.Background(), "When is my rent due?", index)
	require.NoError(t, err, "generation failure is absorbed, not returned")

	assert.False(t, result.CanAnswer)
	assert.Equal(t, generationFailedAnswer, result.Answer)
	assert.True(t, result.Escalate)
	assert.InDelta(t, 0.20, result.Score, 1e-3)
}

func TestAnswerer_Ask_HedgedMediumConfidence(t *testing.T) {
	embedder := newMockEmbedder()
	llm := newMockLLM("should never be called")

	index := answerIndex(embedder,
		scoredChunk("c1", 3, "termination", "Notice period is two months.", 0.70),
	)

	a := newTestAnswerer(embedder, llm, domain.GradedStrategy{High: 0.60, Medium: 0.80})
	result, err := a.Ask(context.Background(), "When is my rent due?", index)
	require.NoError(t, err)

	assert.True(t, result.CanAnswer)
	assert.True(t, result.Escalate)
	assert.True(t, strings.HasPrefix(result.Answer, hedgedAnswerPrefix))
	assert.Contains(t, result.Answer, "Notice period is two months.")
	require.NotNil(t, result.Reference)
	assert.Equal(t, 3, result.Reference.Page)
	assert.Zero(t, llm.calls, "hedged answers surface the clause without generating")
}

func TestAnswerer_Ask_ComprehensiveAnswer(t *testing.T) {
	embedder := newMockEmbedder()
	llm := newMockLLM("Before moving out you must: 1. give notice 2. settle bills 3. restore the unit.")

	index := answerIndex(embedder,
		scoredChunk("c1", 1, "termination", "Give two months written notice.", 0.50),
		scoredChunk("c2", 3, "payment", "Settle all outstanding rent.", 0.72),
		scoredChunk("c3", 1, "termination", "Return all keys and access cards.", 0.79),
		scoredChunk("c4", 5, "utilities", "Close utility accounts.", 0.81),
		scoredChunk("c5", 7, "general", "Governing law of Singapore.", 0.95),
	)

	a := newTestAnswerer(embedder, llm, nil)
	result, err := a.Ask(context.Background(), "What do I need to do before moving out?", index)
	require.NoError(t, err)

	assert.True(t, result.CanAnswer)
	assert.True(t, result.IsComprehensive)
	assert.Equal(t, 3, result.NumClausesUsed,
		"only clauses below the relevance threshold are synthesised")
	assert.Equal(t, []string{"termination", "payment"}, result.TopicsCovered)

	require.NotNil(t, result.Reference)
	assert.Equal(t, []int{1, 3}, result.Reference.Pages)
	assert.Equal(t, 3, result.Reference.NumClauses)

	assert.Equal(t, 1, llm.calls)
	assert.InDelta(t, 0.2, llm.opts[0].Temperature, 1e-9)
	assert.Equal(t, 800, llm.opts[0].MaxTokens)

	prompt := llm.lastUserPrompt()
	assert.Contains(t, prompt, "Give two months written notice.")
	assert.Contains(t, prompt, "Settle all outstanding rent.")
	assert.NotContains(t, prompt, "Close utility accounts.",
		"clauses at or above the relevance threshold stay out of the context")
}

func TestAnswerer_Ask_ComprehensiveGateFailure(t *testing.T) {
	embedder := newMockEmbedder()
	llm := newMockLLM("should never be called")

	// Every clause is weak; even the comprehensive path refuses.
	index := answerIndex(embedder,
		scoredChunk("c1", 0, "general", "Governing law clause.", 0.85),
		scoredChunk("c2", 1, "general", "Severability clause.", 0.92),
	)

	a := newTestAnswerer(embedder, llm, nil)
	result, err := a.Ask(context.Background(), "What do I need to do before moving out?", index)
	require.NoError(t, err)

	assert.False(t, result.CanAnswer)
	assert.True(t, result.IsComprehensive)
	assert.Equal(t, notFoundAnswer, result.Answer)
	assert.True(t, result.Escalate)
	assert.Zero(t, llm.calls, "a weak top match skips synthesis entirely")
}

func TestAnswerer_Ask_ComprehensiveSynthesisFailure(t *testing.T) {
	embedder := newMockEmbedder()
	llm := newMockLLM("")
	llm.err = errors.New("quota exceeded")

	index := answerIndex(embedder,
		scoredChunk("c1", 1, "termination", "Give two months written notice.", 0.50),
		scoredChunk("c2", 3, "payment", "Settle all outstanding rent.", 0.72),
	)

	a := newTestAnswerer(embedder, llm, nil)
	result, err := a.Ask(context.Background(), "What do I need to do before moving out?", index)
	require.NoError(t, err)

	assert.False(t, result.CanAnswer)
	assert.Equal(t, generationFailedAnswer, result.Answer)
	assert.True(t, result.IsComprehensive)
	assert.True(t, result.Escalate)
	assert.Equal(t, 2, result.NumClausesUsed)
	assert.Equal(t, []string{"termination", "payment"}, result.TopicsCovered)
}

func TestAnswerer_Ask_TemplateOverrides(t *testing.T) {
	embedder := newMockEmbedder()
	llm := newMockLLM("unused")

	index := answerIndex(embedder,
		scoredChunk("c1", 0, "general", "Governing law clause.", 0.95),
	)

	cfg := DefaultAnswerConfig()
	cfg.NotFoundAnswer = "The agreement does not cover this."
	a := NewAnswerer(NewRetriever(embedder), llm, domain.BinaryStrategy{Threshold: 0.65},
		NewLexicalRouter(), cfg)

	result, err := a.Ask(context.Background(), "Can I sublet the flat?", index)
	require.NoError(t, err)
	assert.Equal(t, "The agreement does not cover this.", result.Answer)
}

func TestNewAnswerer_FillsGenerationDefaults(t *testing.T) {
	embedder := newMockEmbedder()
	llm := newMockLLM("unused")

	a := NewAnswerer(NewRetriever(embedder), llm, domain.BinaryStrategy{Threshold: 0.65},
		NewLexicalRouter(), AnswerConfig{TopKRetrieval: 10, TopKContext: 3})

	want := DefaultAnswerConfig()
	assert.InDelta(t, want.SimpleTemperature, a.cfg.SimpleTemperature, 1e-9)
	assert.Equal(t, want.SimpleMaxTokens, a.cfg.SimpleMaxTokens)
	assert.InDelta(t, want.SynthTemperature, a.cfg.SynthTemperature, 1e-9)
	assert.Equal(t, want.SynthMaxTokens, a.cfg.SynthMaxTokens)
	assert.Equal(t, notFoundAnswer, a.cfg.NotFoundAnswer)

	// Explicit values survive.
	b := NewAnswerer(NewRetriever(embedder), llm, domain.BinaryStrategy{Threshold: 0.65},
		NewLexicalRouter(), AnswerConfig{SimpleTemperature: 0.4, SynthMaxTokens: 1200})
	assert.InDelta(t, 0.4, b.cfg.SimpleTemperature, 1e-9)
	assert.Equal(t, 1200, b.cfg.SynthMaxTokens)
}

func TestFormatComprehensiveContext(t *testing.T) {
	results := []domain.RetrievalResult{
		{Chunk: domain.Chunk{Text: "Give notice.", Page: 1, Topic: "termination"}, Score: 0.50},
		{Chunk: domain.Chunk{Text: "Pay rent.", Page: 2, Topic: "payment"}, Score: 0.60},
		{Chunk: domain.Chunk{Text: "Return keys.", Page: 3, Topic: "termination"}, Score: 0.70},
	}

	out := formatComprehensiveContext(results)

	assert.Contains(t, out, "=== Topic: TERMINATION ===")
	assert.Contains(t, out, "=== Topic: PAYMENT ===")
	assert.Contains(t, out, "Relevance: 0.50")
	assert.Less(t, strings.Index(out, "TERMINATION"), strings.Index(out, "PAYMENT"),
		"topics appear in first-appearance order")

	// Both termination clauses land under the one heading.
	termination := out[strings.Index(out, "TERMINATION"):strings.Index(out, "PAYMENT")]
	assert.Contains(t, termination, "Give notice.")
	assert.Contains(t, termination, "Return keys.")
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", collapseWhitespace("  a\n\n b\t c  "))
	assert.Equal(t, "", collapseWhitespace("   "))
}

func TestPagesCovered(t *testing.T) {
	results := []domain.RetrievalResult{
		{Chunk: domain.Chunk{Page: 5}},
		{Chunk: domain.Chunk{Page: 1}},
		{Chunk: domain.Chunk{Page: 5}},
		{Chunk: domain.Chunk{Page: 3}},
	}
	assert.Equal(t, []int{1, 3, 5}, pagesCovered(results))
}
