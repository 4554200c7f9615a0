package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/leasewise/leasewise-cli/internal/core/domain"
	"github.com/leasewise/leasewise-cli/internal/core/ports/driven"
	"github.com/leasewise/leasewise-cli/internal/core/ports/driving"
	"github.com/leasewise/leasewise-cli/internal/logger"
)

// Ensure Answerer implements the interface.
var _ driving.AssistantService = (*Answerer)(nil)

// AnswerConfig holds the retrieval and generation parameters for both
// composition paths. All values are empirically tuned per corpus and
// arrive via configuration.
type AnswerConfig struct {
	// TopKRetrieval is the candidate pool for single-passage answers.
	TopKRetrieval int

	// TopKContext is how many passages reach the generator.
	TopKContext int

	// TopKComprehensive is the candidate pool for comprehensive
	// answers. Much larger: coverage matters more than precision.
	TopKComprehensive int

	// RelevanceThreshold is the inclusion gate for comprehensive
	// answers. Deliberately more permissive than the answerability
	// threshold: a passage can be worth including in a summary without
	// being the single best match.
	RelevanceThreshold float64

	// SimpleTemperature and SimpleMaxTokens configure single-passage
	// generation. Zero selects the defaults.
	SimpleTemperature float64
	SimpleMaxTokens   int

	// SynthTemperature and SynthMaxTokens configure comprehensive
	// synthesis. Slightly warmer and longer. Zero selects the
	// defaults.
	SynthTemperature float64
	SynthMaxTokens   int

	// NotFoundAnswer, HedgedPrefix and GenerationFailedAnswer override
	// the degraded answer templates. Empty selects the defaults.
	NotFoundAnswer         string
	HedgedPrefix           string
	GenerationFailedAnswer string
}

// DefaultAnswerConfig returns the tuned defaults.
func DefaultAnswerConfig() AnswerConfig {
	return AnswerConfig{
		TopKRetrieval:      10,
		TopKContext:        3,
		TopKComprehensive:  50,
		RelevanceThreshold: 0.80,
		SimpleTemperature:  0.1,
		SimpleMaxTokens:    500,
		SynthTemperature:   0.2,
		SynthMaxTokens:     800,
	}
}

// Answerer turns a question plus an index into a grounded AnswerResult.
// It routes between the single-passage and comprehensive paths, gates
// both on the top-1 retrieval score, and absorbs generation failures
// into degraded-but-valid results.
type Answerer struct {
	retriever *Retriever
	llm       driven.LLMService
	strategy  domain.ConfidenceStrategy
	router    driving.RouteClassifier
	cfg       AnswerConfig
}

// NewAnswerer creates a new answerer.
func NewAnswerer(
	retriever *Retriever,
	llm driven.LLMService,
	strategy domain.ConfidenceStrategy,
	router driving.RouteClassifier,
	cfg AnswerConfig,
) *Answerer {
	defaults := DefaultAnswerConfig()
	if cfg.SimpleTemperature == 0 {
		cfg.SimpleTemperature = defaults.SimpleTemperature
	}
	if cfg.SimpleMaxTokens == 0 {
		cfg.SimpleMaxTokens = defaults.SimpleMaxTokens
	}
	if cfg.SynthTemperature == 0 {
		cfg.SynthTemperature = defaults.SynthTemperature
	}
	if cfg.SynthMaxTokens == 0 {
		cfg.SynthMaxTokens = defaults.SynthMaxTokens
	}
	if cfg.NotFoundAnswer == "" {
		cfg.NotFoundAnswer = notFoundAnswer
	}
	if cfg.HedgedPrefix == "" {
		cfg.HedgedPrefix = hedgedAnswerPrefix
	}
	if cfg.GenerationFailedAnswer == "" {
		cfg.GenerationFailedAnswer = generationFailedAnswer
	}
	return &Answerer{
		retriever: retriever,
		llm:       llm,
		strategy:  strategy,
		router:    router,
		cfg:       cfg,
	}
}

// Ask answers the question against the given index snapshot.
func (a *Answerer) Ask(ctx context.Context, query string, index *domain.Index) (domain.AnswerResult, error) {
	route := a.router.Route(query)
	logger.Section("Question")
	logger.Info("Query: %q, route: %s", query, route)

	if route == domain.RouteComprehensive {
		return a.askComprehensive(ctx, query, index)
	}
	return a.askSimple(ctx, query, index)
}

// askSimple is the single-passage path: top few passages, one clause
// reference.
func (a *Answerer) askSimple(ctx context.Context, query string, index *domain.Index) (domain.AnswerResult, error) {
	results, err := a.retriever.Search(ctx, query, a.cfg.TopKRetrieval, index)
	if err != nil {
		return domain.AnswerResult{}, err
	}
	if len(results) == 0 {
		return notFoundResult(a.cfg.NotFoundAnswer, domain.WorstScore, false), nil
	}

	score := results[0].Score
	verdict := a.strategy.Classify(score)
	logger.Score("answerability gate", score)
	logger.Info("Verdict %s", verdict)

	if !verdict.Answerable() {
		return notFoundResult(a.cfg.NotFoundAnswer, score, false), nil
	}

	top := results[0]
	reference := &domain.Reference{
		Text: collapseWhitespace(top.Chunk.Text),
		Page: top.Chunk.Page,
	}

	if verdict.Hedged() {
		// Medium confidence: expose the clause as-is, no generation.
		return domain.AnswerResult{
			CanAnswer: true,
			Answer:    a.cfg.HedgedPrefix + reference.Text,
			Reference: reference,
			Score:     score,
			Escalate:  true,
		}, nil
	}

	contextBlock := formatContext(results, a.cfg.TopKContext)
	userPrompt := fmt.Sprintf(
		"Question: %s\n\nRelevant Contract Clauses:\n%s\n\n"+
			"Please provide a clear, accurate answer based on these clauses.",
		query, contextBlock)

	answer, err := a.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: simpleSystemPrompt},
		{Role: "user", Content: userPrompt},
	}, driven.ChatOptions{
		Temperature: a.cfg.SimpleTemperature,
		MaxTokens:   a.cfg.SimpleMaxTokens,
	})
	if err != nil {
		logger.Warn("Generation failed: %v", fmt.Errorf("%w: %v", domain.ErrGenerationService, err))
		return generationFailedResult(a.cfg.GenerationFailedAnswer, score, false), nil
	}

	return domain.AnswerResult{
		CanAnswer: true,
		Answer:    strings.TrimSpace(answer),
		Reference: reference,
		Score:     score,
	}, nil
}

// askComprehensive is the coverage path: a large candidate pool,
// lenient inclusion, topic grouping, one synthesised answer.
func (a *Answerer) askComprehensive(ctx context.Context, query string, index *domain.Index) (domain.AnswerResult, error) {
	results, err := a.retriever.Search(ctx, query, a.cfg.TopKComprehensive, index)
	if err != nil {
		return domain.AnswerResult{}, err
	}
	if len(results) == 0 {
		return notFoundResult(a.cfg.NotFoundAnswer, domain.WorstScore, true), nil
	}

	// Answerability gate first: if even the best match is weak, the
	// document likely doesn't address the topic and synthesis is
	// skipped entirely.
	score := results[0].Score
	verdict := a.strategy.Classify(score)
	logger.Score("answerability gate", score)
	logger.Info("Verdict %s", verdict)

	if !verdict.Answerable() {
		return notFoundResult(a.cfg.NotFoundAnswer, score, true), nil
	}

	relevant := make([]domain.RetrievalResult, 0, len(results))
	for _, r := range results {
		if r.Score < a.cfg.RelevanceThreshold {
			relevant = append(relevant, r)
		}
	}
	if len(relevant) == 0 {
		// Unreachable while RelevanceThreshold exceeds the
		// answerability threshold, but degrade to top-3 anyway.
		if len(results) > 3 {
			relevant = results[:3]
		} else {
			relevant = results
		}
		logger.Warn("Relevance filter empty, falling back to top-%d", len(relevant))
	}

	topics := topicsCovered(relevant)
	logger.Info("Synthesising %d clauses across topics %v", len(relevant), topics)

	contextBlock := formatComprehensiveContext(relevant)
	userPrompt := fmt.Sprintf(
		"Question: %s\n\n"+
			"I have found %d relevant clauses from the tenancy agreement covering %d different topics.\n\n"+
			"Please provide a COMPREHENSIVE answer that synthesizes ALL the information below:\n%s\n\n"+
			"Remember:\n"+
			"- Include ALL relevant points from ALL clauses\n"+
			"- Organize the answer clearly (use lists/categories)\n"+
			"- Be thorough but concise",
		query, len(relevant), len(topics), contextBlock)

	answer, err := a.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: comprehensiveSystemPrompt},
		{Role: "user", Content: userPrompt},
	}, driven.ChatOptions{
		Temperature: a.cfg.SynthTemperature,
		MaxTokens:   a.cfg.SynthMaxTokens,
	})
	if err != nil {
		logger.Warn("Synthesis failed: %v", fmt.Errorf("%w: %v", domain.ErrGenerationService, err))
		result := generationFailedResult(a.cfg.GenerationFailedAnswer, score, true)
		result.NumClausesUsed = len(relevant)
		result.TopicsCovered = topics
		return result, nil
	}

	return domain.AnswerResult{
		CanAnswer: true,
		Answer:    strings.TrimSpace(answer),
		Reference: &domain.Reference{
			Pages:      pagesCovered(relevant),
			NumClauses: len(relevant),
			Topics:     topics,
		},
		Score:           score,
		IsComprehensive: true,
		NumClausesUsed:  len(relevant),
		TopicsCovered:   topics,
	}, nil
}

var whitespaceRE = regexp.MustCompile(`\s+`)

func collapseWhitespace(text string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(text), " ")
}

// formatContext renders the top maxClauses passages as page-labelled
// blocks for the generator.
func formatContext(results []domain.RetrievalResult, maxClauses int) string {
	if maxClauses > len(results) {
		maxClauses = len(results)
	}

	parts := make([]string, 0, maxClauses)
	for i := 0; i < maxClauses; i++ {
		parts = append(parts, fmt.Sprintf("[Clause %d - Page %d]\n%s",
			i+1, results[i].Chunk.Page, collapseWhitespace(results[i].Chunk.Text)))
	}
	return strings.Join(parts, "\n\n")
}

// formatComprehensiveContext renders passages grouped by topic, in
// first-appearance order, with per-clause page and relevance labels.
func formatComprehensiveContext(results []domain.RetrievalResult) string {
	grouped := make(map[string][]domain.RetrievalResult)
	var order []string
	for _, r := range results {
		topic := r.Chunk.Topic
		if _, seen := grouped[topic]; !seen {
			order = append(order, topic)
		}
		grouped[topic] = append(grouped[topic], r)
	}

	var b strings.Builder
	for _, topic := range order {
		fmt.Fprintf(&b, "\n=== Topic: %s ===\n", strings.ToUpper(topic))
		for i, r := range grouped[topic] {
			fmt.Fprintf(&b, "\n[Clause %d - Page %d, Relevance: %.2f]\n%s\n",
				i+1, r.Chunk.Page, 1-r.Score, collapseWhitespace(r.Chunk.Text))
		}
	}
	return b.String()
}

// topicsCovered returns the unique topics in first-appearance order.
func topicsCovered(results []domain.RetrievalResult) []string {
	seen := make(map[string]bool)
	var topics []string
	for _, r := range results {
		if !seen[r.Chunk.Topic] {
			seen[r.Chunk.Topic] = true
			topics = append(topics, r.Chunk.Topic)
		}
	}
	return topics
}

// pagesCovered returns the sorted unique pages.
func pagesCovered(results []domain.RetrievalResult) []int {
	seen := make(map[int]bool)
	var pages []int
	for _, r := range results {
		if !seen[r.Chunk.Page] {
			seen[r.Chunk.Page] = true
			pages = append(pages, r.Chunk.Page)
		}
	}
	sort.Ints(pages)
	return pages
}

func notFoundResult(answer string, score float64, comprehensive bool) domain.AnswerResult {
	return domain.AnswerResult{
		CanAnswer:       false,
		Answer:          answer,
		Score:           score,
		IsComprehensive: comprehensive,
		Escalate:        true,
	}
}

func generationFailedResult(answer string, score float64, comprehensive bool) domain.AnswerResult {
	return domain.AnswerResult{
		CanAnswer:       false,
		Answer:          answer,
		Score:           score,
		IsComprehensive: comprehensive,
		Escalate:        true,
	}
}
