package domain

// WorstScore is the maximum cosine distance: 0 means identical,
// 2 means unrelated. Used as the default score when retrieval
// returns nothing.
const WorstScore = 2.0

// RetrievalResult is a chunk paired with its cosine distance from the
// query. Lower scores are more similar. Result sequences are always
// ordered ascending by score, ties broken by original chunk order.
type RetrievalResult struct {
	// Chunk is the matched passage.
	Chunk Chunk

	// Score is the cosine distance (0 = identical, 2 = unrelated).
	Score float64
}

// TopScore returns the best (lowest) score in the result sequence,
// or WorstScore when the sequence is empty.
func TopScore(results []RetrievalResult) float64 {
	if len(results) == 0 {
		return WorstScore
	}
	return results[0].Score
}
