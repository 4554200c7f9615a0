package domain

// Reference points the user at the contract text behind an answer.
// Single-passage answers fill Text and Page; comprehensive answers fill
// Pages, NumClauses and Topics instead.
type Reference struct {
	// Text is the top clause, whitespace-normalised (single-passage only).
	Text string `json:"text,omitempty"`

	// Page is the zero-based page of the top clause (single-passage only).
	Page int `json:"page,omitempty"`

	// Pages lists the sorted unique pages covered (comprehensive only).
	Pages []int `json:"pages,omitempty"`

	// NumClauses is the count of included passages (comprehensive only).
	NumClauses int `json:"num_clauses,omitempty"`

	// Topics lists the unique topics covered (comprehensive only).
	Topics []string `json:"topics,omitempty"`
}

// AnswerResult is the stable contract returned to every caller (CLI,
// batch evaluator, any future UI). The JSON field names are part of
// the contract and must not change.
type AnswerResult struct {
	// CanAnswer reports whether the document grounds an answer.
	CanAnswer bool `json:"can_answer"`

	// Answer is the answer text, or a degraded template when the
	// question cannot be answered.
	Answer string `json:"answer"`

	// Reference is nil when the question cannot be answered.
	Reference *Reference `json:"reference"`

	// Score is the top-1 cosine distance (0..2).
	Score float64 `json:"score"`

	// IsComprehensive marks answers from the multi-passage path.
	IsComprehensive bool `json:"is_comprehensive"`

	// NumClausesUsed is the number of passages synthesised
	// (comprehensive only).
	NumClausesUsed int `json:"num_clauses_used,omitempty"`

	// TopicsCovered lists the topics synthesised (comprehensive only).
	TopicsCovered []string `json:"topics_covered,omitempty"`

	// Escalate recommends handing the question to a human.
	Escalate bool `json:"escalate,omitempty"`
}
