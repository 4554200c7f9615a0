package domain

// Verdict is a discrete answerability decision derived from the top-1
// retrieval score.
type Verdict string

// Verdicts produced by the binary policy.
const (
	VerdictCanAnswer    Verdict = "can_answer"
	VerdictCannotAnswer Verdict = "cannot_answer"
)

// Verdicts produced by the graded policy.
const (
	VerdictHigh   Verdict = "high"
	VerdictMedium Verdict = "medium"
	VerdictLow    Verdict = "low"
)

// Answerable reports whether the verdict permits answering at all.
// Medium counts as answerable: the caller surfaces the clause with a
// hedge instead of refusing.
func (v Verdict) Answerable() bool {
	switch v {
	case VerdictCanAnswer, VerdictHigh, VerdictMedium:
		return true
	default:
		return false
	}
}

// Hedged reports whether the verdict requires a human-verification
// hedge rather than a generated answer.
func (v Verdict) Hedged() bool {
	return v == VerdictMedium
}

// ConfidenceStrategy maps a top-1 retrieval score to a Verdict.
// Thresholds are empirically tuned per corpus and arrive via
// configuration; strategies are replaceable, not baked into retrieval.
type ConfidenceStrategy interface {
	// Classify maps a cosine distance to a verdict.
	Classify(score float64) Verdict

	// Name identifies the policy ("binary" or "graded").
	Name() string
}

// BinaryStrategy is the two-class policy: a score strictly below the
// threshold can be answered, anything at or above it cannot.
type BinaryStrategy struct {
	// Threshold is the exclusive upper bound for answerable scores.
	Threshold float64
}

// Classify implements ConfidenceStrategy.
func (s BinaryStrategy) Classify(score float64) Verdict {
	if score < s.Threshold {
		return VerdictCanAnswer
	}
	return VerdictCannotAnswer
}

// Name implements ConfidenceStrategy.
func (s BinaryStrategy) Name() string { return "binary" }

// GradedStrategy is the three-class policy: scores below High are
// confidently answerable, scores below Medium are answerable with a
// hedge, the rest are not answerable.
type GradedStrategy struct {
	High   float64
	Medium float64
}

// Classify implements ConfidenceStrategy.
func (s GradedStrategy) Classify(score float64) Verdict {
	switch {
	case score < s.High:
		return VerdictHigh
	case score < s.Medium:
		return VerdictMedium
	default:
		return VerdictLow
	}
}

// Name implements ConfidenceStrategy.
func (s GradedStrategy) Name() string { return "graded" }
