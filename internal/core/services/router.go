package services

import (
	"strings"

	"github.com/leasewise/leasewise-cli/internal/core/domain"
	"github.com/leasewise/leasewise-cli/internal/core/ports/driving"
	"github.com/leasewise/leasewise-cli/internal/logger"
)

// Ensure LexicalRouter implements the interface.
var _ driving.RouteClassifier = (*LexicalRouter)(nil)

// comprehensiveCues are phrases indicating a question needs coverage of
// every relevant clause rather than the single best match. Matching is
// case-insensitive substring; the first hit short-circuits.
var comprehensiveCues = []string{
	// English
	"what to do", "what should", "what must", "what do i need",
	"steps", "requirements", "obligations", "responsibilities",
	"all", "complete", "comprehensive", "everything",
	"list", "include", "cover",

	// Chinese
	"要做什么", "需要做什么", "有哪些", "包括什么", "都有什么",
	"所有", "全部", "完整", "详细",
}

// LexicalRouter routes questions by a fixed cue phrase list. It is a
// heuristic, not a classifier with confidence: any cue match routes to
// the comprehensive path.
type LexicalRouter struct {
	cues []string
}

// NewLexicalRouter creates a router with the default cue list.
func NewLexicalRouter() *LexicalRouter {
	return &LexicalRouter{cues: comprehensiveCues}
}

// NewLexicalRouterWithCues creates a router with a custom cue list.
func NewLexicalRouterWithCues(cues []string) *LexicalRouter {
	return &LexicalRouter{cues: cues}
}

// Route classifies the question.
func (r *LexicalRouter) Route(query string) domain.Route {
	lower := strings.ToLower(query)
	for _, cue := range r.cues {
		if strings.Contains(lower, cue) {
			logger.Debug("Comprehensive cue matched: %q", cue)
			return domain.RouteComprehensive
		}
	}
	return domain.RouteSimple
}
