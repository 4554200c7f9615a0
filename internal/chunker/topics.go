package chunker

import "strings"

// DefaultTopic is assigned when no keyword group matches.
const DefaultTopic = "general"

// topicKeywords maps tenancy-contract subject areas to trigger words.
// Order matters: the first matching group wins.
var topicKeywords = []struct {
	topic string
	words []string
}{
	{"payment", []string{"rent", "payable", "payment"}},
	{"deposit", []string{"deposit"}},
	{"maintenance", []string{"repair", "maintenance", "maintain", "servicing", "air-con"}},
	{"termination", []string{"terminat", "vacate", "moving out", "expiry", "diplomatic clause", "notice period"}},
	{"utilities", []string{"electricity", "water", "gas", "utilities"}},
	{"pets", []string{"pet"}},
	{"insurance", []string{"insurance", "insure"}},
	{"alterations", []string{"alteration", "renovat", "install", "paint"}},
}

// topicFor tags a passage with a coarse subject area. The tag is only
// used to group passages in comprehensive answers, so a rough keyword
// match is good enough.
func topicFor(text string) string {
	lower := strings.ToLower(text)
	for _, group := range topicKeywords {
		for _, word := range group.words {
			if strings.Contains(lower, word) {
				return group.topic
			}
		}
	}
	return DefaultTopic
}
