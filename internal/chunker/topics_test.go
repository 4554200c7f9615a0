package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopicFor(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"rent clause", "The monthly rent shall be paid on the 1st.", "payment"},
		{"deposit clause", "A security deposit of two months is required.", "deposit"},
		{"repair clause", "The landlord shall repair structural defects.", "maintenance"},
		{"aircon servicing", "Air-con units shall be serviced quarterly.", "maintenance"},
		{"termination clause", "Either party may terminate with two months notice period.", "termination"},
		{"diplomatic clause", "The diplomatic clause applies after 12 months.", "termination"},
		{"utilities clause", "The tenant pays for electricity and water.", "utilities"},
		{"pets clause", "No pets are allowed on the premises.", "pets"},
		{"insurance clause", "The tenant shall insure their own belongings.", "insurance"},
		{"alterations clause", "The tenant shall not paint the walls.", "alterations"},
		{"no keyword", "This agreement is governed by the laws of Singapore.", DefaultTopic},
		{"case insensitive", "RENT IS PAYABLE IN ADVANCE.", "payment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, topicFor(tt.text))
		})
	}
}

func TestTopicFor_FirstGroupWins(t *testing.T) {
	// Mentions both rent and deposit; payment is checked first.
	assert.Equal(t, "payment", topicFor("The rent and deposit are due on signing."))
}
