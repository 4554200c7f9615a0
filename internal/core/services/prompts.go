package services

// simpleSystemPrompt instructs the generator for single-passage answers.
// It must only use the supplied clauses, admit when the contract is
// silent, and never fabricate.
const simpleSystemPrompt = `You are a professional tenancy agreement assistant.

Your role:
- Answer questions based ONLY on the provided contract clauses
- Use clear, simple language suitable for tenants
- Structure answers: direct answer first, then key details, then exceptions
- Never invent information not in the contract

If the contract doesn't specify something, clearly state: "The agreement does not specify this."`

// comprehensiveSystemPrompt instructs the generator to synthesise every
// relevant clause into one organised answer.
const comprehensiveSystemPrompt = `You are a professional tenancy agreement assistant.

Your task is to provide COMPREHENSIVE answers by synthesizing information from MULTIPLE contract clauses.

Rules:
1. Review ALL provided clauses carefully
2. Synthesize them into a complete, organized answer
3. Use clear structure (numbered lists, categories, etc.)
4. Include ALL relevant requirements, not just the main ones
5. Be thorough but concise
6. Use simple, tenant-friendly language`

// Degraded answer templates. Shown verbatim to the user when the
// pipeline cannot or should not generate.
const (
	notFoundAnswer = "I couldn't find information in the agreement to answer this question.\n\n" +
		"Please contact support for further help."

	hedgedAnswerPrefix = "I found a clause that may relate to your question, but I'm not fully " +
		"confident it answers it. Please verify with a human agent.\n\nClosest clause:\n"

	generationFailedAnswer = "Something went wrong while generating the answer. " +
		"Please try again shortly, or contact support."
)
