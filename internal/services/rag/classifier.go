package rag

import (
	"regexp"
	"strings"
)

// greetingRe matches conversational pleasantries that carry no retrievable
// question.
var greetingRe = regexp.MustCompile(`(?i)^(hi|hiya|hello|hey|howdy|yo|sup|good\s+(morning|afternoon|evening)|thanks|thank\s+you|ty|ok|okay|cool|nice|great|bye|goodbye|see\s+you|how\s+are\s+you)[\s!.,?]*$`)

// isTrivialQuestion reports whether the input is a greeting or too short to
// retrieve against. Trivial inputs get a canned reply without touching the
// vector index or the generation backend.
func isTrivialQuestion(question string) bool {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return true
	}
	if greetingRe.MatchString(trimmed) {
		return true
	}
	return len(strings.Fields(trimmed)) < 3
}
