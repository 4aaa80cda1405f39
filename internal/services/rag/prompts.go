// -----------------------------------------------------------------------
// Prompt Templates - Grounded answer synthesis prompts
// -----------------------------------------------------------------------

package rag

import (
	"fmt"
	"strings"

	"github.com/ternarybob/docere/internal/interfaces"
)

// tutorSystemPrompt constrains the model to the retrieved course material.
const tutorSystemPrompt = `You are a helpful course tutor. Answer the student's question using ONLY the course material excerpts provided below.

Rules:
- Base your answer strictly on the provided excerpts. Do not use outside knowledge.
- If the excerpts do not contain enough information to answer, say so plainly and suggest the student consult their course materials or instructor.
- Be concise and clear. Use simple language suited to a student.
- Never mention excerpts, context, chunks, or retrieval. Present the answer as direct tutoring.
- Format the answer in plain prose or short markdown lists.`

// greetingAnswer replies to greetings and other non-questions without
// touching the index or the generation backend.
const greetingAnswer = `Hello! I'm your course assistant. Ask me a question about your course materials and I'll do my best to answer it.`

// noMaterialAnswer is returned when retrieval finds nothing relevant.
const noMaterialAnswer = `I couldn't find anything in the course materials that answers your question. Try rephrasing it, or check with your instructor whether this topic is covered.`

// relatedMaterialAnswer is the degraded reply when generation is unavailable
// but retrieval found related passages.
const relatedMaterialAnswer = `I found related information in the course materials but can't compose a full answer right now. Please try again in a few minutes, or review the referenced sources directly.`

// buildAnswerMessages assembles the chat transcript for answer synthesis:
// system prompt, recent thread history for follow-up questions, then the
// question wrapped with the retrieved excerpts.
func buildAnswerMessages(contextText, question string, history []interfaces.Message) []interfaces.Message {
	messages := make([]interfaces.Message, 0, len(history)+2)
	messages = append(messages, interfaces.Message{Role: "system", Content: tutorSystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, interfaces.Message{
		Role:    "user",
		Content: fmt.Sprintf("Course material excerpts:\n\n%s\n\nStudent question: %s", contextText, question),
	})
	return messages
}

// buildContextText joins the top retrieved chunks into the prompt context,
// labeled by source so the model can ground multi-document answers.
func buildContextText(entries []interfaces.ScoredEntry, limit int) string {
	if limit > len(entries) {
		limit = len(entries)
	}
	var b strings.Builder
	for i := 0; i < limit; i++ {
		entry := entries[i]
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		label := entry.Metadata.SourceTitle
		if label == "" {
			label = entry.ContentID
		}
		if entry.Metadata.PageNumber > 0 {
			label = fmt.Sprintf("%s, page %d", label, entry.Metadata.PageNumber)
		}
		fmt.Fprintf(&b, "[%s]\n%s", label, entry.Text)
	}
	return b.String()
}
