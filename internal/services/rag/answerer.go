// -----------------------------------------------------------------------
// Answerer - Grounded question answering over indexed course material
// -----------------------------------------------------------------------

package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/docere/internal/common"
	"github.com/ternarybob/docere/internal/interfaces"
	"github.com/ternarybob/docere/internal/models"
)

// excerptLen bounds the source excerpt returned with each attribution,
// counted in runes.
const excerptLen = 200

// Ask answers a student question grounded in the course's indexed materials.
// Provider failures never surface: the answer degrades through a heuristic
// fallback instead. Hard errors are limited to validation, enrollment, and
// thread-ownership problems.
func (s *Service) Ask(ctx context.Context, req *interfaces.AskRequest) (*interfaces.AskResponse, error) {
	start := time.Now()

	if err := s.validateAsk(req); err != nil {
		return nil, err
	}

	enrolled, err := s.enrollments.IsEnrolled(ctx, req.StudentID, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("enrollment check failed: %w", err)
	}
	if !enrolled {
		return nil, fmt.Errorf("%w: student %s in course %s", models.ErrForbidden, req.StudentID, req.CourseID)
	}

	thread, err := s.resolveThread(req)
	if err != nil {
		return nil, err
	}

	var answer string
	var confidence float64
	var sources []models.SourceRef

	if isTrivialQuestion(req.Question) {
		answer = greetingAnswer
	} else {
		answer, confidence, sources = s.answer(ctx, req, thread)
	}

	record := &models.QueryRecord{
		ID:             common.NewQueryID(),
		StudentID:      req.StudentID,
		CourseID:       req.CourseID,
		ThreadID:       thread.ID,
		Question:       req.Question,
		Answer:         answer,
		Sources:        sources,
		Confidence:     confidence,
		ResponseTimeMs: time.Since(start).Milliseconds(),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.storage.QueryStorage().Save(record); err != nil {
		// The student already has an answer; losing the audit record is
		// log-worthy, not fatal.
		s.logger.Error().Err(err).Str("thread_id", thread.ID).Msg("Failed to persist query record")
	}
	if err := s.storage.ThreadStorage().Save(thread); err != nil {
		s.logger.Error().Err(err).Str("thread_id", thread.ID).Msg("Failed to touch thread")
	}

	return &interfaces.AskResponse{
		Answer:         answer,
		Confidence:     confidence,
		Sources:        sources,
		ResponseTimeMs: record.ResponseTimeMs,
		ThreadID:       thread.ID,
	}, nil
}

func (s *Service) validateAsk(req *interfaces.AskRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", models.ErrValidation)
	}
	if req.StudentID == "" {
		return fmt.Errorf("%w: student ID is required", models.ErrValidation)
	}
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	if len(req.Question) > s.config.RAG.MaxQuestionLength {
		return fmt.Errorf("%w: question exceeds %d characters", models.ErrValidation, s.config.RAG.MaxQuestionLength)
	}
	return nil
}

// resolveThread loads the referenced thread or starts a new one. A thread
// belonging to another student reads as not found.
func (s *Service) resolveThread(req *interfaces.AskRequest) (*models.Thread, error) {
	if req.ThreadID != "" {
		thread, err := s.ownedThread(req.StudentID, req.ThreadID)
		if err != nil {
			return nil, err
		}
		if thread.CourseID != req.CourseID {
			return nil, fmt.Errorf("%w: thread %s", models.ErrNotFound, req.ThreadID)
		}
		return thread, nil
	}

	title := strings.TrimSpace(req.ThreadTitle)
	if title == "" {
		title = deriveThreadTitle(req.Question)
	}
	now := time.Now().UTC()
	return &models.Thread{
		ID:        common.NewThreadID(),
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// deriveThreadTitle makes a display title from the first question, cutting
// on a word boundary where one exists. Cuts count runes, not bytes, so
// multi-byte question text never ends up with a split character.
func deriveThreadTitle(question string) string {
	title := strings.TrimSpace(question)
	runes := []rune(title)
	if len(runes) <= 60 {
		return title
	}
	head := string(runes[:60])
	if cut := strings.LastIndex(head, " "); cut >= 20 {
		head = head[:cut]
	}
	return head + "..."
}

// answer runs the retrieval and synthesis pipeline. It never returns an
// error: every failure mode maps to a usable degraded answer.
func (s *Service) answer(ctx context.Context, req *interfaces.AskRequest, thread *models.Thread) (string, float64, []models.SourceRef) {
	vector, degraded, err := s.embedder.GenerateEmbedding(ctx, req.Question)
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", req.CourseID).Msg("Question embedding failed")
		return noMaterialAnswer, 0, nil
	}
	if degraded {
		s.logger.Warn().Str("course_id", req.CourseID).Msg("Answering with degraded question embedding")
	}

	results, err := s.index.Query(ctx, req.CourseID, vector, s.config.RAG.TopK)
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", req.CourseID).Msg("Vector query failed")
		results = nil
	}
	if len(results) == 0 {
		return noMaterialAnswer, 0, nil
	}

	sources := buildSources(results)
	confidence := float64(len(results)) / float64(s.config.RAG.TopK)
	if confidence > 1 {
		confidence = 1
	}

	contextText := buildContextText(results, s.config.RAG.ContextChunks)
	history := s.threadHistory(thread)
	text, err := s.llm.Chat(ctx, buildAnswerMessages(contextText, req.Question, history))
	if err != nil || strings.TrimSpace(text) == "" {
		s.logger.Warn().Err(err).Str("course_id", req.CourseID).Msg("Answer synthesis unavailable, degrading")
		return fallbackAnswer(req.Question, contextText), confidence, sources
	}

	return strings.TrimSpace(text), confidence, sources
}

// threadHistory returns the thread's recent exchanges as chat messages for
// follow-up questions, oldest first, capped at the configured turn count.
func (s *Service) threadHistory(thread *models.Thread) []interfaces.Message {
	records, err := s.storage.QueryStorage().ListByThread(thread.ID)
	if err != nil {
		s.logger.Warn().Err(err).Str("thread_id", thread.ID).Msg("Failed to load thread history")
		return nil
	}
	if max := s.config.RAG.MaxThreadHistoryTurns; len(records) > max {
		records = records[len(records)-max:]
	}

	history := make([]interfaces.Message, 0, len(records)*2)
	for _, record := range records {
		history = append(history,
			interfaces.Message{Role: "user", Content: record.Question},
			interfaces.Message{Role: "assistant", Content: record.Answer},
		)
	}
	return history
}

// fallbackAnswer is the no-generation heuristic: if a substantive question
// word appears in the retrieved text, related material exists and the student
// is pointed at the sources; otherwise the material does not cover it.
func fallbackAnswer(question, contextText string) string {
	lowered := strings.ToLower(contextText)
	for _, word := range strings.Fields(strings.ToLower(question)) {
		word = strings.Trim(word, "?!.,;:\"'")
		if len(word) >= 4 && strings.Contains(lowered, word) {
			return relatedMaterialAnswer
		}
	}
	return noMaterialAnswer
}

func buildSources(results []interfaces.ScoredEntry) []models.SourceRef {
	sources := make([]models.SourceRef, len(results))
	for i, result := range results {
		sources[i] = models.SourceRef{
			ContentID:   result.ContentID,
			SourceTitle: result.Metadata.SourceTitle,
			Section:     result.Metadata.Section,
			PageNumber:  result.Metadata.PageNumber,
			Similarity:  result.Similarity,
			Excerpt:     truncateRunes(result.Text, excerptLen),
		}
	}
	return sources
}

// truncateRunes shortens s to at most max runes, never splitting a
// multi-byte character, appending an ellipsis when it cuts.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
