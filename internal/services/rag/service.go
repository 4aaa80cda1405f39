// -----------------------------------------------------------------------
// RAG Service - Ingestion and question-answering orchestration
// -----------------------------------------------------------------------

package rag

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docere/internal/common"
	"github.com/ternarybob/docere/internal/interfaces"
	"github.com/ternarybob/docere/internal/models"
)

// Service implements interfaces.RAGService. It owns the ingestion pipeline
// (download, extract, chunk, embed, index) and the query pipeline (retrieve,
// synthesize, persist), with per-content state tracking in between.
type Service struct {
	config      *common.Config
	logger      arbor.ILogger
	storage     interfaces.StorageManager
	embedder    interfaces.EmbeddingService
	index       interfaces.VectorIndex
	llm         interfaces.LLMService
	extractor   interfaces.PDFExtractor
	downloader  interfaces.ContentDownloader
	enrollments interfaces.EnrollmentService
	notifier    interfaces.Notifier
	chunker     *chunker
	validate    *validator.Validate
}

// Dependencies collects the collaborators the RAG service is wired with.
type Dependencies struct {
	Storage     interfaces.StorageManager
	Embedder    interfaces.EmbeddingService
	Index       interfaces.VectorIndex
	LLM         interfaces.LLMService
	Extractor   interfaces.PDFExtractor
	Downloader  interfaces.ContentDownloader
	Enrollments interfaces.EnrollmentService
	Notifier    interfaces.Notifier
}

// Compile-time interface assertion
var _ interfaces.RAGService = (*Service)(nil)

// NewService creates the RAG orchestrator.
func NewService(config *common.Config, deps Dependencies, logger arbor.ILogger) *Service {
	return &Service{
		config:      config,
		logger:      logger,
		storage:     deps.Storage,
		embedder:    deps.Embedder,
		index:       deps.Index,
		llm:         deps.LLM,
		extractor:   deps.Extractor,
		downloader:  deps.Downloader,
		enrollments: deps.Enrollments,
		notifier:    deps.Notifier,
		chunker:     newChunker(config),
		validate:    validator.New(),
	}
}

// ListThreads returns the student's conversation threads for a course,
// newest first.
func (s *Service) ListThreads(ctx context.Context, studentID, courseID string) ([]*interfaces.ThreadSummary, error) {
	if studentID == "" || courseID == "" {
		return nil, fmt.Errorf("%w: student and course are required", models.ErrValidation)
	}

	threads, err := s.storage.ThreadStorage().ListByStudentCourse(studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}

	summaries := make([]*interfaces.ThreadSummary, 0, len(threads))
	for _, thread := range threads {
		records, err := s.storage.QueryStorage().ListByThread(thread.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count thread messages: %w", err)
		}
		summaries = append(summaries, &interfaces.ThreadSummary{
			ID:           thread.ID,
			CourseID:     thread.CourseID,
			Title:        thread.Title,
			MessageCount: len(records),
			UpdatedAt:    thread.UpdatedAt,
		})
	}
	return summaries, nil
}

// GetThreadMessages returns a thread's exchanges in chronological order. A
// thread owned by another student reads as not found; existence is not
// leaked across students.
func (s *Service) GetThreadMessages(ctx context.Context, studentID, threadID string) ([]*models.ThreadMessage, error) {
	thread, err := s.ownedThread(studentID, threadID)
	if err != nil {
		return nil, err
	}

	records, err := s.storage.QueryStorage().ListByThread(thread.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load thread messages: %w", err)
	}

	messages := make([]*models.ThreadMessage, 0, len(records))
	for _, record := range records {
		messages = append(messages, &models.ThreadMessage{
			Question:   record.Question,
			Answer:     record.Answer,
			Sources:    record.Sources,
			Confidence: record.Confidence,
			CreatedAt:  record.CreatedAt,
		})
	}
	return messages, nil
}

// GetHistory returns the student's recent query records for a course, newest
// first, capped at the configured limit.
func (s *Service) GetHistory(ctx context.Context, studentID, courseID string) ([]*models.QueryRecord, error) {
	if studentID == "" || courseID == "" {
		return nil, fmt.Errorf("%w: student and course are required", models.ErrValidation)
	}
	return s.storage.QueryStorage().ListByStudentCourse(studentID, courseID, s.config.RAG.HistoryLimit)
}

// ownedThread loads a thread and verifies ownership.
func (s *Service) ownedThread(studentID, threadID string) (*models.Thread, error) {
	thread, err := s.storage.ThreadStorage().Get(threadID)
	if err != nil {
		return nil, err
	}
	if thread.StudentID != studentID {
		return nil, fmt.Errorf("%w: thread %s", models.ErrNotFound, threadID)
	}
	return thread, nil
}
