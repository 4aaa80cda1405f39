package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/docere/internal/models"
)

// AskRequest is a student question scoped to one course. ThreadID is
// optional: empty means start a new thread.
type AskRequest struct {
	StudentID   string `json:"-"`
	CourseID    string `json:"course_id" validate:"required"`
	Question    string `json:"question" validate:"required,min=2"`
	ThreadID    string `json:"thread_id,omitempty"`
	ThreadTitle string `json:"thread_title,omitempty"`
}

// AskResponse is the answer payload returned to the student. Confidence is a
// heuristic derived from retrieval count, not a calibrated probability.
type AskResponse struct {
	Answer         string             `json:"answer"`
	Confidence     float64            `json:"confidence"`
	Sources        []models.SourceRef `json:"sources"`
	ResponseTimeMs int64              `json:"response_time_ms"`
	ThreadID       string             `json:"thread_id"`
}

// IndexResponse acknowledges an accepted (asynchronous) indexing request.
type IndexResponse struct {
	ContentID     string `json:"content_id"`
	Status        string `json:"status"`
	ChunksCreated int    `json:"chunks_created"`
}

// IndexStatusResponse is the client view of one content's indexing state.
// Degraded reports that the last completed run embedded through the hash
// fallback; re-indexing after the backend recovers clears it.
type IndexStatusResponse struct {
	ContentID     string    `json:"content_id"`
	Status        string    `json:"status"`
	ChunksCreated int       `json:"chunks_created"`
	Degraded      bool      `json:"degraded,omitempty"`
	LastUpdated   time.Time `json:"last_updated"`
	ErrorMessage  string    `json:"error_message,omitempty"`
}

// ThreadSummary is the list view of a conversation thread.
type ThreadSummary struct {
	ID           string    `json:"id"`
	CourseID     string    `json:"course_id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RAGService coordinates the ingestion pipeline (chunk, embed, index, with
// state tracking) and the query pipeline (retrieve, synthesize, persist).
type RAGService interface {
	// IndexContent triggers asynchronous ingestion of a registered content
	// item. Returns models.ErrNotFound for unknown content and
	// models.ErrUnsupportedType for non-indexable types. On success the
	// status row is already INDEXING when this returns.
	IndexContent(ctx context.Context, contentID string) (*IndexResponse, error)

	// RemoveContent deletes a content item together with its index entries
	// and status row. Returns models.ErrNotFound for unknown content.
	RemoveContent(ctx context.Context, contentID string) error

	// GetIndexStatus reads the status row, applying the staleness self-heal:
	// a row stuck INDEXING past the threshold with no live index entries is
	// reset to NOT_INDEXED with an explanatory error.
	GetIndexStatus(ctx context.Context, contentID string) (*IndexStatusResponse, error)

	// Ask answers a question grounded in the course's indexed materials.
	// Never returns provider errors: internal failures degrade to a fallback
	// answer. Hard errors are limited to models.ErrForbidden (not enrolled),
	// models.ErrNotFound (foreign or missing thread) and models.ErrValidation.
	Ask(ctx context.Context, req *AskRequest) (*AskResponse, error)

	// ListThreads returns the student's threads for a course, newest first.
	ListThreads(ctx context.Context, studentID, courseID string) ([]*ThreadSummary, error)

	// GetThreadMessages returns a thread's exchanges in chronological order.
	// Returns models.ErrNotFound if the thread does not exist or belongs to
	// another student.
	GetThreadMessages(ctx context.Context, studentID, threadID string) ([]*models.ThreadMessage, error)

	// GetHistory returns the student's recent query records for a course,
	// newest first, capped at the configured history limit.
	GetHistory(ctx context.Context, studentID, courseID string) ([]*models.QueryRecord, error)
}
