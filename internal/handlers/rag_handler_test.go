package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/docere/internal/interfaces"
	"github.com/ternarybob/docere/internal/models"
)

// stubRAG is a canned-response double for the RAG service.
type stubRAG struct {
	askResp   *interfaces.AskResponse
	askErr    error
	indexErr  error
	statusErr error
}

func (s *stubRAG) IndexContent(ctx context.Context, contentID string) (*interfaces.IndexResponse, error) {
	if s.indexErr != nil {
		return nil, s.indexErr
	}
	return &interfaces.IndexResponse{ContentID: contentID, Status: "indexing"}, nil
}

func (s *stubRAG) RemoveContent(ctx context.Context, contentID string) error {
	return nil
}

func (s *stubRAG) GetIndexStatus(ctx context.Context, contentID string) (*interfaces.IndexStatusResponse, error) {
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return &interfaces.IndexStatusResponse{ContentID: contentID, Status: "completed", ChunksCreated: 4}, nil
}

func (s *stubRAG) Ask(ctx context.Context, req *interfaces.AskRequest) (*interfaces.AskResponse, error) {
	if s.askErr != nil {
		return nil, s.askErr
	}
	return s.askResp, nil
}

func (s *stubRAG) ListThreads(ctx context.Context, studentID, courseID string) ([]*interfaces.ThreadSummary, error) {
	return []*interfaces.ThreadSummary{{ID: "thread_1", CourseID: courseID, Title: "Questions"}}, nil
}

func (s *stubRAG) GetThreadMessages(ctx context.Context, studentID, threadID string) ([]*models.ThreadMessage, error) {
	return []*models.ThreadMessage{{Question: "Q", Answer: "A"}}, nil
}

func (s *stubRAG) GetHistory(ctx context.Context, studentID, courseID string) ([]*models.QueryRecord, error) {
	return []*models.QueryRecord{{ID: "query_1", Question: "Q", Answer: "A"}}, nil
}

func newRAGHandler(rag interfaces.RAGService) *RAGHandler {
	return NewRAGHandler(rag, nil, nil)
}

func TestAskHandler(t *testing.T) {
	h := newRAGHandler(&stubRAG{askResp: &interfaces.AskResponse{
		Answer:     "Photosynthesis converts light into energy.",
		Confidence: 0.8,
		ThreadID:   "thread_1",
	}})

	req := httptest.NewRequest("POST", "/api/rag/ask",
		strings.NewReader(`{"course_id":"course_1","question":"What is photosynthesis?"}`))
	req.Header.Set("X-Student-ID", "student_1")
	rec := httptest.NewRecorder()

	h.AskHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Photosynthesis converts light")
	assert.Contains(t, rec.Body.String(), "thread_1")
}

func TestAskHandlerMissingStudent(t *testing.T) {
	h := newRAGHandler(&stubRAG{})

	req := httptest.NewRequest("POST", "/api/rag/ask",
		strings.NewReader(`{"course_id":"course_1","question":"What is photosynthesis?"}`))
	rec := httptest.NewRecorder()

	h.AskHandler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAskHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not enrolled", fmt.Errorf("%w: student", models.ErrForbidden), http.StatusForbidden},
		{"foreign thread", fmt.Errorf("%w: thread", models.ErrNotFound), http.StatusNotFound},
		{"bad question", fmt.Errorf("%w: too long", models.ErrValidation), http.StatusBadRequest},
		{"internal", fmt.Errorf("storage exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newRAGHandler(&stubRAG{askErr: tt.err})

			req := httptest.NewRequest("POST", "/api/rag/ask",
				strings.NewReader(`{"course_id":"course_1","question":"What is photosynthesis?"}`))
			req.Header.Set("X-Student-ID", "student_1")
			rec := httptest.NewRecorder()

			h.AskHandler(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "storage exploded",
					"internal detail must not leak to clients")
			}
		})
	}
}

func TestAskHandlerInvalidJSON(t *testing.T) {
	h := newRAGHandler(&stubRAG{})

	req := httptest.NewRequest("POST", "/api/rag/ask", strings.NewReader("{not json"))
	req.Header.Set("X-Student-ID", "student_1")
	rec := httptest.NewRecorder()

	h.AskHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIndexContentHandler(t *testing.T) {
	h := newRAGHandler(&stubRAG{})

	req := httptest.NewRequest("POST", "/api/rag/index-content/content_1", nil)
	rec := httptest.NewRecorder()

	h.IndexContentHandler(rec, req, "content_1")
	assert.Equal(t, http.StatusAccepted, rec.Code, "indexing is asynchronous")
	assert.Contains(t, rec.Body.String(), "indexing")
}

func TestIndexContentHandlerUnsupported(t *testing.T) {
	h := newRAGHandler(&stubRAG{indexErr: fmt.Errorf("%w: video", models.ErrUnsupportedType)})

	req := httptest.NewRequest("POST", "/api/rag/index-content/content_1", nil)
	rec := httptest.NewRecorder()

	h.IndexContentHandler(rec, req, "content_1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIndexStatusHandler(t *testing.T) {
	h := newRAGHandler(&stubRAG{})

	req := httptest.NewRequest("GET", "/api/rag/index-status/content_1", nil)
	rec := httptest.NewRecorder()

	h.IndexStatusHandler(rec, req, "content_1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "completed")
}

func TestListThreadsHandlerRequiresCourse(t *testing.T) {
	h := newRAGHandler(&stubRAG{})

	req := httptest.NewRequest("GET", "/api/rag/threads", nil)
	req.Header.Set("X-Student-ID", "student_1")
	rec := httptest.NewRecorder()

	h.ListThreadsHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListThreadsHandler(t *testing.T) {
	h := newRAGHandler(&stubRAG{})

	req := httptest.NewRequest("GET", "/api/rag/threads?course_id=course_1", nil)
	req.Header.Set("X-Student-ID", "student_1")
	rec := httptest.NewRecorder()

	h.ListThreadsHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "thread_1")
}

func TestHistoryHandler(t *testing.T) {
	h := newRAGHandler(&stubRAG{})

	req := httptest.NewRequest("GET", "/api/rag/history?course_id=course_1", nil)
	req.Header.Set("X-Student-ID", "student_1")
	rec := httptest.NewRecorder()

	h.HistoryHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "query_1")
}

func TestMethodEnforcement(t *testing.T) {
	h := newRAGHandler(&stubRAG{})

	req := httptest.NewRequest("GET", "/api/rag/ask", nil)
	rec := httptest.NewRecorder()
	h.AskHandler(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	req = httptest.NewRequest("POST", "/api/rag/index-status/content_1", nil)
	rec = httptest.NewRecorder()
	h.IndexStatusHandler(rec, req, "content_1")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
