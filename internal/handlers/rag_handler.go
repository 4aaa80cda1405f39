// -----------------------------------------------------------------------
// RAG Handler - Indexing and question-answering endpoints
// -----------------------------------------------------------------------

package handlers

import (
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docere/internal/common"
	"github.com/ternarybob/docere/internal/interfaces"
)

// RAGHandler exposes the RAG core over HTTP.
type RAGHandler struct {
	rag      interfaces.RAGService
	renderer interfaces.TranscriptRenderer
	storage  interfaces.StorageManager
	logger   arbor.ILogger
}

// NewRAGHandler creates the RAG endpoint handler.
func NewRAGHandler(rag interfaces.RAGService, renderer interfaces.TranscriptRenderer, storage interfaces.StorageManager) *RAGHandler {
	return &RAGHandler{
		rag:      rag,
		renderer: renderer,
		storage:  storage,
		logger:   common.GetLogger(),
	}
}

// IndexContentHandler handles POST /api/rag/index-content/{id}.
// Accepts the request and runs the pipeline asynchronously; 202 means
// "INDEXING has started", not "indexing succeeded".
func (h *RAGHandler) IndexContentHandler(w http.ResponseWriter, r *http.Request, contentID string) {
	if !RequireMethod(w, r, "POST") {
		return
	}
	if contentID == "" {
		WriteError(w, http.StatusBadRequest, "Content ID is required")
		return
	}

	resp, err := h.rag.IndexContent(r.Context(), contentID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusAccepted, resp)
}

// IndexStatusHandler handles GET /api/rag/index-status/{id}.
func (h *RAGHandler) IndexStatusHandler(w http.ResponseWriter, r *http.Request, contentID string) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	status, err := h.rag.GetIndexStatus(r.Context(), contentID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, status)
}

// AskHandler handles POST /api/rag/ask.
func (h *RAGHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}
	studentID := RequireStudent(w, r)
	if studentID == "" {
		return
	}

	var req interfaces.AskRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.StudentID = studentID

	resp, err := h.rag.Ask(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

// ListThreadsHandler handles GET /api/rag/threads?course_id=...
func (h *RAGHandler) ListThreadsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	studentID := RequireStudent(w, r)
	if studentID == "" {
		return
	}
	courseID := r.URL.Query().Get("course_id")
	if courseID == "" {
		WriteError(w, http.StatusBadRequest, "course_id query parameter is required")
		return
	}

	threads, err := h.rag.ListThreads(r.Context(), studentID, courseID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"threads": threads,
		"count":   len(threads),
	})
}

// ThreadMessagesHandler handles GET /api/rag/threads/{id}.
func (h *RAGHandler) ThreadMessagesHandler(w http.ResponseWriter, r *http.Request, threadID string) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	studentID := RequireStudent(w, r)
	if studentID == "" {
		return
	}

	messages, err := h.rag.GetThreadMessages(r.Context(), studentID, threadID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"thread_id": threadID,
		"messages":  messages,
		"count":     len(messages),
	})
}

// TranscriptHandler handles GET /api/rag/threads/{id}/transcript, returning
// the conversation as a downloadable PDF.
func (h *RAGHandler) TranscriptHandler(w http.ResponseWriter, r *http.Request, threadID string) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	studentID := RequireStudent(w, r)
	if studentID == "" {
		return
	}

	// Ownership is enforced here; the thread read below cannot leak.
	messages, err := h.rag.GetThreadMessages(r.Context(), studentID, threadID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	thread, err := h.storage.ThreadStorage().Get(threadID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	data, err := h.renderer.RenderTranscript(thread, messages)
	if err != nil {
		h.logger.Error().Err(err).Str("thread_id", threadID).Msg("Transcript rendering failed")
		WriteError(w, http.StatusInternalServerError, "Failed to render transcript")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "transcript-"+threadID+".pdf"))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// HistoryHandler handles GET /api/rag/history?course_id=...
func (h *RAGHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	studentID := RequireStudent(w, r)
	if studentID == "" {
		return
	}
	courseID := r.URL.Query().Get("course_id")
	if courseID == "" {
		WriteError(w, http.StatusBadRequest, "course_id query parameter is required")
		return
	}

	history, err := h.rag.GetHistory(r.Context(), studentID, courseID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"history": history,
		"count":   len(history),
	})
}
