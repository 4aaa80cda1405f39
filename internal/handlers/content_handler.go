package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docere/internal/common"
	"github.com/ternarybob/docere/internal/interfaces"
	"github.com/ternarybob/docere/internal/services/content"
)

// ContentHandler exposes course material registration and removal.
type ContentHandler struct {
	contents *content.Service
	rag      interfaces.RAGService
	logger   arbor.ILogger
}

// NewContentHandler creates the content endpoint handler. Removal goes
// through the RAG service so index entries and status rows go with the row.
func NewContentHandler(contents *content.Service, rag interfaces.RAGService) *ContentHandler {
	return &ContentHandler{
		contents: contents,
		rag:      rag,
		logger:   common.GetLogger(),
	}
}

// ContentsHandler handles /api/contents: POST registers a material, GET
// lists a course's materials.
func (h *ContentHandler) ContentsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.register(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ContentByIDHandler handles /api/contents/{id}: GET returns the item,
// DELETE removes it along with its index entries.
func (h *ContentHandler) ContentByIDHandler(w http.ResponseWriter, r *http.Request, contentID string) {
	switch r.Method {
	case http.MethodGet:
		item, err := h.contents.Get(r.Context(), contentID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, item)
	case http.MethodDelete:
		if err := h.rag.RemoveContent(r.Context(), contentID); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{
			"content_id": contentID,
			"status":     "removed",
		})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ContentHandler) register(w http.ResponseWriter, r *http.Request) {
	var req content.RegisterRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	item, err := h.contents.Register(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

func (h *ContentHandler) list(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("course_id")
	if courseID == "" {
		WriteError(w, http.StatusBadRequest, "course_id query parameter is required")
		return
	}

	items, err := h.contents.ListByCourse(r.Context(), courseID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"contents": items,
		"count":    len(items),
	})
}
