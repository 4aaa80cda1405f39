package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Content registration
	mux.HandleFunc("/api/contents", s.app.ContentHandler.ContentsHandler) // GET (list), POST (register)
	mux.HandleFunc("/api/contents/", s.handleContentRoutes)               // GET/DELETE /{id}

	// API routes - Enrollment
	mux.HandleFunc("/api/enrollments", s.app.EnrollmentHandler.EnrollHandler) // POST

	// API routes - RAG (indexing and question answering)
	mux.HandleFunc("/api/rag/ask", s.app.RAGHandler.AskHandler)
	mux.HandleFunc("/api/rag/history", s.app.RAGHandler.HistoryHandler)
	mux.HandleFunc("/api/rag/threads", s.app.RAGHandler.ListThreadsHandler)
	mux.HandleFunc("/api/rag/threads/", s.handleThreadRoutes)        // GET /{id}, GET /{id}/transcript
	mux.HandleFunc("/api/rag/index-content/", s.handleIndexContent)  // POST /{id}
	mux.HandleFunc("/api/rag/index-status/", s.handleIndexStatus)    // GET /{id}

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleContentRoutes routes /api/contents/{id}
func (s *Server) handleContentRoutes(w http.ResponseWriter, r *http.Request) {
	contentID := strings.TrimPrefix(r.URL.Path, "/api/contents/")
	if contentID == "" || strings.Contains(contentID, "/") {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	s.app.ContentHandler.ContentByIDHandler(w, r, contentID)
}

// handleThreadRoutes routes /api/rag/threads/{id} and
// /api/rag/threads/{id}/transcript
func (s *Server) handleThreadRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/rag/threads/")

	if threadID, ok := strings.CutSuffix(path, "/transcript"); ok {
		if threadID == "" || strings.Contains(threadID, "/") {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		s.app.RAGHandler.TranscriptHandler(w, r, threadID)
		return
	}

	if path == "" || strings.Contains(path, "/") {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	s.app.RAGHandler.ThreadMessagesHandler(w, r, path)
}

// handleIndexContent routes POST /api/rag/index-content/{id}
func (s *Server) handleIndexContent(w http.ResponseWriter, r *http.Request) {
	contentID := strings.TrimPrefix(r.URL.Path, "/api/rag/index-content/")
	if contentID == "" || strings.Contains(contentID, "/") {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	s.app.RAGHandler.IndexContentHandler(w, r, contentID)
}

// handleIndexStatus routes GET /api/rag/index-status/{id}
func (s *Server) handleIndexStatus(w http.ResponseWriter, r *http.Request) {
	contentID := strings.TrimPrefix(r.URL.Path, "/api/rag/index-status/")
	if contentID == "" || strings.Contains(contentID, "/") {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	s.app.RAGHandler.IndexStatusHandler(w, r, contentID)
}
