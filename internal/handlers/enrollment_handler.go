package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docere/internal/common"
	"github.com/ternarybob/docere/internal/interfaces"
)

// EnrollmentHandler exposes course enrollment.
type EnrollmentHandler struct {
	enrollments interfaces.EnrollmentService
	logger      arbor.ILogger
}

// NewEnrollmentHandler creates the enrollment endpoint handler.
func NewEnrollmentHandler(enrollments interfaces.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollments: enrollments,
		logger:      common.GetLogger(),
	}
}

type enrollRequest struct {
	CourseID string `json:"course_id"`
}

// EnrollHandler handles POST /api/enrollments.
func (h *EnrollmentHandler) EnrollHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}
	studentID := RequireStudent(w, r)
	if studentID == "" {
		return
	}

	var req enrollRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.CourseID == "" {
		WriteError(w, http.StatusBadRequest, "course_id is required")
		return
	}

	if err := h.enrollments.Enroll(r.Context(), studentID, req.CourseID); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{
		"student_id": studentID,
		"course_id":  req.CourseID,
		"status":     "enrolled",
	})
}
