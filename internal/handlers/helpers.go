package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/docere/internal/models"
)

// studentHeader carries the caller identity. Authentication itself happens
// upstream; the core trusts the header the gateway sets.
const studentHeader = "X-Student-ID"

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// RequireStudent extracts the student identity header. Returns the empty
// string after writing a 401 when the header is missing.
func RequireStudent(w http.ResponseWriter, r *http.Request) string {
	studentID := r.Header.Get(studentHeader)
	if studentID == "" {
		WriteError(w, http.StatusUnauthorized, "Missing "+studentHeader+" header")
	}
	return studentID
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WriteServiceError maps service sentinel errors onto HTTP status codes.
// Unrecognized errors become an opaque 500; internal detail never reaches
// the client.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrUnsupportedType):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrForbidden):
		WriteError(w, http.StatusForbidden, "Not enrolled in this course")
	default:
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// DecodeJSON decodes a request body into dst. Returns false when a 400 has
// already been written.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
