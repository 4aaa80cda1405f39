package models

import "errors"

// Sentinel errors shared across services and handlers. Handlers map these to
// HTTP status codes; provider-availability errors are never surfaced raw to
// callers (they degrade to fallback behavior instead).
var (
	// ErrNotFound indicates a content, thread, or status row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a malformed or unsupported request
	// (unsupported content type, empty extracted text, bad thread reference).
	ErrValidation = errors.New("validation failed")

	// ErrUnsupportedType indicates a content type the indexing pipeline
	// cannot process.
	ErrUnsupportedType = errors.New("unsupported content type")

	// ErrEmbeddingUnavailable indicates the embedding backend cannot be
	// reached or is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding backend unavailable")

	// ErrGenerationUnavailable indicates the generative backend cannot be
	// reached or is not configured.
	ErrGenerationUnavailable = errors.New("generation backend unavailable")

	// ErrForbidden indicates the student is not enrolled in the course.
	ErrForbidden = errors.New("not enrolled")
)
