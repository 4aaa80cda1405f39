package common

import (
	"github.com/google/uuid"
)

// NewContentID generates a unique course-content ID with the "content_" prefix
// Format: content_<uuid>
func NewContentID() string {
	return "content_" + uuid.New().String()
}

// NewThreadID generates a unique conversation-thread ID with the "thread_" prefix
// Format: thread_<uuid>
func NewThreadID() string {
	return "thread_" + uuid.New().String()
}

// NewQueryID generates a unique query-record ID with the "query_" prefix
// Format: query_<uuid>
func NewQueryID() string {
	return "query_" + uuid.New().String()
}
