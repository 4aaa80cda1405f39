package models

import (
	"strings"
	"time"
)

// ContentType identifies the format of a registered course content item.
type ContentType string

const (
	ContentTypePDF   ContentType = "pdf"
	ContentTypeVideo ContentType = "video"
	ContentTypeLink  ContentType = "link"
)

// ParseContentType normalizes a user-supplied type string.
func ParseContentType(s string) (ContentType, bool) {
	switch ContentType(strings.ToLower(strings.TrimSpace(s))) {
	case ContentTypePDF:
		return ContentTypePDF, true
	case ContentTypeVideo:
		return ContentTypeVideo, true
	case ContentTypeLink:
		return ContentTypeLink, true
	default:
		return "", false
	}
}

// Indexable reports whether the ingestion pipeline can process this type.
// Only PDF content carries extractable text today.
func (t ContentType) Indexable() bool {
	return t == ContentTypePDF
}

// CourseContent is a registered course material. The RAG core treats it as
// immutable except for triggering re-indexing.
type CourseContent struct {
	ID        string      `json:"id" badgerhold:"key"`
	CourseID  string      `json:"course_id" badgerhold:"index"`
	Title     string      `json:"title"`
	URL       string      `json:"url"`
	Type      ContentType `json:"type"`
	CreatedAt time.Time   `json:"created_at"`
}
