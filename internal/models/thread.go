package models

import "time"

// Thread groups a student's question/answer exchanges about one course.
// Threads are private to their owning student.
type Thread struct {
	ID        string    `json:"id" badgerhold:"key"`
	StudentID string    `json:"student_id" badgerhold:"index"`
	CourseID  string    `json:"course_id" badgerhold:"index"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QueryRecord is one answered question. Append-only: the core never mutates
// or deletes records after they are written.
type QueryRecord struct {
	ID             string      `json:"id" badgerhold:"key"`
	StudentID      string      `json:"student_id" badgerhold:"index"`
	CourseID       string      `json:"course_id" badgerhold:"index"`
	ThreadID       string      `json:"thread_id" badgerhold:"index"`
	Question       string      `json:"question"`
	Answer         string      `json:"answer"`
	Sources        []SourceRef `json:"sources"`
	Confidence     float64     `json:"confidence"`
	ResponseTimeMs int64       `json:"response_time_ms"`
	CreatedAt      time.Time   `json:"created_at"`
}

// ThreadMessage is one question/answer pair as returned by the thread
// messages endpoint, in chronological order.
type ThreadMessage struct {
	Question   string      `json:"question"`
	Answer     string      `json:"answer"`
	Sources    []SourceRef `json:"sources,omitempty"`
	Confidence float64     `json:"confidence"`
	CreatedAt  time.Time   `json:"created_at"`
}
