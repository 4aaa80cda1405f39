package models

import "time"

// Enrollment links a student to a course. The RAG core only reads it as an
// access gate; enrollment lifecycle itself is managed elsewhere.
type Enrollment struct {
	ID        string    `json:"id" badgerhold:"key"` // studentID + ":" + courseID
	StudentID string    `json:"student_id" badgerhold:"index"`
	CourseID  string    `json:"course_id" badgerhold:"index"`
	CreatedAt time.Time `json:"created_at"`
}

// EnrollmentID builds the composite key for an enrollment row.
func EnrollmentID(studentID, courseID string) string {
	return studentID + ":" + courseID
}

// NewEnrollment creates an enrollment row with its composite key set.
func NewEnrollment(studentID, courseID string) *Enrollment {
	return &Enrollment{
		ID:        EnrollmentID(studentID, courseID),
		StudentID: studentID,
		CourseID:  courseID,
		CreatedAt: time.Now().UTC(),
	}
}
