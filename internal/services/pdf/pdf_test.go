package pdf

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/docere/internal/common"
	"github.com/ternarybob/docere/internal/models"
)

func TestExtractTextRejectsEmptyInput(t *testing.T) {
	extractor := NewExtractor(common.GetLogger())

	_, err := extractor.ExtractText(context.Background(), nil)
	assert.Error(t, err)
}

func TestExtractTextRejectsInvalidPDF(t *testing.T) {
	extractor := NewExtractor(common.GetLogger())

	_, err := extractor.ExtractText(context.Background(), []byte("not a pdf document"))
	assert.Error(t, err)
}

func TestTextFromContentStream(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "single show-text operator",
			content:  "BT /F1 12 Tf (Hello World) Tj ET",
			expected: "Hello World",
		},
		{
			name:     "multiple strings joined",
			content:  "(Photosynthesis) Tj T* (converts light) Tj",
			expected: "Photosynthesis converts light",
		},
		{
			name:     "escaped parentheses",
			content:  `(f\(x\) = y) Tj`,
			expected: "f(x) = y",
		},
		{
			name:     "no literal strings",
			content:  "q 1 0 0 1 50 700 cm /Im1 Do Q",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, textFromContentStream(tt.content))
		})
	}
}

func TestRenderTranscriptProducesPDF(t *testing.T) {
	renderer := NewRenderer(common.GetLogger())

	thread := &models.Thread{
		ID:        "thread_1",
		StudentID: "student_1",
		CourseID:  "course_bio101",
		Title:     "Photosynthesis questions",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	messages := []*models.ThreadMessage{
		{
			Question: "What is photosynthesis?",
			Answer:   "Photosynthesis is the process by which plants convert **light** into chemical energy.",
			Sources: []models.SourceRef{
				{ContentID: "content_1", SourceTitle: "Biology Basics", PageNumber: 3, Similarity: 0.91},
			},
			Confidence: 0.8,
			CreatedAt:  time.Now(),
		},
		{
			Question:  "Where does it happen?",
			Answer:    "In the chloroplasts, primarily within leaf cells.",
			CreatedAt: time.Now(),
		},
	}

	data, err := renderer.RenderTranscript(thread, messages)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"), "output must be a PDF document")
}

func TestRenderTranscriptEmptyThread(t *testing.T) {
	renderer := NewRenderer(common.GetLogger())

	data, err := renderer.RenderTranscript(&models.Thread{ID: "thread_1", CourseID: "course_1"}, nil)
	require.NoError(t, err, "a thread with no exchanges still renders")
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))

	_, err = renderer.RenderTranscript(nil, nil)
	assert.Error(t, err)
}

func TestBuildTranscriptMarkdown(t *testing.T) {
	thread := &models.Thread{ID: "thread_1", CourseID: "course_1", Title: "Midterm review"}
	messages := []*models.ThreadMessage{
		{Question: "Define osmosis.", Answer: "Movement of water across a membrane."},
	}

	md := buildTranscriptMarkdown(thread, messages)
	assert.Contains(t, md, "# Midterm review")
	assert.Contains(t, md, "## Question 1")
	assert.Contains(t, md, "Define osmosis.")
	assert.Contains(t, md, "Movement of water across a membrane.")
}
