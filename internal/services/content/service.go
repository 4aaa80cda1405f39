// -----------------------------------------------------------------------
// Content Service - Course material registration
// -----------------------------------------------------------------------

package content

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docere/internal/common"
	"github.com/ternarybob/docere/internal/interfaces"
	"github.com/ternarybob/docere/internal/models"
)

// RegisterRequest registers a new course material.
type RegisterRequest struct {
	CourseID string `json:"course_id" validate:"required"`
	Title    string `json:"title" validate:"required,max=300"`
	URL      string `json:"url" validate:"required,url"`
	Type     string `json:"type" validate:"required"`
}

// Service manages course content registration and lookup.
type Service struct {
	storage  interfaces.StorageManager
	logger   arbor.ILogger
	validate *validator.Validate
}

// NewService creates a content registration service.
func NewService(storage interfaces.StorageManager, logger arbor.ILogger) *Service {
	return &Service{
		storage:  storage,
		logger:   logger,
		validate: validator.New(),
	}
}

// Register validates and persists a new course content item. Indexing is a
// separate, explicit step.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*models.CourseContent, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	contentType, ok := models.ParseContentType(req.Type)
	if !ok {
		return nil, fmt.Errorf("%w: unknown content type %q", models.ErrValidation, req.Type)
	}

	content := &models.CourseContent{
		ID:        common.NewContentID(),
		CourseID:  req.CourseID,
		Title:     req.Title,
		URL:       req.URL,
		Type:      contentType,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.storage.ContentStorage().Save(content); err != nil {
		return nil, fmt.Errorf("failed to save content: %w", err)
	}

	s.logger.Info().
		Str("content_id", content.ID).
		Str("course_id", content.CourseID).
		Str("type", string(contentType)).
		Msg("Content registered")

	return content, nil
}

// Get returns one registered content item.
func (s *Service) Get(ctx context.Context, contentID string) (*models.CourseContent, error) {
	return s.storage.ContentStorage().Get(contentID)
}

// ListByCourse returns all registered contents for a course.
func (s *Service) ListByCourse(ctx context.Context, courseID string) ([]*models.CourseContent, error) {
	if courseID == "" {
		return nil, fmt.Errorf("%w: course ID is required", models.ErrValidation)
	}
	return s.storage.ContentStorage().ListByCourse(courseID)
}
