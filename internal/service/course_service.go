package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/repository"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

// CourseService covers the minimal course surface enrollment needs: creation
// by a specialist and lookup. Lesson and test content is out of scope.
type CourseService struct {
	courses repository.CourseRepository
}

// NewCourseService constructs the service.
func NewCourseService(courses repository.CourseRepository) *CourseService {
	return &CourseService{courses: courses}
}

// CourseCreateInput describes course creation payload.
type CourseCreateInput struct {
	Title        string
	Description  string
	TotalLessons int
	TotalTests   int
}

// CreateCourse creates a course owned by the given specialist.
func (s *CourseService) CreateCourse(ctx context.Context, ownerID int64, input CourseCreateInput) (*domain.Course, error) {
	if input.Title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if input.TotalLessons < 0 || input.TotalTests < 0 {
		return nil, apperrors.NewValidationError("lesson and test counts must be non-negative", nil)
	}

	course := &domain.Course{
		OwnerID:      ownerID,
		Title:        input.Title,
		Description:  input.Description,
		TotalLessons: input.TotalLessons,
		TotalTests:   input.TotalTests,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// GetCourse returns a course by id.
func (s *CourseService) GetCourse(ctx context.Context, id int64) (*domain.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("course", map[string]any{"course_id": id})
		}
		return nil, err
	}
	return course, nil
}
