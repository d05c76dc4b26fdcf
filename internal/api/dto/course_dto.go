package dto

import (
	"time"

	"github.com/spec-kit/course-service/internal/domain"
)

// CourseCreateRequest payload for new courses.
type CourseCreateRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	TotalLessons int    `json:"total_lessons"`
	TotalTests   int    `json:"total_tests"`
}

// CourseResponse is the public course representation.
type CourseResponse struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	TotalLessons int       `json:"total_lessons"`
	TotalTests   int       `json:"total_tests"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewCourseResponse maps a domain course.
func NewCourseResponse(course *domain.Course) CourseResponse {
	return CourseResponse{
		ID:           course.ID,
		OwnerID:      course.OwnerID,
		Title:        course.Title,
		Description:  course.Description,
		TotalLessons: course.TotalLessons,
		TotalTests:   course.TotalTests,
		CreatedAt:    course.CreatedAt,
	}
}
