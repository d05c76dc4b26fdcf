package dto

import (
	"time"

	"github.com/spec-kit/course-service/internal/domain"
)

// SetStatusRequest payload for application status transitions.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// ApplicationResponse is the public application representation.
type ApplicationResponse struct {
	ID         int64     `json:"id"`
	ListenerID int64     `json:"listener_id"`
	CourseID   int64     `json:"course_id"`
	Status     string    `json:"status"`
	AppliedAt  time.Time `json:"applied_at"`
}

// NewApplicationResponse maps a domain application.
func NewApplicationResponse(app *domain.CourseApplication) ApplicationResponse {
	return ApplicationResponse{
		ID:         app.ID,
		ListenerID: app.ListenerID,
		CourseID:   app.CourseID,
		Status:     string(app.Status),
		AppliedAt:  app.AppliedAt,
	}
}

// ProgressResponse is the public progress representation.
type ProgressResponse struct {
	ListenerID       int64   `json:"listener_id"`
	CourseID         int64   `json:"course_id"`
	LessonsCompleted int     `json:"lessons_completed"`
	TestsPassed      int     `json:"tests_passed"`
	ProgressPercent  float64 `json:"progress_percent"`
}

// NewProgressResponse maps a domain progress stat.
func NewProgressResponse(stat *domain.ProgressStat) ProgressResponse {
	return ProgressResponse{
		ListenerID:       stat.ListenerID,
		CourseID:         stat.CourseID,
		LessonsCompleted: stat.LessonsCompleted,
		TestsPassed:      stat.TestsPassed,
		ProgressPercent:  stat.ProgressPercent,
	}
}
