package events

import (
	"time"

	"github.com/spec-kit/course-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventApplicationSubmitted     EventType = "application_submitted"
	EventApplicationStatusChanged EventType = "application_status_changed"
	EventProgressUpdated          EventType = "progress_updated"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role      domain.Role `json:"role"`
	SubjectID int64       `json:"subject_id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	CourseID  int64       `json:"course_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ApplicationSubmittedPayload payload.
type ApplicationSubmittedPayload struct {
	ApplicationID int64                    `json:"application_id"`
	ListenerID    int64                    `json:"listener_id"`
	Status        domain.ApplicationStatus `json:"status"`
}

// ApplicationStatusChangedPayload payload.
type ApplicationStatusChangedPayload struct {
	ApplicationID int64                    `json:"application_id"`
	ListenerID    int64                    `json:"listener_id"`
	OldStatus     domain.ApplicationStatus `json:"old_status"`
	NewStatus     domain.ApplicationStatus `json:"new_status"`
}

// ProgressUpdatedPayload payload.
type ProgressUpdatedPayload struct {
	ListenerID      int64   `json:"listener_id"`
	LessonsDone     int     `json:"lessons_done"`
	TestsPassed     int     `json:"tests_passed"`
	ProgressPercent float64 `json:"progress_percent"`
}
