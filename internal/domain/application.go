package domain

import (
	"fmt"
	"strings"
	"time"
)

// ApplicationStatus enumerates states of a course application.
// Pending may transition to Approved or Rejected; both are terminal.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// ParseApplicationStatus normalizes status input at the API boundary.
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(ApplicationPending):
		return ApplicationPending, nil
	case string(ApplicationApproved):
		return ApplicationApproved, nil
	case string(ApplicationRejected):
		return ApplicationRejected, nil
	default:
		return "", fmt.Errorf("unknown application status %q", raw)
	}
}

// CourseApplication records a Listener's request to enroll in a Course.
// At most one application exists per (ListenerID, CourseID) pair.
type CourseApplication struct {
	ID         int64
	ListenerID int64
	CourseID   int64
	Status     ApplicationStatus
	AppliedAt  time.Time
	UpdatedAt  time.Time
}
