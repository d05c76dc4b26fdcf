package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/course-service/internal/auth"
	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/events"
	"github.com/spec-kit/course-service/internal/repository"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

// EnrollmentService runs the course application state machine and the
// progress counters behind it.
//
// Applications are created already Approved. The Pending state and the
// SetStatus transition path are kept because specialists can still move an
// application between states, but in practice nothing arrives Pending.
type EnrollmentService struct {
	applications repository.ApplicationRepository
	courses      repository.CourseRepository
	progress     repository.ProgressRepository
	dispatcher   events.Dispatcher
}

// EnrollmentDependencies bundles repositories for the enrollment service.
type EnrollmentDependencies struct {
	ApplicationRepo repository.ApplicationRepository
	CourseRepo      repository.CourseRepository
	ProgressRepo    repository.ProgressRepository
	Dispatcher      events.Dispatcher
}

// NewEnrollmentService constructs the service.
func NewEnrollmentService(deps EnrollmentDependencies) *EnrollmentService {
	return &EnrollmentService{
		applications: deps.ApplicationRepo,
		courses:      deps.CourseRepo,
		progress:     deps.ProgressRepo,
		dispatcher:   deps.Dispatcher,
	}
}

// Apply creates a course application for the listener. At most one
// application may exist per (listener, course) pair; a duplicate apply is a
// conflict. The new application is auto-approved and gets a zeroed progress
// stat.
func (s *EnrollmentService) Apply(ctx context.Context, listenerID, courseID int64) (*domain.CourseApplication, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("course", map[string]any{"course_id": courseID})
		}
		return nil, err
	}

	app := &domain.CourseApplication{
		ListenerID: listenerID,
		CourseID:   courseID,
		Status:     domain.ApplicationApproved,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("application already exists", map[string]any{
				"listener_id": listenerID,
				"course_id":   courseID,
			})
		}
		return nil, err
	}

	stat := &domain.ProgressStat{ListenerID: listenerID, CourseID: courseID}
	if err := s.progress.CreateIfAbsent(ctx, stat); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventApplicationSubmitted, courseID, events.Actor{
		Role:      domain.RoleListener,
		SubjectID: listenerID,
	}, events.ApplicationSubmittedPayload{
		ApplicationID: app.ID,
		ListenerID:    listenerID,
		Status:        app.Status,
	})

	return app, nil
}

// SetStatus transitions an application. Only the specialist who owns the
// target course may do this; approval idempotently creates the progress stat.
func (s *EnrollmentService) SetStatus(ctx context.Context, principal *auth.Principal, applicationID int64, newStatus domain.ApplicationStatus) (*domain.CourseApplication, error) {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("application", map[string]any{"application_id": applicationID})
		}
		return nil, err
	}

	ownerID, err := s.courses.FindOwner(ctx, app.CourseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("course", map[string]any{"course_id": app.CourseID})
		}
		return nil, err
	}
	if err := auth.RequireOwnership(principal, ownerID); err != nil {
		return nil, err
	}

	specialistID := principal.SubjectID

	oldStatus := app.Status
	if err := s.applications.UpdateStatus(ctx, app.ID, newStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("application", map[string]any{"application_id": applicationID})
		}
		return nil, err
	}
	app.Status = newStatus

	if newStatus == domain.ApplicationApproved {
		stat := &domain.ProgressStat{ListenerID: app.ListenerID, CourseID: app.CourseID}
		if err := s.progress.CreateIfAbsent(ctx, stat); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, events.EventApplicationStatusChanged, app.CourseID, events.Actor{
		Role:      domain.RoleSpecialist,
		SubjectID: specialistID,
	}, events.ApplicationStatusChangedPayload{
		ApplicationID: app.ID,
		ListenerID:    app.ListenerID,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
	})

	return app, nil
}

// ListApplications returns applications for a course owned by the specialist.
func (s *EnrollmentService) ListApplications(ctx context.Context, principal *auth.Principal, courseID int64) ([]domain.CourseApplication, error) {
	ownerID, err := s.courses.FindOwner(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("course", map[string]any{"course_id": courseID})
		}
		return nil, err
	}
	if err := auth.RequireOwnership(principal, ownerID); err != nil {
		return nil, err
	}
	return s.applications.ListByCourse(ctx, courseID)
}

// RecordLessonCompleted increments the lesson counter for the listener's
// enrollment and recomputes the percentage.
func (s *EnrollmentService) RecordLessonCompleted(ctx context.Context, listenerID, courseID int64) (*domain.ProgressStat, error) {
	return s.recordProgress(ctx, listenerID, courseID, func(stat *domain.ProgressStat) {
		stat.LessonsCompleted++
	})
}

// RecordTestPassed increments the test counter for the listener's enrollment
// and recomputes the percentage.
func (s *EnrollmentService) RecordTestPassed(ctx context.Context, listenerID, courseID int64) (*domain.ProgressStat, error) {
	return s.recordProgress(ctx, listenerID, courseID, func(stat *domain.ProgressStat) {
		stat.TestsPassed++
	})
}

// GetProgress returns the listener's stat for a course.
func (s *EnrollmentService) GetProgress(ctx context.Context, listenerID, courseID int64) (*domain.ProgressStat, error) {
	stat, err := s.progress.GetByPair(ctx, listenerID, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("enrollment", map[string]any{
				"listener_id": listenerID,
				"course_id":   courseID,
			})
		}
		return nil, err
	}
	return stat, nil
}

func (s *EnrollmentService) recordProgress(ctx context.Context, listenerID, courseID int64, bump func(*domain.ProgressStat)) (*domain.ProgressStat, error) {
	stat, err := s.progress.GetByPair(ctx, listenerID, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No stat means no approved enrollment.
			return nil, apperrors.NewNotFound("enrollment", map[string]any{
				"listener_id": listenerID,
				"course_id":   courseID,
			})
		}
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	bump(stat)
	stat.ProgressPercent = domain.ComputePercent(stat.LessonsCompleted, course.TotalLessons, stat.TestsPassed, course.TotalTests)
	if err := s.progress.Update(ctx, stat); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventProgressUpdated, courseID, events.Actor{
		Role:      domain.RoleListener,
		SubjectID: listenerID,
	}, events.ProgressUpdatedPayload{
		ListenerID:      listenerID,
		LessonsDone:     stat.LessonsCompleted,
		TestsPassed:     stat.TestsPassed,
		ProgressPercent: stat.ProgressPercent,
	})

	return stat, nil
}

func (s *EnrollmentService) publish(ctx context.Context, eventType events.EventType, courseID int64, actor events.Actor, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		CourseID:  courseID,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
