package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-service/internal/api/dto"
	"github.com/spec-kit/course-service/internal/auth"
	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/service"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

// EnrollmentHandler exposes the application state machine and progress
// endpoints. Identity always comes from the request principal, never from
// the payload.
type EnrollmentHandler struct {
	enrollment *service.EnrollmentService
}

// NewEnrollmentHandler constructs the handler.
func NewEnrollmentHandler(enrollmentService *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollment: enrollmentService}
}

// Apply handles POST /courses/:id/apply. Listener only.
func (h *EnrollmentHandler) Apply(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	app, err := h.enrollment.Apply(c.Context(), principal.SubjectID, courseID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewApplicationResponse(app)})
}

// SetStatus handles PATCH /applications/:id/status. Specialist only; the
// service enforces course ownership.
func (h *EnrollmentHandler) SetStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	applicationID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, err := domain.ParseApplicationStatus(req.Status)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	app, err := h.enrollment.SetStatus(c.Context(), principal, applicationID, status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewApplicationResponse(app)})
}

// ListApplications handles GET /courses/:id/applications. Specialist only.
func (h *EnrollmentHandler) ListApplications(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	apps, err := h.enrollment.ListApplications(c.Context(), principal, courseID)
	if err != nil {
		return err
	}

	responses := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		responses = append(responses, dto.NewApplicationResponse(&apps[i]))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// CompleteLesson handles POST /courses/:id/lessons/complete. Listener only.
func (h *EnrollmentHandler) CompleteLesson(c *fiber.Ctx) error {
	return h.recordProgress(c, h.enrollment.RecordLessonCompleted)
}

// PassTest handles POST /courses/:id/tests/pass. Listener only.
func (h *EnrollmentHandler) PassTest(c *fiber.Ctx) error {
	return h.recordProgress(c, h.enrollment.RecordTestPassed)
}

// GetProgress handles GET /courses/:id/progress. Listener only.
func (h *EnrollmentHandler) GetProgress(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	stat, err := h.enrollment.GetProgress(c.Context(), principal.SubjectID, courseID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProgressResponse(stat)})
}

func (h *EnrollmentHandler) recordProgress(c *fiber.Ctx, record func(ctx context.Context, listenerID, courseID int64) (*domain.ProgressStat, error)) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	stat, err := record(c.Context(), principal.SubjectID, courseID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProgressResponse(stat)})
}
