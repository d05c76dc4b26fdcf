package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-service/internal/api/dto"
	"github.com/spec-kit/course-service/internal/auth"
	"github.com/spec-kit/course-service/internal/service"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

// CoursesHandler exposes the minimal course surface.
type CoursesHandler struct {
	courses *service.CourseService
}

// NewCoursesHandler constructs the handler.
func NewCoursesHandler(courseService *service.CourseService) *CoursesHandler {
	return &CoursesHandler{courses: courseService}
}

// Create handles POST /courses. Specialist only; the principal becomes the
// course owner, so client-supplied owner ids are never trusted.
func (h *CoursesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CourseCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	course, err := h.courses.CreateCourse(c.Context(), principal.SubjectID, service.CourseCreateInput{
		Title:        req.Title,
		Description:  req.Description,
		TotalLessons: req.TotalLessons,
		TotalTests:   req.TotalTests,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCourseResponse(course)})
}

// Get handles GET /courses/:id.
func (h *CoursesHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	course, err := h.courses.GetCourse(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCourseResponse(course)})
}

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, nil)
	}
	return id, nil
}
