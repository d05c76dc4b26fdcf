package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-service/internal/api/http/handlers"
	"github.com/spec-kit/course-service/internal/auth"
	"github.com/spec-kit/course-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Courses        *handlers.CoursesHandler
	Enrollment     *handlers.EnrollmentHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Every route is statically one of:
// public, authenticated-any, or role-restricted; the bearer middleware runs
// on all of them and the guards reject where authentication is required.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.AuthMiddleware.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/listeners/register", cfg.Auth.RegisterListener)
	authGroup.Post("/specialists/register", cfg.Auth.RegisterSpecialist)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)

	courses := app.Group("/courses")
	courses.Post("", auth.RequireRole(domain.RoleSpecialist), cfg.Courses.Create)
	courses.Get("/:id", cfg.Courses.Get)
	courses.Get("/:id/applications", auth.RequireRole(domain.RoleSpecialist), cfg.Enrollment.ListApplications)

	courses.Post("/:id/apply", auth.RequireRole(domain.RoleListener), cfg.Enrollment.Apply)
	courses.Post("/:id/lessons/complete", auth.RequireRole(domain.RoleListener), cfg.Enrollment.CompleteLesson)
	courses.Post("/:id/tests/pass", auth.RequireRole(domain.RoleListener), cfg.Enrollment.PassTest)
	courses.Get("/:id/progress", auth.RequireRole(domain.RoleListener), cfg.Enrollment.GetProgress)

	applications := app.Group("/applications")
	applications.Patch("/:id/status", auth.RequireRole(domain.RoleSpecialist), cfg.Enrollment.SetStatus)
}
