package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/course-service/internal/auth"
	"github.com/spec-kit/course-service/internal/domain"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

// newGuardedApp builds a fiber app with the bearer middleware and one route
// per guard class, mapping DomainError to its status like the production
// error middleware does.
func newGuardedApp(tm *auth.TokenManager) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
			}})
		},
	})

	middleware := auth.NewAuthMiddleware(tm)
	app.Use(middleware.Handle)

	app.Get("/public", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/any", auth.RequireAuthenticated(), func(c *fiber.Ctx) error {
		principal, _ := auth.PrincipalFromContext(c)
		return c.JSON(fiber.Map{"subject_id": principal.SubjectID, "role": principal.Role})
	})
	app.Get("/specialists-only", auth.RequireRole(domain.RoleSpecialist), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestMiddlewarePublicRouteWithoutToken(t *testing.T) {
	t.Parallel()
	app := newGuardedApp(auth.NewTokenManager("secret", time.Minute, time.Hour))

	resp := doRequest(t, app, "/public", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareMissingTokenIsUnauthorized(t *testing.T) {
	t.Parallel()
	app := newGuardedApp(auth.NewTokenManager("secret", time.Minute, time.Hour))

	resp := doRequest(t, app, "/any", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareValidTokenAttachesPrincipal(t *testing.T) {
	t.Parallel()
	tm := auth.NewTokenManager("secret", time.Minute, time.Hour)
	app := newGuardedApp(tm)

	token, _, err := tm.GenerateToken(9, domain.RoleListener, auth.TokenKindAccess)
	require.NoError(t, err)

	resp := doRequest(t, app, "/any", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareGarbageTokenIsUnauthorized(t *testing.T) {
	t.Parallel()
	app := newGuardedApp(auth.NewTokenManager("secret", time.Minute, time.Hour))

	resp := doRequest(t, app, "/any", "garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareExpiredTokenIsUnauthorized(t *testing.T) {
	t.Parallel()
	tm := auth.NewTokenManager("secret", time.Nanosecond, time.Hour)
	app := newGuardedApp(tm)

	token, _, err := tm.GenerateToken(9, domain.RoleListener, auth.TokenKindAccess)
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	resp := doRequest(t, app, "/any", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareRefreshTokenRejectedOnProtectedRoute(t *testing.T) {
	t.Parallel()
	tm := auth.NewTokenManager("secret", time.Minute, time.Hour)
	app := newGuardedApp(tm)

	token, _, err := tm.GenerateToken(9, domain.RoleListener, auth.TokenKindRefresh)
	require.NoError(t, err)

	resp := doRequest(t, app, "/any", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareRoleMismatchIsForbidden(t *testing.T) {
	t.Parallel()
	tm := auth.NewTokenManager("secret", time.Minute, time.Hour)
	app := newGuardedApp(tm)

	token, _, err := tm.GenerateToken(9, domain.RoleListener, auth.TokenKindAccess)
	require.NoError(t, err)

	// Wrong role on a role-restricted route: forbidden, not unauthorized.
	resp := doRequest(t, app, "/specialists-only", token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	specialist, _, err := tm.GenerateToken(10, domain.RoleSpecialist, auth.TokenKindAccess)
	require.NoError(t, err)
	resp = doRequest(t, app, "/specialists-only", specialist)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
