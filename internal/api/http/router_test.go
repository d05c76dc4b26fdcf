package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/spec-kit/course-service/internal/api/http"
	"github.com/spec-kit/course-service/internal/api/http/handlers"
	"github.com/spec-kit/course-service/internal/auth"
	"github.com/spec-kit/course-service/internal/config"
	"github.com/spec-kit/course-service/internal/events"
	"github.com/spec-kit/course-service/internal/observability"
	"github.com/spec-kit/course-service/internal/repository/memory"
	"github.com/spec-kit/course-service/internal/service"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 30,
			RefreshTokenTTLHours:  24,
			BcryptCost:            bcrypt.MinCost,
		},
	}

	courseStore := memory.NewCourseStore()
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		ListenerRepo:   memory.NewListenerStore(),
		SpecialistRepo: memory.NewSpecialistStore(),
	})
	courseService := service.NewCourseService(courseStore)
	enrollmentService := service.NewEnrollmentService(service.EnrollmentDependencies{
		ApplicationRepo: memory.NewApplicationStore(),
		CourseRepo:      courseStore,
		ProgressRepo:    memory.NewProgressStore(),
		Dispatcher:      events.NewInMemoryDispatcher(),
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Auth:           handlers.NewAuthHandler(authService),
		Courses:        handlers.NewCoursesHandler(courseService),
		Enrollment:     handlers.NewEnrollmentHandler(enrollmentService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		Health:         handlers.NewHealthHandler("course-service-test", "test", nil, nil),
	})
	return app
}

type apiCall struct {
	method string
	path   string
	token  string
	body   any
}

func doJSON(t *testing.T, app *fiber.App, call apiCall) (int, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if call.body != nil {
		payload, err := json.Marshal(call.body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(call.method, call.path, reader)
	if call.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if call.token != "" {
		req.Header.Set("Authorization", "Bearer "+call.token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	envelope := map[string]json.RawMessage{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &envelope), "body: %s", raw)
	}
	return resp.StatusCode, envelope
}

type authPayload struct {
	SubjectID    int64  `json:"subject_id"`
	Role         string `json:"role"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func register(t *testing.T, app *fiber.App, kind, name, email string) authPayload {
	t.Helper()
	status, envelope := doJSON(t, app, apiCall{
		method: http.MethodPost,
		path:   "/auth/" + kind + "/register",
		body:   map[string]string{"name": name, "email": email, "password": "pw-" + name},
	})
	require.Equal(t, http.StatusCreated, status)

	var payload authPayload
	require.NoError(t, json.Unmarshal(envelope["data"], &payload))
	return payload
}

func TestEndToEndEnrollmentScenario(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	// Specialist registers and creates a course.
	specialist := register(t, app, "specialists", "sergei", "sergei@example.com")
	assert.Equal(t, "SPECIALIST", specialist.Role)

	status, envelope := doJSON(t, app, apiCall{
		method: http.MethodPost,
		path:   "/courses",
		token:  specialist.AccessToken,
		body: map[string]any{
			"title":         "Intro to Signals",
			"total_lessons": 4,
			"total_tests":   2,
		},
	})
	require.Equal(t, http.StatusCreated, status)
	var course struct {
		ID      int64 `json:"id"`
		OwnerID int64 `json:"owner_id"`
	}
	require.NoError(t, json.Unmarshal(envelope["data"], &course))
	assert.Equal(t, specialist.SubjectID, course.OwnerID)

	// Listener registers, logs in, applies.
	register(t, app, "listeners", "lena", "lena@example.com")
	status, envelope = doJSON(t, app, apiCall{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": "lena@example.com", "password": "pw-lena"},
	})
	require.Equal(t, http.StatusOK, status)
	var listener authPayload
	require.NoError(t, json.Unmarshal(envelope["data"], &listener))
	assert.Equal(t, "LISTENER", listener.Role)

	status, envelope = doJSON(t, app, apiCall{
		method: http.MethodPost,
		path:   fmt.Sprintf("/courses/%d/apply", course.ID),
		token:  listener.AccessToken,
	})
	require.Equal(t, http.StatusCreated, status)
	var application struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(envelope["data"], &application))
	assert.Equal(t, "APPROVED", application.Status)

	// Progress exists, zeroed.
	status, envelope = doJSON(t, app, apiCall{
		method: http.MethodGet,
		path:   fmt.Sprintf("/courses/%d/progress", course.ID),
		token:  listener.AccessToken,
	})
	require.Equal(t, http.StatusOK, status)
	var progress struct {
		LessonsCompleted int     `json:"lessons_completed"`
		TestsPassed      int     `json:"tests_passed"`
		ProgressPercent  float64 `json:"progress_percent"`
	}
	require.NoError(t, json.Unmarshal(envelope["data"], &progress))
	assert.Zero(t, progress.LessonsCompleted)
	assert.Zero(t, progress.TestsPassed)
	assert.Zero(t, progress.ProgressPercent)

	// Two lessons and one test: 50 percent.
	for i := 0; i < 2; i++ {
		status, _ = doJSON(t, app, apiCall{
			method: http.MethodPost,
			path:   fmt.Sprintf("/courses/%d/lessons/complete", course.ID),
			token:  listener.AccessToken,
		})
		require.Equal(t, http.StatusOK, status)
	}
	status, envelope = doJSON(t, app, apiCall{
		method: http.MethodPost,
		path:   fmt.Sprintf("/courses/%d/tests/pass", course.ID),
		token:  listener.AccessToken,
	})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(envelope["data"], &progress))
	assert.InDelta(t, 50.0, progress.ProgressPercent, 1e-9)
}

func TestRouteClassification(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	specialist := register(t, app, "specialists", "sergei", "sergei2@example.com")
	listener := register(t, app, "listeners", "lena", "lena2@example.com")

	status, envelope := doJSON(t, app, apiCall{
		method: http.MethodPost,
		path:   "/courses",
		token:  specialist.AccessToken,
		body:   map[string]any{"title": "Course", "total_lessons": 1, "total_tests": 1},
	})
	require.Equal(t, http.StatusCreated, status)
	var course struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(envelope["data"], &course))

	// Public: course read without a token.
	status, _ = doJSON(t, app, apiCall{method: http.MethodGet, path: fmt.Sprintf("/courses/%d", course.ID)})
	assert.Equal(t, http.StatusOK, status)

	// Missing principal on a protected route: 401, not 403.
	status, _ = doJSON(t, app, apiCall{method: http.MethodPost, path: fmt.Sprintf("/courses/%d/apply", course.ID)})
	assert.Equal(t, http.StatusUnauthorized, status)

	// Wrong role: 403.
	status, _ = doJSON(t, app, apiCall{
		method: http.MethodPost,
		path:   "/courses",
		token:  listener.AccessToken,
		body:   map[string]any{"title": "Nope"},
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, app, apiCall{
		method: http.MethodPost,
		path:   fmt.Sprintf("/courses/%d/apply", course.ID),
		token:  specialist.AccessToken,
	})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestOwnershipGateOverHTTP(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	owner := register(t, app, "specialists", "owner", "owner@example.com")
	other := register(t, app, "specialists", "other", "other@example.com")
	listener := register(t, app, "listeners", "lena", "lena3@example.com")

	status, envelope := doJSON(t, app, apiCall{
		method: http.MethodPost,
		path:   "/courses",
		token:  owner.AccessToken,
		body:   map[string]any{"title": "Owned", "total_lessons": 1, "total_tests": 1},
	})
	require.Equal(t, http.StatusCreated, status)
	var course struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(envelope["data"], &course))

	status, envelope = doJSON(t, app, apiCall{
		method: http.MethodPost,
		path:   fmt.Sprintf("/courses/%d/apply", course.ID),
		token:  listener.AccessToken,
	})
	require.Equal(t, http.StatusCreated, status)
	var application struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(envelope["data"], &application))

	// Non-owner specialist: forbidden.
	status, _ = doJSON(t, app, apiCall{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/applications/%d/status", application.ID),
		token:  other.AccessToken,
		body:   map[string]string{"status": "REJECTED"},
	})
	assert.Equal(t, http.StatusForbidden, status)

	// Owner: allowed.
	status, _ = doJSON(t, app, apiCall{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/applications/%d/status", application.ID),
		token:  owner.AccessToken,
		body:   map[string]string{"status": "REJECTED"},
	})
	assert.Equal(t, http.StatusOK, status)
}

func TestDuplicateApplyOverHTTP(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	specialist := register(t, app, "specialists", "sergei", "sergei3@example.com")
	listener := register(t, app, "listeners", "lena", "lena4@example.com")

	status, envelope := doJSON(t, app, apiCall{
		method: http.MethodPost,
		path:   "/courses",
		token:  specialist.AccessToken,
		body:   map[string]any{"title": "Course"},
	})
	require.Equal(t, http.StatusCreated, status)
	var course struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(envelope["data"], &course))

	path := fmt.Sprintf("/courses/%d/apply", course.ID)
	status, _ = doJSON(t, app, apiCall{method: http.MethodPost, path: path, token: listener.AccessToken})
	require.Equal(t, http.StatusCreated, status)

	status, _ = doJSON(t, app, apiCall{method: http.MethodPost, path: path, token: listener.AccessToken})
	assert.Equal(t, http.StatusConflict, status)
}

func TestLoginFailureIsGeneric(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	register(t, app, "listeners", "lena", "lena5@example.com")

	status1, envelope1 := doJSON(t, app, apiCall{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": "nobody@example.com", "password": "x"},
	})
	status2, envelope2 := doJSON(t, app, apiCall{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": "lena5@example.com", "password": "wrong"},
	})

	assert.Equal(t, http.StatusUnauthorized, status1)
	assert.Equal(t, http.StatusUnauthorized, status2)
	assert.JSONEq(t, string(envelope1["error"]), string(envelope2["error"]))
}

func TestRefreshEndpoint(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	listener := register(t, app, "listeners", "lena", "lena6@example.com")

	status, envelope := doJSON(t, app, apiCall{
		method: http.MethodPost,
		path:   "/auth/refresh",
		body:   map[string]string{"refresh_token": listener.RefreshToken},
	})
	require.Equal(t, http.StatusOK, status)
	var refreshed authPayload
	require.NoError(t, json.Unmarshal(envelope["data"], &refreshed))
	assert.Equal(t, listener.SubjectID, refreshed.SubjectID)
	assert.NotEmpty(t, refreshed.AccessToken)

	// Access tokens are not accepted by the refresh endpoint.
	status, _ = doJSON(t, app, apiCall{
		method: http.MethodPost,
		path:   "/auth/refresh",
		body:   map[string]string{"refresh_token": listener.AccessToken},
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}
