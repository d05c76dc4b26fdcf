package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-service/internal/api/dto"
	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/service"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

// AuthHandler exposes registration, login and refresh endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// RegisterListener handles POST /auth/listeners/register.
func (h *AuthHandler) RegisterListener(c *fiber.Ctx) error {
	return h.register(c, domain.RoleListener)
}

// RegisterSpecialist handles POST /auth/specialists/register.
func (h *AuthHandler) RegisterSpecialist(c *fiber.Ctx) error {
	return h.register(c, domain.RoleSpecialist)
}

func (h *AuthHandler) register(c *fiber.Ctx, role domain.Role) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	result, err := h.auth.Register(c.Context(), role, req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": authResponse(result)})
}

// Login handles POST /auth/login. Any failed attempt, whatever the cause,
// produces the same unauthorized response.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	result, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized("invalid credentials")
		}
		return err
	}

	return c.JSON(fiber.Map{"data": authResponse(result)})
}

// Refresh handles POST /auth/refresh. Only refresh tokens are accepted here.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RefreshToken == "" {
		return apperrors.NewValidationError("refresh_token required", nil)
	}

	result, err := h.auth.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": authResponse(result)})
}

func authResponse(result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		SubjectID:        result.SubjectID,
		Role:             string(result.Role),
		AccessToken:      result.Tokens.AccessToken,
		AccessExpiresAt:  result.Tokens.AccessExpiresAt,
		RefreshToken:     result.Tokens.RefreshToken,
		RefreshExpiresAt: result.Tokens.RefreshExpiresAt,
	}
}
