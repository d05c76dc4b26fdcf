package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-service/internal/domain"
)

const (
	principalKey = "auth_principal"
	authFailKey  = "auth_failure"
	bearerScheme = "Bearer"
)

// Principal is the authenticated identity attached to a request after a
// successful access-token decode. Request-scoped, never persisted.
type Principal struct {
	SubjectID int64
	Role      domain.Role
}

// AuthMiddleware extracts and validates bearer tokens. A missing or invalid
// token does not abort the request here; the request simply proceeds without
// a Principal, and route-level guards reject it where authentication is
// required. The recorded failure reason is surfaced at that point.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle runs once per inbound request, before route dispatch.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return c.Next()
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		c.Locals(authFailKey, err)
		return c.Next()
	}
	if claims.Kind != TokenKindAccess {
		// Refresh tokens are accepted only by the refresh endpoint, which
		// parses them itself; they never authenticate ordinary calls.
		c.Locals(authFailKey, ErrTokenMalformed)
		return c.Next()
	}

	c.Locals(principalKey, &Principal{SubjectID: claims.SubjectID, Role: claims.Role})
	return c.Next()
}

// bearerToken extracts the token from an Authorization header value. A
// missing header or unrecognized scheme yields no token.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerScheme) {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// PrincipalFromContext retrieves the authenticated identity, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// FailureFromContext retrieves the token decode failure recorded for this
// request, if any.
func FailureFromContext(c *fiber.Ctx) (error, bool) {
	val := c.Locals(authFailKey)
	if val == nil {
		return nil, false
	}
	err, ok := val.(error)
	if !ok || err == nil {
		return nil, false
	}
	return err, true
}

// unauthorizedMessage maps a recorded decode failure to the client message.
func unauthorizedMessage(c *fiber.Ctx) string {
	err, ok := FailureFromContext(c)
	if !ok {
		return "authentication required"
	}
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "token expired"
	default:
		return "invalid token"
	}
}
