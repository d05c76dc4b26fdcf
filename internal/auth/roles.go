package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-service/internal/domain"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

// Route guards. A missing Principal on a guarded route is always
// Unauthorized; a present Principal failing a role or ownership rule is
// Forbidden. The two stay distinguishable all the way to the client.

// RequireAuthenticated ensures any valid principal is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized(unauthorizedMessage(c))
		}
		return c.Next()
	}
}

// RequireRole ensures the principal holds one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized(unauthorizedMessage(c))
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireOwnership checks that the principal is the declared owner of a
// resource. Called by handlers after the owner id has been resolved.
func RequireOwnership(principal *Principal, resourceOwnerID int64) error {
	if principal == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if principal.SubjectID != resourceOwnerID {
		return apperrors.NewForbidden("not the resource owner")
	}
	return nil
}
