package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/art-gallery-service/pkg/util/errorutil"
)

// RequireAuthority admits only callers holding the given authority, e.g. "ROLE_ARTIST".
// A missing identity is 401, a different authority is 403.
func RequireAuthority(authority string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		granted, _ := AuthorityFromContext(c)
		if granted != authority {
			return apperrors.NewForbidden("insufficient authority")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures any identity is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
