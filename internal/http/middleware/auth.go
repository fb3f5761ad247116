package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"reportvault/internal/auth"
)

// OwnerIDLocalKey is the key under which Auth stores the verified owner id
// in Fiber's context locals.
const OwnerIDLocalKey = "owner_id"

// Auth verifies the Bearer token on every request and stores the token's
// subject in locals as the owner id. Handlers downstream read that value and
// never look at the Authorization header themselves.
func Auth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization scheme")
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
		claims, err := auth.ParseToken(secret, token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(OwnerIDLocalKey, claims.Subject)
		return c.Next()
	}
}
