package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"coupon-dispenser/internal/service"
)

// AdminCookieName is the cookie carrying the admin session token.
const AdminCookieName = "admin_token"

// SessionValidator validates admin session tokens.
type SessionValidator interface {
	ValidateToken(token string) (*service.SessionClaims, error)
}

// RequireAdmin guards admin routes. The token is read from the Authorization
// bearer header, falling back to the session cookie set at login. Requests
// without a valid admin token get 401.
func RequireAdmin(auth SessionValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var token string
		if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimPrefix(h, "Bearer ")
		}
		if token == "" {
			token = c.Cookies(AdminCookieName)
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("rejected admin token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		c.Locals("admin", claims.Subject)
		return c.Next()
	}
}
