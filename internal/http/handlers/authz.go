package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "bookery/internal/log"
	"bookery/internal/services"
)

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// RequireUser rejects requests without a valid bearer token and stashes the
// resolved user in locals for handlers and the logger.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)
		if tok == "" {
			applog.Security(c, "auth.missing_token", nil)
			return respondFail(c, fiber.StatusUnauthorized, "Unauthenticated")
		}
		u, err := auth.CurrentUser(tok)
		if err != nil || u == nil {
			applog.Security(c, "auth.invalid_token", nil)
			return respondFail(c, fiber.StatusUnauthorized, "Unauthenticated")
		}
		c.Locals("user", u)
		c.Locals("user_id", u.ID)
		c.Locals("token", tok)
		return c.Next()
	}
}
