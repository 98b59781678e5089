package middleware

import (
	"strings"

	"freelance-marketplace/logger"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware copies the identity the gateway resolved
// (X-User-ID, X-User-Roles) into c.Locals. A request without a user id is
// rejected.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("X-User-ID"))
		if userID == "" {
			logger.Warn().Str("path", c.Path()).Msg("❌ [USER_CTX] X-User-ID missing")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID: request must come through gateway with auth context",
			})
		}

		var roles []string
		for _, r := range strings.Split(c.Get("X-User-Roles"), ",") {
			if r = strings.TrimSpace(r); r != "" {
				roles = append(roles, r)
			}
		}

		c.Locals("user_id", userID)
		c.Locals("user_roles", roles)

		logger.Debug().Str("user_id", userID).Strs("roles", roles).Str("path", c.Path()).Msg("👤 [USER_CTX]")
		return c.Next()
	}
}

// RequireRole must run after UserContextMiddleware.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals("user_roles").([]string)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": role + " role required",
		})
	}
}
