package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireRole restricts a route to callers carrying one of the given roles.
// Runs after Protected, which puts the role name in locals.
func RequireRole(roleNames ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No role in token",
			})
		}

		for _, name := range roleNames {
			if role == name {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have the required role to perform this action",
		})
	}
}
