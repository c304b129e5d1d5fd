package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/consultbridge/consult-booking/cache"
)

// CachePage serves GET responses from Redis for ttl, keyed by the full
// request URL. Only successful JSON responses are stored.
func CachePage(ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet {
			return c.Next()
		}

		key := cache.Key(c.OriginalURL())
		if body, ok := cache.Get(c.Context(), key); ok {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString(body)
		}

		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() == fiber.StatusOK {
			cache.Set(c.Context(), key, string(c.Response().Body()), ttl)
		}
		return nil
	}
}
