package middleware

import "github.com/gofiber/fiber/v2"

// NoStore marks every response of the group as non-cacheable, overriding
// whatever the handler set.
func NoStore() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		c.Set(fiber.HeaderCacheControl, "no-store")
		return err
	}
}
