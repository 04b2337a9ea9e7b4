package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CacheControl sets cache headers for responses
func CacheControl(maxAge time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Process request first
		err := c.Next()

		// Set cache headers only for successful GET requests
		if c.Method() == "GET" && c.Response().StatusCode() == 200 {
			c.Set("Cache-Control", "public, max-age="+strconv.Itoa(int(maxAge.Seconds())))
		}

		return err
	}
}

// MasterDataCache returns cache middleware for master data (1 hour cache)
// Barangay lists change a few times a year at most.
func MasterDataCache() fiber.Handler {
	return CacheControl(time.Hour)
}

// NoCacheHeaders sets no-cache headers. Scan resolution and claim endpoints
// must never serve a cached answer.
func NoCacheHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "no-store, no-cache, must-revalidate")
		c.Set("Pragma", "no-cache")
		c.Set("Expires", "0")
		return c.Next()
	}
}

// PrivateCacheHeaders sets private cache headers (for user-specific data)
func PrivateCacheHeaders(maxAge time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() == "GET" && c.Response().StatusCode() == 200 {
			c.Set("Cache-Control", "private, max-age="+strconv.Itoa(int(maxAge.Seconds())))
		}

		return err
	}
}
