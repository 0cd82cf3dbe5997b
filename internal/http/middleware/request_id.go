package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the Locals key other middleware and handlers read.
	RequestIDKey = "request_id"

	maxRequestIDLength = 128
)

// RequestID propagates a caller supplied request ID or mints a new one.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := strings.Clone(c.Get(RequestIDHeader))
		if rid == "" || len(rid) > maxRequestIDLength {
			rid = uuid.New().String()
		}
		c.Set(RequestIDHeader, rid)
		c.Locals(RequestIDKey, rid)
		return c.Next()
	}
}
