package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Recovery turns panics into errors so the error handler answers with a 500.
func Recovery(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic recovered: %v", r)

				fields := []zap.Field{
					zap.Error(err),
					zap.ByteString("stack", debug.Stack()),
					zap.String("method", c.Method()),
					zap.String("path", c.Path()),
				}
				if requestID, ok := c.Locals(RequestIDKey).(string); ok {
					fields = append(fields, zap.String("request_id", requestID))
				}

				logger.Error("panic recovered", fields...)
			}
		}()

		return c.Next()
	}
}
