package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/LinkShelf/internal/app/apperr"
	"github.com/sifan077/LinkShelf/internal/http/middleware"
	"go.uber.org/zap"
)

const redactedDetail = "Something went wrong"

// NewErrorHandler translates errors returned by handlers into JSON responses.
// Internal error details are only exposed when exposeDetails is set.
func NewErrorHandler(logger *zap.Logger, exposeDetails bool) fiber.ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			// A known path with the wrong method is still an unmatched route.
			if fe.Code == fiber.StatusNotFound || fe.Code == fiber.StatusMethodNotAllowed {
				return c.Status(fiber.StatusNotFound).JSON(MessageResponse{Message: "Route not found"})
			}
			return c.Status(fe.Code).JSON(MessageResponse{Message: fe.Message})
		}

		switch apperr.KindOf(err) {
		case apperr.Validation:
			return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{
				Message: "Validation Error",
				Errors:  apperr.DetailsOf(err),
			})
		case apperr.InvalidID:
			return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{Message: "Invalid link ID"})
		case apperr.NotFound:
			return c.Status(fiber.StatusNotFound).JSON(MessageResponse{Message: "Link not found"})
		}

		fields := []zap.Field{
			zap.Error(err),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
		}
		if requestID, ok := c.Locals(middleware.RequestIDKey).(string); ok {
			fields = append(fields, zap.String("request_id", requestID))
		}
		logger.Error("server error", fields...)

		detail := redactedDetail
		if exposeDetails {
			detail = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(MessageResponse{
			Message: "Internal server error",
			Error:   detail,
		})
	}
}
