package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-prep/internal/repositories"
	"alfredoptarigan/interview-prep/internal/services"
)

// writeError maps service and repository errors onto HTTP responses.
// message is used for upstream and unexpected failures.
func writeError(c *fiber.Ctx, message string, err error) error {
	var (
		extraction *services.ExtractionError
		upstream   *services.UpstreamError
		malformed  *services.MalformedResponseError
		mismatch   *services.SchemaMismatchError
	)

	switch {
	case errors.Is(err, services.ErrUnsupportedType):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.As(err, &extraction):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "could not read text from the uploaded document",
			"details": extraction.Error(),
		})
	case errors.As(err, &malformed):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to parse AI response",
			"details": malformed.Cause.Error(),
			"raw":     malformed.Cleaned,
		})
	case errors.As(err, &mismatch):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "AI response has an unexpected shape",
			"details": strings.Join(mismatch.Problems, "; "),
			"raw":     mismatch.Cleaned,
		})
	case errors.As(err, &upstream):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   message,
			"details": upstream.Error(),
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrIndexDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   message,
			"details": err.Error(),
		})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}
