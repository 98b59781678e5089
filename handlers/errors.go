package handlers

import (
	"errors"

	"freelance-marketplace/apperrors"
	"freelance-marketplace/database"
	"freelance-marketplace/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error a route returns as {"error": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	var ae *apperrors.AppError
	switch {
	case errors.As(err, &ae):
		return c.Status(ae.Code).JSON(fiber.Map{"error": ae.Message})
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	case database.IsStoreError(err):
		logger.Error().Err(err).Str("path", c.Path()).Msg("store failure")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "document store unavailable",
		})
	default:
		logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}

func currentUser(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.BadRequest("invalid JSON: " + err.Error())
	}
	return nil
}
