package handlers

import (
	"errors"

	"github.com/bluestock/ipotrack/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// respondError maps a service error category to an HTTP status. Unclassified
// errors surface as a generic failure message; the detail is only logged.
func respondError(c *fiber.Ctx, err error) error {
	var serviceErr *shared.ServiceError
	if errors.As(err, &serviceErr) {
		status := fiber.StatusInternalServerError
		switch serviceErr.Category {
		case shared.ErrorCategoryValidation:
			status = fiber.StatusBadRequest
		case shared.ErrorCategoryNotFound:
			status = fiber.StatusNotFound
		case shared.ErrorCategoryConflict:
			status = fiber.StatusConflict
		case shared.ErrorCategoryAuthorization:
			status = fiber.StatusForbidden
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   serviceErr.Message,
		})
	}

	logrus.WithError(err).Error("Unhandled service error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "Something went wrong, please try again later",
	})
}

func respondNotFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func respondBadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func respondData(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}
