package handlers

import (
	"errors"

	"celenk/internal/repositories"
	"celenk/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// statusFor maps service and repository errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrUnsupportedImage):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repositories.ErrConflict),
		errors.Is(err, services.ErrDuplicatePricing),
		errors.Is(err, services.ErrPaidOrderDelete),
		errors.Is(err, services.ErrOrderAlreadyPaid):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrOrderDateBlocked):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrPaymentGateway):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// respondError writes the {"message", "error"} body, adding "errors" for
// validation failures. Server-side failures are logged.
func respondError(c *fiber.Ctx, logger *zap.Logger, message string, err error) error {
	status := statusFor(err)
	body := fiber.Map{
		"message": message,
		"error":   err.Error(),
	}

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		body["message"] = "Validation failed"
		body["errors"] = verr.Fields
	}
	if status >= fiber.StatusInternalServerError {
		logger.Error(message, zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
