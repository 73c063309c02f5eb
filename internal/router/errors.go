package router

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/Nana-Caring/Backend--sub002/internal/apperr"
	"github.com/Nana-Caring/Backend--sub002/internal/orders"
)

// ErrorHandler maps engine errors to the structured failure payload. Engines
// roll back before surfacing, so by the time an error reaches here no partial
// mutation exists. Internal row identifiers never leak into responses.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"success": false,
			"message": fiberErr.Message,
		})
	}

	var insufficient *apperr.InsufficientFundsError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":   false,
			"message":   "insufficient funds",
			"required":  insufficient.Required,
			"available": insufficient.Available,
			"shortfall": insufficient.Shortfall,
		})
	}

	var underfunded *apperr.UnderfundedError
	if errors.As(err, &underfunded) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":    false,
			"message":    "one or more categories are underfunded",
			"categories": underfunded.Categories,
		})
	}

	var unavailable *orders.UnavailableError
	if errors.As(err, &unavailable) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":           false,
			"message":           "no purchasable items in cart",
			"unavailable_items": unavailable.Items,
		})
	}

	code := apperr.StatusCode(err)
	message := err.Error()
	if code == fiber.StatusInternalServerError {
		slog.Error("unhandled request error", "path", c.Path(), "error", err)
		message = "internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
