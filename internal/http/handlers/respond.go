package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"hostelmart/internal/domain"
	applog "hostelmart/internal/log"
)

// fail maps the engine's error taxonomy onto HTTP statuses. Validation
// errors come back verbatim; state conflicts as 409 so the caller can
// refresh and retry; everything unexpected is a friendly 500.
func fail(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrListingUnavailable),
		errors.Is(err, domain.ErrMixedDeliveryZone),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, domain.ErrCartEmpty):
		applog.Security(c, action, map[string]any{"reason": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrAlreadyVerified),
		errors.Is(err, domain.ErrAlreadyReviewed),
		errors.Is(err, domain.ErrNotCompleted),
		errors.Is(err, domain.ErrAmountMismatch):
		applog.Security(c, action, map[string]any{"reason": err.Error()})
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, domain.ErrPaymentNotVerified):
		// Trust error: never echo details back.
		applog.Security(c, action, nil)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "payment verification failed"})

	case errors.Is(err, sql.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})

	default:
		applog.Error(c, action, err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong, please try again"})
	}
}
