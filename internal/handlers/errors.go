package handlers

import (
	"errors"
	"log"

	"github.com/arnold/visionboard-api/internal/board"
	"github.com/arnold/visionboard-api/internal/payment"
	"github.com/arnold/visionboard-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

// fail writes err as a JSON error body with the matching status code.
// Unexpected errors are logged and reported as fallback.
func fail(c *fiber.Ctx, err error, fallback string) error {
	status, msg := classify(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
		msg = fallback
	}
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

func classify(err error) (int, string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, verr.Message
	case errors.Is(err, board.ErrTitleRequired),
		errors.Is(err, board.ErrInvalidCategory),
		errors.Is(err, board.ErrInvalidOrder),
		errors.Is(err, board.ErrInvalidDisplay):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, board.ErrGoalNotFound):
		return fiber.StatusNotFound, "Goal not found"
	case errors.Is(err, board.ErrDraftNotFound):
		return fiber.StatusNotFound, "Draft not found"
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, "Submission not found"
	case errors.Is(err, board.ErrDraftConflict):
		return fiber.StatusConflict, "Draft was changed by another request, reload and retry"
	case errors.Is(err, services.ErrAlreadyPaid):
		return fiber.StatusConflict, "Submission is already paid"
	case errors.Is(err, services.ErrSweepInProgress):
		return fiber.StatusConflict, "A sweep is already running"
	case errors.Is(err, payment.ErrUpstream), errors.Is(err, payment.ErrMalformedCharge):
		return fiber.StatusBadGateway, "Payment provider unavailable"
	default:
		return fiber.StatusInternalServerError, ""
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request body",
	})
}
