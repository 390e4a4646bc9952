package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// SendScheduledEmails runs one delivery sweep. Routes guard it with the
// cron secret.
func (h *Handler) SendScheduledEmails(c *fiber.Ctx) error {
	result, err := h.sweeper.Run(c.UserContext())
	if err != nil {
		return fail(c, err, "Failed to send scheduled emails")
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"date":         result.Date,
		"sent":         result.Sent,
		"failed":       result.Failed,
		"sentEmails":   result.SentEmails,
		"failedEmails": result.FailedEmails,
	})
}
