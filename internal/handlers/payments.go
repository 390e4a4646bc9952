package handlers

import (
	"github.com/arnold/visionboard-api/internal/models"
	"github.com/arnold/visionboard-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

// CreatePaymentQR returns the PIX code the payer scans. The amount is
// always the configured price; clients cannot choose it.
func (h *Handler) CreatePaymentQR(c *fiber.Ctx) error {
	var req models.CreateChargeRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if err := services.Validate(req); err != nil {
		return fail(c, err, "")
	}

	ch, err := h.payments.CreateCharge(c.UserContext(), req.SubmissionID)
	if err != nil {
		return fail(c, err, "Failed to create payment")
	}
	return c.JSON(models.ChargeResponse{
		QRCode:       ch.BRCode,
		QRCodeBase64: ch.BRCodeBase64,
		Amount:       ch.AmountCents,
		ExpiresAt:    ch.ExpiresAt,
		PaymentID:    ch.ID,
	})
}

func (h *Handler) PaymentStatus(c *fiber.Ctx) error {
	st, err := h.payments.CheckStatus(c.UserContext(), c.Query("paymentId"))
	if err != nil {
		return fail(c, err, "Failed to check payment status")
	}
	return c.JSON(st)
}

func (h *Handler) PaymentWebhook(c *fiber.Ctx) error {
	var hook models.PaymentWebhook
	if err := c.BodyParser(&hook); err != nil {
		return badBody(c)
	}

	if err := h.payments.HandleWebhook(c.UserContext(), hook); err != nil {
		return fail(c, err, "Webhook processing failed")
	}
	return c.JSON(fiber.Map{
		"received": true,
	})
}
