package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CronAuth guards the scheduled sweep endpoint with a shared bearer secret.
// An empty secret refuses every request.
func CronAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if secret == "" || token == authHeader || !equal(token, secret) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		return c.Next()
	}
}

// WebhookSignature checks the shared secret the payment provider sends
// with its callbacks, either as the X-Webhook-Signature header or the
// webhookSecret query parameter. Nothing is checked when secret is empty.
func WebhookSignature(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		got := c.Get("X-Webhook-Signature")
		if got == "" {
			got = c.Query("webhookSecret")
		}
		if !equal(got, secret) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid webhook signature",
			})
		}
		return c.Next()
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
