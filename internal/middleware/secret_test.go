package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guarded(h fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/", h, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func statusOf(t *testing.T, app *fiber.App, target string, headers map[string]string) int {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestCronAuth(t *testing.T) {
	app := guarded(CronAuth("s3cret"))

	assert.Equal(t, 204, statusOf(t, app, "/", map[string]string{"Authorization": "Bearer s3cret"}))
	assert.Equal(t, 401, statusOf(t, app, "/", map[string]string{"Authorization": "Bearer wrong"}))
	assert.Equal(t, 401, statusOf(t, app, "/", map[string]string{"Authorization": "s3cret"}))
	assert.Equal(t, 401, statusOf(t, app, "/", nil))
}

func TestCronAuthWithoutSecretRefusesEverything(t *testing.T) {
	app := guarded(CronAuth(""))

	assert.Equal(t, 401, statusOf(t, app, "/", map[string]string{"Authorization": "Bearer "}))
	assert.Equal(t, 401, statusOf(t, app, "/", nil))
}

func TestWebhookSignature(t *testing.T) {
	app := guarded(WebhookSignature("hook"))

	assert.Equal(t, 204, statusOf(t, app, "/", map[string]string{"X-Webhook-Signature": "hook"}))
	assert.Equal(t, 204, statusOf(t, app, "/?webhookSecret=hook", nil))
	assert.Equal(t, 401, statusOf(t, app, "/?webhookSecret=nope", nil))
	assert.Equal(t, 401, statusOf(t, app, "/", nil))

	open := guarded(WebhookSignature(""))
	assert.Equal(t, 204, statusOf(t, open, "/", nil))
}
