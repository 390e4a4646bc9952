package routes

import (
	"github.com/arnold/visionboard-api/internal/handlers"
	"github.com/arnold/visionboard-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	CronSecret    string
	WebhookSecret string
	// UploadsDir is served at /uploads when set.
	UploadsDir string
}

func Setup(app *fiber.App, h *handlers.Handler, opts Options) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	if opts.UploadsDir != "" {
		app.Static("/uploads", opts.UploadsDir)
	}

	api := app.Group("/api")

	drafts := api.Group("/drafts")
	drafts.Post("/", h.CreateDraft)
	drafts.Get("/:id", h.GetDraft)
	drafts.Delete("/:id/goals", h.ClearDraft)
	drafts.Post("/:id/goals", h.AddGoal)
	drafts.Put("/:id/goals/:goalId", h.UpdateGoal)
	drafts.Delete("/:id/goals/:goalId", h.DeleteGoal)
	drafts.Post("/:id/goals/:goalId/move", h.MoveGoal)
	drafts.Post("/:id/goals/:goalId/reorder", h.ReorderGoal)

	api.Post("/upload", h.UploadImage)

	api.Post("/submissions", h.CreateSubmission)
	api.Get("/submissions/:id", h.GetSubmission)

	api.Post("/payment/create-qr", h.CreatePaymentQR)
	api.Get("/payment/status", h.PaymentStatus)
	api.Post("/webhooks/abacate-pay", middleware.WebhookSignature(opts.WebhookSecret), h.PaymentWebhook)

	cron := middleware.CronAuth(opts.CronSecret)
	api.Get("/cron/send-emails", cron, h.SendScheduledEmails)
	api.Post("/cron/send-emails", cron, h.SendScheduledEmails)

	app.Get("/ws/submissions/:id", handlers.WebSocketUpgrade(), websocket.New(h.PaymentSocket))
}
