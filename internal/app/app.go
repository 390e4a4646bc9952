// Package app assembles the service from configuration.
package app

import (
	"context"
	"log"

	firebase "firebase.google.com/go/v4"
	"github.com/arnold/visionboard-api/internal/blobstore"
	"github.com/arnold/visionboard-api/internal/config"
	"github.com/arnold/visionboard-api/internal/exporter"
	"github.com/arnold/visionboard-api/internal/handlers"
	"github.com/arnold/visionboard-api/internal/mailer"
	"github.com/arnold/visionboard-api/internal/payment"
	"github.com/arnold/visionboard-api/internal/routes"
	"github.com/arnold/visionboard-api/internal/services"
	"github.com/arnold/visionboard-api/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// App holds the wired services. Server builds the HTTP front end on top.
type App struct {
	cfg      *config.Config
	localDir string

	Drafts      *services.DraftService
	Submissions *services.SubmissionService
	Payments    *services.PaymentService
	Sweeper     *services.Sweeper
	Blobs       blobstore.Store
	Hub         *handlers.PaymentHub
}

// Build wires every service against db. Firebase Storage holds images when
// credentials and a bucket are configured; otherwise they go to the local
// uploads directory.
func Build(ctx context.Context, cfg *config.Config, db *gorm.DB) (*App, error) {
	fb, err := services.InitFirebase(ctx, cfg.FirebaseCredentials, cfg.FirebaseStorageBucket)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, Hub: handlers.NewPaymentHub()}
	if a.Blobs, err = blobs(ctx, cfg, fb); err != nil {
		return nil, err
	}
	if _, ok := a.Blobs.(*blobstore.Local); ok {
		a.localDir = cfg.UploadsDir
	}

	subs := store.NewSubmissions(db)
	drafts := store.NewDrafts(db)

	a.Drafts = services.NewDraftService(drafts)
	a.Submissions = services.NewSubmissionService(subs, drafts, nil)
	a.Payments = services.NewPaymentService(subs, store.NewCharges(db),
		payment.NewAbacatePay(cfg.AbacatePayURL, cfg.AbacatePayAPIKey, cfg.ExternalTimeout),
		a.Hub,
		services.PaymentConfig{
			AmountCents: cfg.PaymentAmountCents,
			Description: cfg.PaymentDescription,
			Timeout:     cfg.ExternalTimeout,
		})
	a.Sweeper = services.NewSweeper(subs,
		exporter.NewPNG(exporter.HTTPFetcher{Timeout: cfg.ExternalTimeout}),
		a.Blobs,
		mailer.NewResend(cfg.ResendURL, cfg.ResendAPIKey, cfg.ResendFromEmail, cfg.ExternalTimeout),
		services.NewPushNotifier(ctx, fb, cfg.FCMOpsTopic),
		services.SweepConfig{
			BatchSize:   cfg.SweepBatchSize,
			Concurrency: cfg.SweepConcurrency,
			Timeout:     cfg.ExternalTimeout,
		})
	return a, nil
}

func blobs(ctx context.Context, cfg *config.Config, fb *firebase.App) (blobstore.Store, error) {
	if fb != nil && cfg.FirebaseStorageBucket != "" {
		log.Printf("Storage: Firebase bucket %s", cfg.FirebaseStorageBucket)
		return blobstore.NewFirebase(ctx, fb, cfg.FirebaseStorageBucket)
	}
	log.Printf("Storage: local directory %s", cfg.UploadsDir)
	return blobstore.NewLocal(cfg.UploadsDir, cfg.PublicBaseURL), nil
}

// Server returns the fiber app serving the whole HTTP API.
func (a *App) Server() *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:   "visionboard-api",
		BodyLimit: handlers.MaxUploadSize + 1<<20,
	})
	server.Use(recover.New())
	server.Use(logger.New())

	routes.Setup(server, handlers.New(handlers.Deps{
		Drafts:      a.Drafts,
		Submissions: a.Submissions,
		Payments:    a.Payments,
		Sweeper:     a.Sweeper,
		Blobs:       a.Blobs,
		Hub:         a.Hub,
	}), routes.Options{
		CronSecret:    a.cfg.CronSecret,
		WebhookSecret: a.cfg.AbacatePayWebhookSecret,
		UploadsDir:    a.localDir,
	})
	return server
}
