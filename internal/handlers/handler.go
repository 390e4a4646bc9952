package handlers

import (
	"github.com/arnold/visionboard-api/internal/blobstore"
	"github.com/arnold/visionboard-api/internal/services"
)

// Handler serves the HTTP API on top of the services.
type Handler struct {
	drafts      *services.DraftService
	submissions *services.SubmissionService
	payments    *services.PaymentService
	sweeper     *services.Sweeper
	blobs       blobstore.Store
	hub         *PaymentHub
}

type Deps struct {
	Drafts      *services.DraftService
	Submissions *services.SubmissionService
	Payments    *services.PaymentService
	Sweeper     *services.Sweeper
	Blobs       blobstore.Store
	Hub         *PaymentHub
}

func New(d Deps) *Handler {
	hub := d.Hub
	if hub == nil {
		hub = NewPaymentHub()
	}
	return &Handler{
		drafts:      d.Drafts,
		submissions: d.Submissions,
		payments:    d.Payments,
		sweeper:     d.Sweeper,
		blobs:       d.Blobs,
		hub:         hub,
	}
}
