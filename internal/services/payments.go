package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/arnold/visionboard-api/internal/metrics"
	"github.com/arnold/visionboard-api/internal/models"
	"github.com/arnold/visionboard-api/internal/payment"
	"github.com/arnold/visionboard-api/internal/store"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// ChargeRepository stores provider charges. *store.Charges implements it.
type ChargeRepository interface {
	Save(ctx context.Context, ch *models.Charge) error
	Get(ctx context.Context, id string) (*models.Charge, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// PaymentEvents is told about every submission whose payment completed.
type PaymentEvents interface {
	PaymentCompleted(submissionID uuid.UUID)
}

type PaymentConfig struct {
	AmountCents int64
	Description string
	Timeout     time.Duration
}

// PaymentService creates charges and reconciles payment status from the
// client poll and the provider webhook. Both paths end in the same
// conditional store update, so whichever signal arrives first wins and the
// other is a no-op.
type PaymentService struct {
	subs     SubmissionRepository
	charges  ChargeRepository
	provider payment.Provider
	events   PaymentEvents
	cfg      PaymentConfig
	now      func() time.Time

	inflight singleflight.Group
}

func NewPaymentService(subs SubmissionRepository, charges ChargeRepository, provider payment.Provider, events PaymentEvents, cfg PaymentConfig) *PaymentService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &PaymentService{
		subs:     subs,
		charges:  charges,
		provider: provider,
		events:   events,
		cfg:      cfg,
		now:      time.Now,
	}
}

// CreateCharge returns the submission's open charge or creates a new one.
// A pending charge that has not expired is reused; otherwise a new charge
// replaces the submission's paymentId. Concurrent requests for the same
// submission share one provider call.
func (s *PaymentService) CreateCharge(ctx context.Context, submissionID string) (*models.Charge, error) {
	uid, err := uuid.Parse(submissionID)
	if err != nil {
		return nil, fmt.Errorf("submission %q: %w", submissionID, ErrNotFound)
	}

	v, err, _ := s.inflight.Do(uid.String(), func() (any, error) {
		return s.createCharge(ctx, uid)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Charge), nil
}

func (s *PaymentService) createCharge(ctx context.Context, id uuid.UUID) (*models.Charge, error) {
	sub, err := s.subs.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if sub.PaymentStatus == models.PaymentCompleted {
		return nil, ErrAlreadyPaid
	}

	if ch := s.openCharge(ctx, sub); ch != nil {
		metrics.RecordCharge("reused")
		return ch, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	pc, err := s.provider.CreateCharge(callCtx, s.cfg.AmountCents, s.cfg.Description, id.String())
	if err != nil {
		metrics.RecordCharge("error")
		log.Printf("Payment: charge for submission %s failed: %v", id, err)
		return nil, fmt.Errorf("create charge: %w", err)
	}

	ch := &models.Charge{
		ID:             pc.ID,
		SubmissionID:   id,
		AmountCents:    s.cfg.AmountCents,
		BRCode:         pc.BRCode,
		BRCodeBase64:   pc.BRCodeBase64,
		ProviderStatus: pc.Status,
		ExpiresAt:      pc.ExpiresAt,
	}
	if err := s.charges.Save(ctx, ch); err != nil {
		return nil, err
	}

	attached, err := s.subs.AttachCharge(ctx, id, ch.ID, ch.AmountCents)
	if err != nil {
		return nil, err
	}
	if !attached {
		// Paid through an earlier charge while this one was being created.
		return nil, ErrAlreadyPaid
	}

	metrics.RecordCharge("created")
	log.Printf("Payment: charge %s created for submission %s", ch.ID, id)
	return ch, nil
}

// openCharge returns the submission's current charge if it can still be
// paid.
func (s *PaymentService) openCharge(ctx context.Context, sub *models.Submission) *models.Charge {
	if sub.PaymentID == nil || sub.PaymentStatus != models.PaymentPending {
		return nil
	}
	ch, err := s.charges.Get(ctx, *sub.PaymentID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Payment: load charge %s: %v", *sub.PaymentID, err)
		}
		return nil
	}
	if _, decided := payment.Target(ch.ProviderStatus); decided || !ch.Usable(s.now()) {
		return nil
	}
	return ch
}

// CheckStatus asks the provider for a charge's status and applies it.
func (s *PaymentService) CheckStatus(ctx context.Context, paymentID string) (*payment.Status, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, invalid("paymentId is required")
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	st, err := s.provider.CheckStatus(callCtx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("check payment status: %w", err)
	}

	if err := s.apply(ctx, "poll", store.PaymentMatch{PaymentID: paymentID}, st.Status); err != nil {
		return nil, err
	}
	return st, nil
}

// HandleWebhook applies a provider callback. The callback matches the
// submission holding hook.ID as its paymentId, or the submission whose id
// is hook.ExternalID.
func (s *PaymentService) HandleWebhook(ctx context.Context, hook models.PaymentWebhook) error {
	hook.ID = strings.TrimSpace(hook.ID)
	hook.Status = strings.TrimSpace(hook.Status)
	if err := Validate(hook); err != nil {
		return err
	}

	match := store.PaymentMatch{PaymentID: hook.ID}
	if uid, err := uuid.Parse(hook.ExternalID); err == nil {
		match.SubmissionID = &uid
	}
	return s.apply(ctx, "webhook", match, hook.Status)
}

func (s *PaymentService) apply(ctx context.Context, source string, match store.PaymentMatch, providerStatus string) error {
	if match.PaymentID != "" {
		if err := s.charges.UpdateStatus(ctx, match.PaymentID, providerStatus); err != nil {
			log.Printf("Payment: record status of charge %s: %v", match.PaymentID, err)
		}
	}

	target, ok := payment.Target(providerStatus)
	if !ok {
		return nil
	}

	changed, err := s.subs.SetPaymentStatus(ctx, match, target)
	metrics.RecordPaymentSignal(source, string(target), len(changed) > 0)
	for _, id := range changed {
		log.Printf("Payment: submission %s is now %s (%s)", id, target, source)
		if target == models.PaymentCompleted && s.events != nil {
			s.events.PaymentCompleted(id)
		}
	}
	if err != nil {
		return fmt.Errorf("apply %s signal: %w", source, err)
	}
	return nil
}
