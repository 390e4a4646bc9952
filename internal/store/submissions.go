// Package store persists submissions, charges and drafts through gorm.
// Every status change is a single conditional UPDATE so concurrent writers
// cannot interleave into an inconsistent row.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arnold/visionboard-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// transitions lists, for each target status, the statuses a provider signal
// may move a submission from. Only a pending charge is ever decided; a
// failed or expired submission goes back to pending through AttachCharge.
var transitions = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentCompleted: {models.PaymentPending},
	models.PaymentFailed:    {models.PaymentPending},
	models.PaymentExpired:   {models.PaymentPending},
}

// PaymentMatch selects the submissions a payment signal refers to: those
// holding PaymentID, or the one whose id is SubmissionID.
type PaymentMatch struct {
	PaymentID    string
	SubmissionID *uuid.UUID
}

type Submissions struct {
	db *gorm.DB
}

func NewSubmissions(db *gorm.DB) *Submissions {
	return &Submissions{db: db}
}

func (s *Submissions) Insert(ctx context.Context, sub *models.Submission) error {
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *Submissions) Get(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.WithContext(ctx).First(&sub, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return &sub, nil
}

// AttachCharge records a new provider charge on a submission and puts it
// back to pending. It reports false when the submission is already
// completed, in which case nothing is written.
func (s *Submissions) AttachCharge(ctx context.Context, id uuid.UUID, paymentID string, amountCents int64) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ? AND payment_status <> ?", id, models.PaymentCompleted).
		Updates(map[string]any{
			"payment_id":     paymentID,
			"payment_amount": amountCents,
			"payment_status": models.PaymentPending,
		})
	if res.Error != nil {
		return false, fmt.Errorf("attach charge: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// SetPaymentStatus moves every submission matched by m to target when the
// transition is allowed, and returns the ids that actually changed. Repeated
// signals change nothing and return no ids.
func (s *Submissions) SetPaymentStatus(ctx context.Context, m PaymentMatch, target models.PaymentStatus) ([]uuid.UUID, error) {
	from, ok := transitions[target]
	if !ok {
		return nil, fmt.Errorf("set payment status: %q is not a signal target", target)
	}

	q := s.db.WithContext(ctx).Model(&models.Submission{})
	switch {
	case m.PaymentID != "" && m.SubmissionID != nil:
		q = q.Where("payment_id = ? OR id = ?", m.PaymentID, *m.SubmissionID)
	case m.PaymentID != "":
		q = q.Where("payment_id = ?", m.PaymentID)
	case m.SubmissionID != nil:
		q = q.Where("id = ?", *m.SubmissionID)
	default:
		return nil, nil
	}

	var ids []uuid.UUID
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("match payment: %w", err)
	}

	var changed []uuid.UUID
	for _, id := range ids {
		res := s.db.WithContext(ctx).
			Model(&models.Submission{}).
			Where("id = ? AND payment_status IN ?", id, from).
			Update("payment_status", target)
		if res.Error != nil {
			return changed, fmt.Errorf("set payment status: %w", res.Error)
		}
		if res.RowsAffected == 1 {
			changed = append(changed, id)
		}
	}
	return changed, nil
}

// ListDue returns at most limit paid, unsent submissions whose scheduled
// date is on or before today, oldest first.
func (s *Submissions) ListDue(ctx context.Context, today string, limit int) ([]models.Submission, error) {
	var subs []models.Submission
	err := s.db.WithContext(ctx).
		Where("payment_status = ? AND email_sent = ? AND scheduled_send_date <= ?", models.PaymentCompleted, false, today).
		Order("scheduled_send_date ASC, created_at ASC").
		Limit(limit).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("list due submissions: %w", err)
	}
	return subs, nil
}

// MarkEmailSent flags a delivered submission. The update only applies while
// the submission is still eligible, so it reports false for a row another
// sweep already marked.
func (s *Submissions) MarkEmailSent(ctx context.Context, id uuid.UUID, today string, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ? AND payment_status = ? AND email_sent = ? AND scheduled_send_date <= ?",
			id, models.PaymentCompleted, false, today).
		Updates(map[string]any{
			"email_sent":    true,
			"email_sent_at": at,
		})
	if res.Error != nil {
		return false, fmt.Errorf("mark email sent: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
