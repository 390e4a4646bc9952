package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/arnold/visionboard-api/internal/board"
	"github.com/arnold/visionboard-api/internal/metrics"
	"github.com/arnold/visionboard-api/internal/models"
	"github.com/arnold/visionboard-api/internal/store"
	"github.com/google/uuid"
)

// SubmissionRepository is the persistence the submission lifecycle needs.
// *store.Submissions implements it.
type SubmissionRepository interface {
	Insert(ctx context.Context, sub *models.Submission) error
	Get(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	AttachCharge(ctx context.Context, id uuid.UUID, paymentID string, amountCents int64) (bool, error)
	SetPaymentStatus(ctx context.Context, m store.PaymentMatch, target models.PaymentStatus) ([]uuid.UUID, error)
	ListDue(ctx context.Context, today string, limit int) ([]models.Submission, error)
	MarkEmailSent(ctx context.Context, id uuid.UUID, today string, at time.Time) (bool, error)
}

type SubmissionService struct {
	subs   SubmissionRepository
	drafts board.DraftRepository
	now    func() time.Time
}

func NewSubmissionService(subs SubmissionRepository, drafts board.DraftRepository, now func() time.Time) *SubmissionService {
	if now == nil {
		now = time.Now
	}
	return &SubmissionService{subs: subs, drafts: drafts, now: now}
}

// Submit snapshots a board and stores it as a pending submission scheduled
// for delivery one year from now. The board comes from req.GoalsData or,
// when DraftID is set, from the saved draft.
func (s *SubmissionService) Submit(ctx context.Context, req models.CreateSubmissionRequest) (*models.Submission, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := Validate(req); err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := checkSnapshot(snap); err != nil {
		return nil, err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode goals data: %w", err)
	}

	now := s.now()
	sub := &models.Submission{
		ID:                uuid.New(),
		Email:             req.Email,
		GoalsData:         data,
		CreatedAt:         now,
		PaymentStatus:     models.PaymentPending,
		ScheduledSendDate: models.ScheduledSendDate(now),
	}
	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			sub.Name = &name
		}
	}

	if err := s.subs.Insert(ctx, sub); err != nil {
		return nil, err
	}

	format := "kanban"
	if _, ok := snap.(*models.CanvasData); ok {
		format = "canvas"
	}
	metrics.RecordSubmission(format)
	log.Printf("Submission: %s created (%s, %d items), send on %s", sub.ID, format, snap.ItemCount(), sub.ScheduledSendDate)
	return sub, nil
}

func (s *SubmissionService) Get(ctx context.Context, id string) (*models.Submission, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("submission %q: %w", id, ErrNotFound)
	}
	sub, err := s.subs.Get(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	return sub, err
}

func (s *SubmissionService) snapshot(ctx context.Context, req models.CreateSubmissionRequest) (models.Snapshot, error) {
	if req.DraftID != "" {
		d, err := board.LoadDraft(ctx, s.drafts, req.DraftID)
		if errors.Is(err, board.ErrDraftNotFound) {
			return nil, fmt.Errorf("draft %s: %w: %w", req.DraftID, board.ErrDraftNotFound, ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
		data := d.Board.Data()
		return &data, nil
	}

	raw := strings.TrimSpace(string(req.GoalsData))
	if raw == "" || raw == "null" {
		return nil, invalid("goalsData is required")
	}
	snap, err := models.DecodeSnapshot(req.GoalsData)
	if err != nil {
		return nil, invalid("goalsData is invalid: %v", err)
	}
	return snap, nil
}

// checkSnapshot rejects empty boards and items a board could never hold.
func checkSnapshot(snap models.Snapshot) error {
	if snap.ItemCount() == 0 {
		return invalid("Goals data must contain at least one item")
	}

	switch s := snap.(type) {
	case *models.KanbanData:
		for i, g := range s.Goals {
			if strings.TrimSpace(g.Title) == "" {
				return invalid("goal %d: title is required", i)
			}
			if !g.Category.Valid() {
				return invalid("goal %d: invalid category %q", i, g.Category)
			}
		}
	case *models.CanvasData:
		for i, el := range s.Elements {
			switch e := el.(type) {
			case *models.ImageElement:
				if e.URL == "" {
					return invalid("element %d: image url is required", i)
				}
			case *models.TextElement:
				if strings.TrimSpace(e.Content) == "" {
					return invalid("element %d: text content is required", i)
				}
			default:
				return invalid("element %d: %v", i, models.ErrUnknownElement)
			}
		}
	default:
		return invalid("%v", models.ErrUnknownSnapshot)
	}
	return nil
}
