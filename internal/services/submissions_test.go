package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/arnold/visionboard-api/internal/board"
	"github.com/arnold/visionboard-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var submitTime = time.Date(2025, 10, 16, 14, 30, 0, 0, time.UTC)

func newSubmissionService(f *fixture) *SubmissionService {
	return NewSubmissionService(f.subs, f.drafts, func() time.Time { return submitTime })
}

func kanbanJSON(t *testing.T, goals ...models.Goal) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(models.KanbanData{Version: models.KanbanVersion, Goals: goals})
	require.NoError(t, err)
	return raw
}

func TestSubmitScenario(t *testing.T) {
	f := newFixture(t)
	svc := newSubmissionService(f)

	goal := models.Goal{ID: "g1", Title: "Run a marathon", Category: models.CategoryHealth, Icon: "heart", Order: 0}
	sub, err := svc.Submit(context.Background(), models.CreateSubmissionRequest{
		Email:     "a@example.com",
		GoalsData: kanbanJSON(t, goal),
	})
	require.NoError(t, err)

	stored, err := f.subs.Get(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, stored.PaymentStatus)
	assert.Equal(t, "2026-10-16", stored.ScheduledSendDate)
	assert.False(t, stored.EmailSent)
	assert.Nil(t, stored.EmailSentAt)
	assert.Nil(t, stored.PaymentID)
	assert.Nil(t, stored.Name)

	snap, err := stored.Snapshot()
	require.NoError(t, err)
	kanban, ok := snap.(*models.KanbanData)
	require.True(t, ok)
	require.Len(t, kanban.Goals, 1)
	assert.Equal(t, goal.ID, kanban.Goals[0].ID)
	assert.Equal(t, goal.Category, kanban.Goals[0].Category)
	assert.Equal(t, goal.Order, kanban.Goals[0].Order)
	assert.Equal(t, goal.Icon, kanban.Goals[0].Icon)
}

func TestSubmitKeepsName(t *testing.T) {
	f := newFixture(t)
	name := "  Ana  "
	sub, err := newSubmissionService(f).Submit(context.Background(), models.CreateSubmissionRequest{
		Email:     " ana@example.com ",
		Name:      &name,
		GoalsData: kanbanJSON(t, models.Goal{ID: "g", Title: "x", Category: models.CategoryOther}),
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", sub.Email)
	require.NotNil(t, sub.Name)
	assert.Equal(t, "Ana", *sub.Name)
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	svc := newSubmissionService(f)
	oneGoal := kanbanJSON(t, models.Goal{ID: "g", Title: "x", Category: models.CategoryHealth})

	tests := map[string]models.CreateSubmissionRequest{
		"missing email":   {GoalsData: oneGoal},
		"malformed email": {Email: "not-an-email", GoalsData: oneGoal},
		"missing board":   {Email: "a@example.com"},
		"null board":      {Email: "a@example.com", GoalsData: json.RawMessage(`null`)},
		"empty kanban":    {Email: "a@example.com", GoalsData: kanbanJSON(t)},
		"empty canvas":    {Email: "a@example.com", GoalsData: json.RawMessage(`{"version":"1.0","canvas":{"width":10,"height":10},"elements":[]}`)},
		"unknown shape":   {Email: "a@example.com", GoalsData: json.RawMessage(`{"foo":1}`)},
		"blank title":     {Email: "a@example.com", GoalsData: kanbanJSON(t, models.Goal{ID: "g", Title: " ", Category: models.CategoryHealth})},
		"bad category":    {Email: "a@example.com", GoalsData: kanbanJSON(t, models.Goal{ID: "g", Title: "x", Category: "sports"})},
		"unknown element": {Email: "a@example.com", GoalsData: json.RawMessage(`{"version":"1.0","elements":[{"id":"e","type":"video"}]}`)},
		"bad draft id":    {Email: "a@example.com", DraftID: "nope"},
	}

	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), req)
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr), "got %v", err)
		})
	}

	due, err := f.subs.ListDue(context.Background(), "9999-12-31", 100)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestSubmitCanvasBoard(t *testing.T) {
	f := newFixture(t)
	raw := json.RawMessage(`{
		"version": "1.0",
		"canvas": {"width": 800, "height": 600, "backgroundColor": "#fff"},
		"elements": [
			{"id": "i1", "type": "image", "position": {"x": 10, "y": 20}, "url": "https://cdn/x.png", "size": {"width": 100, "height": 80}, "zIndex": 1},
			{"id": "t1", "type": "text", "position": {"x": 5, "y": 5}, "content": "Viajar mais", "style": {"color": "#333"}}
		],
		"categories": ["travel"]
	}`)

	sub, err := newSubmissionService(f).Submit(context.Background(), models.CreateSubmissionRequest{Email: "c@example.com", GoalsData: raw})
	require.NoError(t, err)

	snap, err := sub.Snapshot()
	require.NoError(t, err)
	canvas, ok := snap.(*models.CanvasData)
	require.True(t, ok)
	require.Len(t, canvas.Elements, 2)
	img, ok := canvas.Elements[0].(*models.ImageElement)
	require.True(t, ok)
	assert.Equal(t, "https://cdn/x.png", img.URL)
	assert.Equal(t, 1, img.ZIndex)
}

func TestSubmitFromDraftSnapshotsTheBoard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newSubmissionService(f)
	drafts := NewDraftService(f.drafts)

	d, err := drafts.Create(ctx)
	require.NoError(t, err)
	_, err = drafts.Edit(ctx, d.ID, func(b *board.Store) error {
		_, err := b.AddGoal(board.NewGoal{Title: "Learn guitar", Category: models.CategoryCreative})
		return err
	})
	require.NoError(t, err)

	sub, err := svc.Submit(ctx, models.CreateSubmissionRequest{Email: "d@example.com", DraftID: d.ID})
	require.NoError(t, err)

	_, err = drafts.Edit(ctx, d.ID, func(b *board.Store) error {
		b.ClearAll()
		return nil
	})
	require.NoError(t, err)

	stored, err := f.subs.Get(ctx, sub.ID)
	require.NoError(t, err)
	snap, err := stored.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 1, snap.ItemCount(), "later draft edits do not touch the submission")
}

func TestSubmitFromEmptyOrMissingDraft(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newSubmissionService(f)

	d, err := NewDraftService(f.drafts).Create(ctx)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, models.CreateSubmissionRequest{Email: "d@example.com", DraftID: d.ID})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = svc.Submit(ctx, models.CreateSubmissionRequest{Email: "d@example.com", DraftID: "7a0d8c52-1f9e-4c7e-9d55-3f1c1b2a9e10"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetSubmission(t *testing.T) {
	f := newFixture(t)
	svc := newSubmissionService(f)
	seeded := f.seed(t, "a@example.com", "2026-01-01", models.PaymentPending)

	got, err := svc.Get(context.Background(), seeded.ID.String())
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, got.ID)

	_, err = svc.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(context.Background(), "7a0d8c52-1f9e-4c7e-9d55-3f1c1b2a9e10")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	err := Validate(models.CreateChargeRequest{})
	require.Error(t, err)
	assert.Equal(t, "submissionId is required", err.Error())

	err = Validate(models.CreateChargeRequest{SubmissionID: "x"})
	assert.Equal(t, "submissionId must be a valid id", err.Error())
}
