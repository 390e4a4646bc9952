package services

import (
	"context"

	"github.com/arnold/visionboard-api/internal/board"
)

// DraftService applies goal edits to server-held drafts. Every edit is a
// load, mutate, save cycle guarded by the draft revision.
type DraftService struct {
	repo board.DraftRepository
	opts []board.Option
}

func NewDraftService(repo board.DraftRepository, opts ...board.Option) *DraftService {
	return &DraftService{repo: repo, opts: opts}
}

func (s *DraftService) Create(ctx context.Context) (*board.Draft, error) {
	return board.NewDraft(ctx, s.repo, s.opts...)
}

func (s *DraftService) Get(ctx context.Context, id string) (*board.Draft, error) {
	return board.LoadDraft(ctx, s.repo, id, s.opts...)
}

// Edit runs fn against the draft's board and saves the result. Nothing is
// saved when fn fails.
func (s *DraftService) Edit(ctx context.Context, id string, fn func(b *board.Store) error) (*board.Draft, error) {
	d, err := board.LoadDraft(ctx, s.repo, id, s.opts...)
	if err != nil {
		return nil, err
	}
	if err := fn(d.Board); err != nil {
		return nil, err
	}
	if err := d.Save(ctx, s.repo); err != nil {
		return nil, err
	}
	return d, nil
}
