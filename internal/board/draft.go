package board

import (
	"context"
	"errors"

	"github.com/arnold/visionboard-api/internal/models"
)

var (
	ErrDraftNotFound = errors.New("draft not found")
	ErrDraftConflict = errors.New("draft was modified by another request")
)

// DraftRecord is a stored draft. Revision is the value seen at load time.
type DraftRecord struct {
	ID       string
	Data     models.KanbanData
	Revision int
}

// DraftRepository persists drafts. SaveDraft must only succeed when the
// stored revision still equals rec.Revision, and returns the new revision.
type DraftRepository interface {
	CreateDraft(ctx context.Context, data models.KanbanData) (DraftRecord, error)
	LoadDraft(ctx context.Context, id string) (DraftRecord, error)
	SaveDraft(ctx context.Context, rec DraftRecord) (int, error)
}

// Draft is a board document owned by one editor at a time. Edits go through
// Board and become durable only on Save.
type Draft struct {
	ID       string
	Board    *Store
	revision int
}

func NewDraft(ctx context.Context, repo DraftRepository, opts ...Option) (*Draft, error) {
	store := New(opts...)
	rec, err := repo.CreateDraft(ctx, store.Data())
	if err != nil {
		return nil, err
	}
	return &Draft{ID: rec.ID, Board: FromData(rec.Data, opts...), revision: rec.Revision}, nil
}

func LoadDraft(ctx context.Context, repo DraftRepository, id string, opts ...Option) (*Draft, error) {
	rec, err := repo.LoadDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Draft{ID: rec.ID, Board: FromData(rec.Data, opts...), revision: rec.Revision}, nil
}

// Save writes the board back. It fails with ErrDraftConflict when another
// writer saved the draft since it was loaded.
func (d *Draft) Save(ctx context.Context, repo DraftRepository) error {
	rev, err := repo.SaveDraft(ctx, DraftRecord{ID: d.ID, Data: d.Board.Data(), Revision: d.revision})
	if err != nil {
		return err
	}
	d.revision = rev
	return nil
}

func (d *Draft) Revision() int { return d.revision }
