package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arnold/visionboard-api/internal/board"
	"github.com/arnold/visionboard-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Drafts implements board.DraftRepository.
type Drafts struct {
	db *gorm.DB
}

var _ board.DraftRepository = (*Drafts)(nil)

func NewDrafts(db *gorm.DB) *Drafts {
	return &Drafts{db: db}
}

func (d *Drafts) CreateDraft(ctx context.Context, data models.KanbanData) (board.DraftRecord, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return board.DraftRecord{}, fmt.Errorf("encode draft: %w", err)
	}

	row := models.Draft{Data: raw, Revision: 1}
	if err := d.db.WithContext(ctx).Create(&row).Error; err != nil {
		return board.DraftRecord{}, fmt.Errorf("create draft: %w", err)
	}
	return board.DraftRecord{ID: row.ID.String(), Data: data, Revision: row.Revision}, nil
}

func (d *Drafts) LoadDraft(ctx context.Context, id string) (board.DraftRecord, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return board.DraftRecord{}, board.ErrDraftNotFound
	}

	var row models.Draft
	err = d.db.WithContext(ctx).First(&row, "id = ?", uid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return board.DraftRecord{}, board.ErrDraftNotFound
	}
	if err != nil {
		return board.DraftRecord{}, fmt.Errorf("load draft: %w", err)
	}

	var data models.KanbanData
	if err := json.Unmarshal(row.Data, &data); err != nil {
		return board.DraftRecord{}, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return board.DraftRecord{ID: row.ID.String(), Data: data, Revision: row.Revision}, nil
}

// SaveDraft writes rec only if the stored revision still equals
// rec.Revision.
func (d *Drafts) SaveDraft(ctx context.Context, rec board.DraftRecord) (int, error) {
	uid, err := uuid.Parse(rec.ID)
	if err != nil {
		return 0, board.ErrDraftNotFound
	}
	raw, err := json.Marshal(rec.Data)
	if err != nil {
		return 0, fmt.Errorf("encode draft: %w", err)
	}

	res := d.db.WithContext(ctx).
		Model(&models.Draft{}).
		Where("id = ? AND revision = ?", uid, rec.Revision).
		Updates(map[string]any{
			"data":       datatypes.JSON(raw),
			"revision":   gorm.Expr("revision + 1"),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("save draft: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := d.db.WithContext(ctx).Model(&models.Draft{}).Where("id = ?", uid).Count(&n).Error; err != nil {
			return 0, fmt.Errorf("save draft: %w", err)
		}
		if n == 0 {
			return 0, board.ErrDraftNotFound
		}
		return 0, board.ErrDraftConflict
	}
	return rec.Revision + 1, nil
}
