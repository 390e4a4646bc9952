package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Draft persists an in-progress kanban board between edits. Revision grows
// by one on every save.
type Draft struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Data      datatypes.JSON `json:"data" gorm:"not null"`
	Revision  int            `json:"revision" gorm:"not null;default:1"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (d *Draft) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
