package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/arnold/visionboard-api/internal/models"
	"gorm.io/gorm"
)

type Charges struct {
	db *gorm.DB
}

func NewCharges(db *gorm.DB) *Charges {
	return &Charges{db: db}
}

// Save inserts the charge or replaces the stored copy with the same id.
func (c *Charges) Save(ctx context.Context, ch *models.Charge) error {
	if err := c.db.WithContext(ctx).Save(ch).Error; err != nil {
		return fmt.Errorf("save charge: %w", err)
	}
	return nil
}

func (c *Charges) Get(ctx context.Context, id string) (*models.Charge, error) {
	var ch models.Charge
	err := c.db.WithContext(ctx).First(&ch, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get charge: %w", err)
	}
	return &ch, nil
}

// UpdateStatus stores the provider's latest status string for a charge.
// Unknown ids are ignored.
func (c *Charges) UpdateStatus(ctx context.Context, id, status string) error {
	err := c.db.WithContext(ctx).
		Model(&models.Charge{}).
		Where("id = ?", id).
		Update("provider_status", status).Error
	if err != nil {
		return fmt.Errorf("update charge status: %w", err)
	}
	return nil
}
