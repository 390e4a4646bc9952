package models

import (
	"time"

	"github.com/google/uuid"
)

// Charge records a PIX charge created at the payment provider for a
// submission. ID is the provider's charge id.
type Charge struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	SubmissionID   uuid.UUID `json:"submissionId" gorm:"type:uuid;index;not null"`
	AmountCents    int64     `json:"amount" gorm:"not null"`
	BRCode         string    `json:"qrCode" gorm:"not null"`
	BRCodeBase64   string    `json:"qrCodeBase64" gorm:"not null"`
	ProviderStatus string    `json:"status"`
	ExpiresAt      time.Time `json:"expiresAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Usable reports whether the charge can still be paid at now.
func (c *Charge) Usable(now time.Time) bool {
	return now.Before(c.ExpiresAt)
}

// Payment DTOs
type CreateChargeRequest struct {
	SubmissionID string `json:"submissionId" validate:"required,uuid"`
}

type ChargeResponse struct {
	QRCode       string    `json:"qrCode"`
	QRCodeBase64 string    `json:"qrCodeBase64"`
	Amount       int64     `json:"amount"`
	ExpiresAt    time.Time `json:"expiresAt"`
	PaymentID    string    `json:"paymentId"`
}

// PaymentWebhook is the provider callback body.
type PaymentWebhook struct {
	ID         string `json:"id" validate:"required"`
	Status     string `json:"status" validate:"required"`
	ExternalID string `json:"externalId"`
}
