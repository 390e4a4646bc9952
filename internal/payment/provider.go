// Package payment talks to the PIX payment provider.
package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/arnold/visionboard-api/internal/models"
)

var (
	// ErrMalformedCharge is returned when the provider answers a charge
	// request without one of the fields a payer needs.
	ErrMalformedCharge = errors.New("payment provider returned an incomplete charge")
	// ErrUpstream wraps transport failures and non-2xx provider responses.
	ErrUpstream = errors.New("payment provider request failed")
)

// Charge is a PIX charge as created by the provider.
type Charge struct {
	ID           string
	BRCode       string
	BRCodeBase64 string
	ExpiresAt    time.Time
	Status       string
}

type Status struct {
	Status string `json:"status"`
	Paid   bool   `json:"paid"`
}

type Provider interface {
	CreateCharge(ctx context.Context, amountCents int64, description, externalID string) (*Charge, error)
	CheckStatus(ctx context.Context, chargeID string) (*Status, error)
}

// IsPaid reports whether a provider status string means the charge is paid.
func IsPaid(status string) bool {
	switch strings.ToUpper(status) {
	case "PAID", "COMPLETED":
		return true
	}
	return false
}

// Target maps a provider status string to the local payment status it
// drives a submission towards. Statuses that carry no decision, such as
// PENDING, report false.
func Target(status string) (models.PaymentStatus, bool) {
	switch strings.ToUpper(status) {
	case "PAID", "COMPLETED":
		return models.PaymentCompleted, true
	case "FAILED", "CANCELLED", "CANCELED":
		return models.PaymentFailed, true
	case "EXPIRED":
		return models.PaymentExpired, true
	}
	return "", false
}
