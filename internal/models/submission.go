package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DateLayout is the calendar-date format used for scheduled send dates.
// Dates in this layout compare correctly as strings.
const DateLayout = "2006-01-02"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentExpired   PaymentStatus = "expired"
)

// Submission is an immutable board snapshot plus contact, payment and
// delivery state. Only PaymentStatus, PaymentID, PaymentAmount, EmailSent
// and EmailSentAt change after creation.
type Submission struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Email             string         `json:"email" gorm:"not null"`
	Name              *string        `json:"name"`
	GoalsData         datatypes.JSON `json:"goalsData" gorm:"not null"`
	CreatedAt         time.Time      `json:"createdAt"`
	PaymentStatus     PaymentStatus  `json:"paymentStatus" gorm:"not null;default:'pending';index"`
	PaymentID         *string        `json:"paymentId" gorm:"index"`
	PaymentAmount     *int64         `json:"paymentAmount"` // cents
	ScheduledSendDate string         `json:"scheduledSendDate" gorm:"type:varchar(10);not null;index"`
	EmailSent         bool           `json:"emailSent" gorm:"not null;default:false"`
	EmailSentAt       *time.Time     `json:"emailSentAt"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.PaymentStatus == "" {
		s.PaymentStatus = PaymentPending
	}
	return nil
}

// DisplayName returns the contact name or an empty string.
func (s *Submission) DisplayName() string {
	if s.Name == nil {
		return ""
	}
	return *s.Name
}

// Snapshot decodes the stored goals data.
func (s *Submission) Snapshot() (Snapshot, error) {
	return DecodeSnapshot(s.GoalsData)
}

// ScheduledSendDate is the delivery date for a submission created at t:
// the same calendar day one year later, in UTC.
func ScheduledSendDate(t time.Time) string {
	return t.UTC().AddDate(1, 0, 0).Format(DateLayout)
}

// Today formats t as a calendar date in UTC.
func Today(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Submission DTOs
type CreateSubmissionRequest struct {
	Email     string          `json:"email" validate:"required,email"`
	Name      *string         `json:"name"`
	GoalsData json.RawMessage `json:"goalsData"`
	DraftID   string          `json:"draftId" validate:"omitempty,uuid"`
}

type SubmissionStatusResponse struct {
	ID                uuid.UUID     `json:"id"`
	PaymentStatus     PaymentStatus `json:"paymentStatus"`
	PaymentID         *string       `json:"paymentId"`
	ScheduledSendDate string        `json:"scheduledSendDate"`
	EmailSent         bool          `json:"emailSent"`
	EmailSentAt       *time.Time    `json:"emailSentAt"`
	CreatedAt         time.Time     `json:"createdAt"`
}

func (s *Submission) StatusResponse() SubmissionStatusResponse {
	return SubmissionStatusResponse{
		ID:                s.ID,
		PaymentStatus:     s.PaymentStatus,
		PaymentID:         s.PaymentID,
		ScheduledSendDate: s.ScheduledSendDate,
		EmailSent:         s.EmailSent,
		EmailSentAt:       s.EmailSentAt,
		CreatedAt:         s.CreatedAt,
	}
}
