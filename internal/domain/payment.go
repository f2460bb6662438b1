package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type IntentStatus string

const (
	IntentInitialized IntentStatus = "initialized"
	IntentVerified    IntentStatus = "verified"
	IntentFailed      IntentStatus = "failed"
)

type IntentPurpose string

const (
	PurposeBooking IntentPurpose = "booking"
	PurposeFunding IntentPurpose = "funding"
)

// PaymentIntent pins the gateway reference to what the caller asked to
// pay for, so the verify callback can rebuild the booking (or funding)
// from trusted server-side state instead of request parameters.
type PaymentIntent struct {
	ID        int64         `json:"id" gorm:"primaryKey"`
	Reference string        `json:"reference" gorm:"not null;uniqueIndex"`
	UserID    int64         `json:"user_id" gorm:"not null;index"`
	Purpose   IntentPurpose `json:"purpose" gorm:"type:varchar(16);not null"`

	Amount     decimal.Decimal `json:"amount" gorm:"type:numeric;not null"`
	Status     IntentStatus    `json:"status" gorm:"type:varchar(16);not null;default:'initialized'"`
	VerifiedAt *time.Time      `json:"verified_at,omitempty"`

	// Booking parameters captured at initialization, unused for funding.
	Payload map[string]any `json:"payload,omitempty" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PaymentIntent) TableName() string { return "payment_intents" }
