package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// Session is the settlement record for a booking. The unique booking_id
// index guarantees at most one settlement per booking, which is the
// backstop behind exactly-once payout.
type Session struct {
	ID        int64 `json:"id" gorm:"primaryKey"`
	BookingID int64 `json:"booking_id" gorm:"not null;uniqueIndex"`
	TutorID   int64 `json:"tutor_id" gorm:"not null;index"`
	StudentID int64 `json:"student_id" gorm:"index"`

	Amount     decimal.Decimal `json:"amount" gorm:"type:numeric;not null"`
	TutorShare decimal.Decimal `json:"tutor_share" gorm:"type:numeric;not null"`
	AdminShare decimal.Decimal `json:"admin_share" gorm:"type:numeric;not null"`

	Status      SessionStatus `json:"status" gorm:"type:varchar(16);not null;default:'scheduled'"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
