package domain

import "time"

type NotificationKind string

const (
	NotifyBookingRequested NotificationKind = "booking_requested"
	NotifyBookingApproved  NotificationKind = "booking_approved"
	NotifyBookingReminder  NotificationKind = "booking_reminder"
	NotifyBookingCompleted NotificationKind = "booking_completed"
	NotifyWalletCredited   NotificationKind = "wallet_credited"
)

type Notification struct {
	ID        int64            `json:"id" gorm:"primaryKey"`
	UserID    int64            `json:"user_id" gorm:"not null;index"`
	Kind      NotificationKind `json:"kind" gorm:"type:varchar(32);not null"`
	Title     string           `json:"title" gorm:"not null"`
	Body      string           `json:"body" gorm:"type:text"`
	BookingID *int64           `json:"booking_id,omitempty" gorm:"index"`
	Read      bool             `json:"read" gorm:"not null;default:false"`
	CreatedAt time.Time        `json:"created_at"`
}
