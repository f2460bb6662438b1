package admin

import (
	"context"
	"time"

	"edukaster/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ApproveTx(tx *gorm.DB, id int64, meetingLink string) (bool, error)
	GroupRoster(ctx context.Context, bookingID int64) ([]domain.User, error)
}

type TutorStore interface {
	GetTutorProfileTx(tx *gorm.DB, tutorID int64) (*domain.TutorProfile, error)
	AddEarningsTx(tx *gorm.DB, tutorID int64, amount decimal.Decimal) error
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type Notifier interface {
	Notify(ctx context.Context, user *domain.User, kind domain.NotificationKind, title, body string, bookingID *int64) error
}

// ReminderScheduler arms the pre-session reminder. Schedule reports
// whether the instant was still in the future.
type ReminderScheduler interface {
	Schedule(bookingID int64, at time.Time, fn func()) bool
}

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
