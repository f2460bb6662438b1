package session

import (
	"context"
	"time"

	"edukaster/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	IsGroupMember(ctx context.Context, bookingID, studentID int64) (bool, error)
	CompleteTx(tx *gorm.DB, id int64, completedAt time.Time) (bool, error)
	ForceCompleteTx(tx *gorm.DB, id int64, completedAt time.Time) (bool, error)
	RateTx(tx *gorm.DB, id int64, rating int, review string) error
	CountGroupStudentsTx(tx *gorm.DB, bookingID int64) (int64, error)
}

type SessionStore interface {
	CreateTx(tx *gorm.DB, s *domain.Session) error
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Session, error)
	CompleteTx(tx *gorm.DB, bookingID int64, tutorShare, adminShare decimal.Decimal, completedAt time.Time) (bool, error)
}

type WalletStore interface {
	ApplyTx(tx *gorm.DB, entry *domain.WalletTransaction) error
}

type TutorStore interface {
	GetTutorProfileTx(tx *gorm.DB, tutorID int64) (*domain.TutorProfile, error)
	AddEarningsTx(tx *gorm.DB, tutorID int64, amount decimal.Decimal) error
	UpdateRatingTx(tx *gorm.DB, tutorID int64, rating float64, totalRatings int64) error
}

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
