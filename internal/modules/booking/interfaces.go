package booking

import (
	"context"
	"time"

	"edukaster/internal/domain"
	"edukaster/internal/modules/payment"

	"gorm.io/gorm"
)

type BookingStore interface {
	CreateTx(tx *gorm.DB, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	ListActiveByTutorUntil(ctx context.Context, tutorID int64, until time.Time) ([]domain.Booking, error)
	ListActiveByTutorUntilTx(tx *gorm.DB, tutorID int64, until time.Time) ([]domain.Booking, error)
	FindOpenGroup(ctx context.Context, tutorID int64, courseTitle string) (*domain.Booking, error)
	FindOpenGroupTx(tx *gorm.DB, tutorID int64, courseTitle string) (*domain.Booking, error)
	AddGroupStudentTx(tx *gorm.DB, bookingID, studentID int64) error
	GroupRoster(ctx context.Context, bookingID int64) ([]domain.User, error)
	IsGroupMember(ctx context.Context, bookingID, studentID int64) (bool, error)
	ListPending(ctx context.Context) ([]domain.Booking, error)
	ListConfirmedByTutor(ctx context.Context, tutorID int64) ([]domain.Booking, error)
	ListUpcomingByStudent(ctx context.Context, studentID int64, now time.Time) ([]domain.Booking, error)
	ListByTutorBetween(ctx context.Context, tutorID int64, from, to time.Time) ([]domain.Booking, error)
}

type SessionStore interface {
	CreateTx(tx *gorm.DB, s *domain.Session) error
}

type WalletStore interface {
	ApplyTx(tx *gorm.DB, entry *domain.WalletTransaction) error
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetTutorProfile(ctx context.Context, tutorID int64) (*domain.TutorProfile, error)
	ListAdmins(ctx context.Context) ([]domain.User, error)
}

type IntentStore interface {
	Create(ctx context.Context, pi *domain.PaymentIntent) error
	GetByReference(ctx context.Context, reference string) (*domain.PaymentIntent, error)
	MarkVerifiedTx(tx *gorm.DB, reference string) (bool, error)
	MarkFailed(ctx context.Context, reference string) error
}

type Notifier interface {
	Notify(ctx context.Context, user *domain.User, kind domain.NotificationKind, title, body string, bookingID *int64) error
}

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Gateway is re-exported so wiring code only deals with this package.
type Gateway = payment.Gateway
