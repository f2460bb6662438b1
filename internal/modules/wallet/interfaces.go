package wallet

import (
	"context"

	"edukaster/internal/domain"
	"edukaster/internal/modules/payment"

	"gorm.io/gorm"
)

type WalletStore interface {
	ApplyTx(tx *gorm.DB, entry *domain.WalletTransaction) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.WalletTransaction, int64, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
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

type Gateway = payment.Gateway
