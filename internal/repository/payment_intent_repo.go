package repository

import (
	"context"
	"time"

	"edukaster/internal/domain"

	"gorm.io/gorm"
)

type PaymentIntentRepository struct {
	db *gorm.DB
}

func NewPaymentIntentRepository(db *gorm.DB) *PaymentIntentRepository {
	return &PaymentIntentRepository{db: db}
}

func (r *PaymentIntentRepository) Create(ctx context.Context, pi *domain.PaymentIntent) error {
	if err := r.db.WithContext(ctx).Create(pi).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *PaymentIntentRepository) GetByReference(ctx context.Context, reference string) (*domain.PaymentIntent, error) {
	var pi domain.PaymentIntent
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&pi).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &pi, nil
}

// MarkVerifiedTx is the idempotency gate for gateway callbacks: only
// the caller that flips initialized to verified creates downstream
// records, everyone else sees false.
func (r *PaymentIntentRepository) MarkVerifiedTx(tx *gorm.DB, reference string) (bool, error) {
	res := tx.Model(&domain.PaymentIntent{}).
		Where("reference = ? AND status = ?", reference, domain.IntentInitialized).
		Updates(map[string]any{
			"status":      domain.IntentVerified,
			"verified_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PaymentIntentRepository) MarkFailed(ctx context.Context, reference string) error {
	return r.db.WithContext(ctx).Model(&domain.PaymentIntent{}).
		Where("reference = ? AND status = ?", reference, domain.IntentInitialized).
		Update("status", domain.IntentFailed).Error
}
