package repository

import (
	"context"
	"time"

	"edukaster/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateTx inserts the settlement record for a booking. The unique
// booking_id index maps a second insert to ErrDuplicate, which is the
// exactly-once guard for group payouts.
func (r *SessionRepository) CreateTx(tx *gorm.DB, s *domain.Session) error {
	if err := tx.Create(s).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *SessionRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Session, error) {
	var s domain.Session
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&s).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &s, nil
}

// CompleteTx settles a scheduled session, recording the final shares.
// Returns false when the session was already settled.
func (r *SessionRepository) CompleteTx(tx *gorm.DB, bookingID int64, tutorShare, adminShare decimal.Decimal, completedAt time.Time) (bool, error) {
	res := tx.Model(&domain.Session{}).
		Where("booking_id = ? AND status = ?", bookingID, domain.SessionScheduled).
		Updates(map[string]any{
			"status":       domain.SessionCompleted,
			"tutor_share":  tutorShare,
			"admin_share":  adminShare,
			"completed_at": completedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
