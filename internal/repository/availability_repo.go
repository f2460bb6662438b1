package repository

import (
	"context"

	"edukaster/internal/domain"

	"gorm.io/gorm"
)

type AvailabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) ListActiveByTutor(ctx context.Context, tutorID int64) ([]domain.AvailabilityRule, error) {
	var rules []domain.AvailabilityRule
	err := r.db.WithContext(ctx).
		Where("tutor_id = ? AND active = ?", tutorID, true).
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// Replace swaps a tutor's weekly template atomically.
func (r *AvailabilityRepository) Replace(ctx context.Context, tutorID int64, rules []domain.AvailabilityRule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tutor_id = ?", tutorID).Delete(&domain.AvailabilityRule{}).Error; err != nil {
			return err
		}
		for i := range rules {
			rules[i].ID = 0
			rules[i].TutorID = tutorID
		}
		if len(rules) == 0 {
			return nil
		}
		return tx.Create(&rules).Error
	})
}
