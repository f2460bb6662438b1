package repository

import (
	"context"

	"edukaster/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByIDTx(tx *gorm.DB, id int64) (*domain.User, error) {
	var u domain.User
	if err := tx.First(&u, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &u, nil
}

func (r *UserRepository) ListAdmins(ctx context.Context) ([]domain.User, error) {
	var admins []domain.User
	if err := r.db.WithContext(ctx).Where("role = ?", domain.RoleAdmin).Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *UserRepository) GetTutorProfile(ctx context.Context, tutorID int64) (*domain.TutorProfile, error) {
	var p domain.TutorProfile
	err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", tutorID).First(&p).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &p, nil
}

func (r *UserRepository) GetTutorProfileTx(tx *gorm.DB, tutorID int64) (*domain.TutorProfile, error) {
	var p domain.TutorProfile
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", tutorID).First(&p).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &p, nil
}

func (r *UserRepository) AddEarningsTx(tx *gorm.DB, tutorID int64, amount decimal.Decimal) error {
	return tx.Model(&domain.TutorProfile{}).
		Where("user_id = ?", tutorID).
		Update("total_earnings", gorm.Expr("total_earnings + ?", amount)).Error
}

func (r *UserRepository) UpdateRatingTx(tx *gorm.DB, tutorID int64, rating float64, totalRatings int64) error {
	return tx.Model(&domain.TutorProfile{}).
		Where("user_id = ?", tutorID).
		Updates(map[string]any{"rating": rating, "total_ratings": totalRatings}).Error
}
