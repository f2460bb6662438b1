package repository

import (
	"context"

	"edukaster/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// ApplyTx moves money on a user's wallet and appends the matching
// ledger row in one step. The user row is locked for the duration of
// the transaction; a debit that would go negative returns
// ErrInsufficientFunds without writing anything.
func (r *WalletRepository) ApplyTx(tx *gorm.DB, entry *domain.WalletTransaction) error {
	var u domain.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, entry.UserID).Error; err != nil {
		return translateNotFound(err)
	}

	entry.BalanceBefore = u.WalletBalance
	switch entry.Type {
	case domain.TxDebit:
		if u.WalletBalance.LessThan(entry.Amount) {
			return ErrInsufficientFunds
		}
		entry.BalanceAfter = u.WalletBalance.Sub(entry.Amount)
	case domain.TxCredit:
		entry.BalanceAfter = u.WalletBalance.Add(entry.Amount)
	}

	if err := tx.Model(&domain.User{}).Where("id = ?", u.ID).
		Update("wallet_balance", entry.BalanceAfter).Error; err != nil {
		return err
	}
	return tx.Create(entry).Error
}

func (r *WalletRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.WalletTransaction, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&domain.WalletTransaction{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txns []domain.WalletTransaction
	err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&txns).Error
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}
