package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TxType string

const (
	TxCredit TxType = "credit"
	TxDebit  TxType = "debit"
)

type TxCategory string

const (
	CategoryFunding     TxCategory = "funding"
	CategoryBooking     TxCategory = "booking"
	CategoryAdminCredit TxCategory = "admin_credit"
	CategoryRefund      TxCategory = "refund"
	CategoryPayout      TxCategory = "payout"
)

// WalletTransaction is one row of the append-only ledger. Balances are
// never edited in place: every movement records the balance before and
// after, so replaying a user's rows from zero reproduces the cached
// balance on the user record.
type WalletTransaction struct {
	ID     int64  `json:"id" gorm:"primaryKey"`
	UserID int64  `json:"user_id" gorm:"not null;index"`
	Type   TxType `json:"type" gorm:"type:varchar(8);not null"`

	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric;not null"`
	BalanceBefore decimal.Decimal `json:"balance_before" gorm:"type:numeric;not null"`
	BalanceAfter  decimal.Decimal `json:"balance_after" gorm:"type:numeric;not null"`

	Category    TxCategory     `json:"category" gorm:"type:varchar(16);not null"`
	Description string         `json:"description"`
	BookingID   *int64         `json:"booking_id,omitempty" gorm:"index"`
	AdminID     *int64         `json:"admin_id,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at"`
}

func (WalletTransaction) TableName() string { return "wallet_transactions" }
