package wallet

import (
	"edukaster/internal/domain"

	"github.com/shopspring/decimal"
)

type FundRequest struct {
	UserID      int64           `json:"-"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	RedirectURL string          `json:"redirect_url"`
}

type FundResult struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

type AdminCreditRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason"`
}

// Overview is the wallet screen payload: the cached balance plus one
// page of the ledger, newest first.
type Overview struct {
	Balance      decimal.Decimal            `json:"balance"`
	Transactions []domain.WalletTransaction `json:"transactions"`
	Total        int64                      `json:"total"`
	Limit        int                        `json:"limit"`
	Offset       int                        `json:"offset"`
}

type FundingOutcome struct {
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference"`
	RedirectURL string          `json:"-"`
}
