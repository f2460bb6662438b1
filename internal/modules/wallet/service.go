package wallet

import (
	"context"
	"errors"
	"log/slog"

	"edukaster/internal/domain"
	"edukaster/internal/modules/payment"
	"edukaster/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// minFunding is the smallest top-up the gateway flow accepts.
var minFunding = decimal.NewFromInt(100)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	wallets  WalletStore
	users    UserStore
	intents  IntentStore
	notifier Notifier
	gateway  Gateway
	txr      TxRunner

	callbackBaseURL string
}

func NewService(
	wallets WalletStore,
	users UserStore,
	intents IntentStore,
	notifier Notifier,
	gateway Gateway,
	txr TxRunner,
	callbackBaseURL string,
) *Service {
	return &Service{
		wallets:         wallets,
		users:           users,
		intents:         intents,
		notifier:        notifier,
		gateway:         gateway,
		txr:             txr,
		callbackBaseURL: callbackBaseURL,
	}
}

func (s *Service) Overview(ctx context.Context, userID int64, limit, offset int) (*Overview, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	txns, total, err := s.wallets.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if txns == nil {
		txns = []domain.WalletTransaction{}
	}

	return &Overview{
		Balance:      user.WalletBalance,
		Transactions: txns,
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	}, nil
}

// Fund starts a gateway top-up. The credit itself happens in
// VerifyFunding once the gateway confirms the charge.
func (s *Service) Fund(ctx context.Context, req FundRequest) (*FundResult, error) {
	if req.Amount.LessThan(minFunding) {
		return nil, ErrMinimumFunding
	}

	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	reference := payment.NewReference()
	payload := map[string]any{"redirect_url": req.RedirectURL}
	if err := s.intents.Create(ctx, &domain.PaymentIntent{
		Reference: reference,
		UserID:    req.UserID,
		Purpose:   domain.PurposeFunding,
		Amount:    req.Amount,
		Payload:   payload,
	}); err != nil {
		return nil, err
	}

	callbackURL := s.callbackBaseURL + "/api/wallet/fund/verify/" + reference
	authURL, err := s.gateway.Initialize(ctx, user.Email, req.Amount, reference, callbackURL, payload)
	if err != nil {
		return nil, err
	}

	return &FundResult{AuthorizationURL: authURL, Reference: reference}, nil
}

// VerifyFunding handles the gateway redirect for a top-up. Replays are
// harmless: only the caller that flips the intent writes the ledger
// row, every later call sees the verified intent and returns success.
func (s *Service) VerifyFunding(ctx context.Context, reference string) (*FundingOutcome, error) {
	intent, err := s.intents.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if intent.Purpose != domain.PurposeFunding {
		return nil, ErrNotFound
	}

	outcome := &FundingOutcome{
		Reference:   reference,
		Amount:      intent.Amount,
		RedirectURL: stringField(intent.Payload, "redirect_url"),
	}

	if intent.Status == domain.IntentVerified {
		outcome.Status = "success"
		return outcome, nil
	}
	if intent.Status == domain.IntentFailed {
		outcome.Status = "failed"
		return outcome, nil
	}

	res, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !res.Succeeded {
		if err := s.intents.MarkFailed(ctx, reference); err != nil {
			slog.Warn("mark intent failed", "reference", reference, "err", err)
		}
		outcome.Status = "failed"
		return outcome, nil
	}

	credited := false
	err = s.txr.RunInTx(ctx, func(tx *gorm.DB) error {
		flipped, err := s.intents.MarkVerifiedTx(tx, reference)
		if err != nil {
			return err
		}
		if !flipped {
			return nil
		}
		credited = true
		return s.wallets.ApplyTx(tx, &domain.WalletTransaction{
			UserID:      intent.UserID,
			Type:        domain.TxCredit,
			Amount:      intent.Amount,
			Category:    domain.CategoryFunding,
			Description: "Wallet funding",
			Metadata:    map[string]any{"reference": reference},
		})
	})
	if err != nil {
		return nil, err
	}

	outcome.Status = "success"
	if credited {
		s.notifyCredited(ctx, intent.UserID, intent.Amount)
	}
	return outcome, nil
}

// AdminCredit tops a student's wallet up without a gateway charge and
// records which admin did it.
func (s *Service) AdminCredit(ctx context.Context, adminID, userID int64, amount decimal.Decimal, reason string) (*domain.WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, ErrValidation
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if user.Role != domain.RoleStudent {
		return nil, ErrStudentOnly
	}

	if reason == "" {
		reason = "Admin wallet credit"
	}
	entry := &domain.WalletTransaction{
		UserID:      userID,
		Type:        domain.TxCredit,
		Amount:      amount,
		Category:    domain.CategoryAdminCredit,
		Description: reason,
		AdminID:     &adminID,
	}
	err = s.txr.RunInTx(ctx, func(tx *gorm.DB) error {
		return s.wallets.ApplyTx(tx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.notifyCredited(ctx, userID, amount)
	return entry, nil
}

func (s *Service) notifyCredited(ctx context.Context, userID int64, amount decimal.Decimal) {
	if s.notifier == nil {
		return
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return
	}
	body := "Your wallet has been credited with " + amount.String() + "."
	if err := s.notifier.Notify(ctx, user, domain.NotifyWalletCredited, "Wallet credited", body, nil); err != nil {
		slog.Warn("wallet credit notification failed", "user_id", userID, "err", err)
	}
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
