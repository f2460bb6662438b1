package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"edukaster/internal/domain"
	"edukaster/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	bookings BookingStore
	sessions SessionStore
	wallet   WalletStore
	tutors   TutorStore
	txr      TxRunner

	now func() time.Time
}

func NewService(bookings BookingStore, sessions SessionStore, wallet WalletStore, tutors TutorStore, txr TxRunner) *Service {
	return &Service{
		bookings: bookings,
		sessions: sessions,
		wallet:   wallet,
		tutors:   tutors,
		txr:      txr,
		now:      time.Now,
	}
}

// CompleteBooking finalizes a confirmed booking. Individual sessions
// pay the tutor their share right here, inside the same transaction
// that flips the status, so the payout happens exactly once. Group
// cohorts are settled separately by admin payout.
func (s *Service) CompleteBooking(ctx context.Context, bookingID, requesterID int64) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.authorizeParticipant(ctx, b, requesterID); err != nil {
		return err
	}

	switch b.Status {
	case domain.BookingCompleted:
		return ErrAlreadyCompleted
	case domain.BookingConfirmed:
	default:
		return ErrNotConfirmed
	}

	completedAt := s.now()
	return s.txr.RunInTx(ctx, func(tx *gorm.DB) error {
		updated, err := s.bookings.CompleteTx(tx, b.ID, completedAt)
		if err != nil {
			return err
		}
		if !updated {
			return ErrAlreadyCompleted
		}

		if b.SessionType != domain.SessionOneOnOne {
			return nil
		}
		return s.payoutTutorTx(tx, b, completedAt)
	})
}

func (s *Service) payoutTutorTx(tx *gorm.DB, b *domain.Booking, completedAt time.Time) error {
	profile, err := s.tutors.GetTutorProfileTx(tx, b.TutorID)
	if err != nil {
		return err
	}
	tutorShare, adminShare := ComputeShares(b.Amount, profile)

	settled, err := s.sessions.CompleteTx(tx, b.ID, tutorShare, adminShare, completedAt)
	if err != nil {
		return err
	}
	if !settled {
		return ErrAlreadyCompleted
	}

	bookingID := b.ID
	if err := s.wallet.ApplyTx(tx, &domain.WalletTransaction{
		UserID:      b.TutorID,
		Type:        domain.TxCredit,
		Amount:      tutorShare,
		Category:    domain.CategoryPayout,
		Description: fmt.Sprintf("Payout for %s", b.CourseTitle),
		BookingID:   &bookingID,
	}); err != nil {
		return err
	}
	return s.tutors.AddEarningsTx(tx, b.TutorID, tutorShare)
}

// RateBooking records the student's rating, forces completion and
// updates the tutor's running average. No payout happens on this path.
func (s *Service) RateBooking(ctx context.Context, bookingID, studentID int64, rating int, review string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if b.StudentID != studentID {
		return ErrForbidden
	}

	completedAt := s.now()
	return s.txr.RunInTx(ctx, func(tx *gorm.DB) error {
		if err := s.bookings.RateTx(tx, b.ID, rating, review); err != nil {
			return err
		}
		if b.Status != domain.BookingCompleted {
			if _, err := s.bookings.ForceCompleteTx(tx, b.ID, completedAt); err != nil {
				return err
			}
		}

		profile, err := s.tutors.GetTutorProfileTx(tx, b.TutorID)
		if err != nil {
			return err
		}
		newCount := profile.TotalRatings + 1
		newAvg := (profile.Rating*float64(profile.TotalRatings) + float64(rating)) / float64(newCount)
		return s.tutors.UpdateRatingTx(tx, b.TutorID, newAvg, newCount)
	})
}

// GroupPayout credits the tutor for a whole cohort at once: per-seat
// amount times enrolled students, exactly once per booking. The unique
// settlement record is what makes a second call fail.
func (s *Service) GroupPayout(ctx context.Context, bookingID, adminID int64) (decimal.Decimal, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return decimal.Zero, ErrNotFound
		}
		return decimal.Zero, err
	}
	if b.SessionType != domain.SessionGroup {
		return decimal.Zero, ErrNotGroup
	}

	completedAt := s.now()
	var paid decimal.Decimal
	err = s.txr.RunInTx(ctx, func(tx *gorm.DB) error {
		enrolled, err := s.bookings.CountGroupStudentsTx(tx, b.ID)
		if err != nil {
			return err
		}

		total := b.Amount.Mul(decimal.NewFromInt(enrolled))
		profile, err := s.tutors.GetTutorProfileTx(tx, b.TutorID)
		if err != nil {
			return err
		}
		tutorShare, adminShare := ComputeShares(total, profile)

		if err := s.sessions.CreateTx(tx, &domain.Session{
			BookingID:   b.ID,
			TutorID:     b.TutorID,
			Amount:      total,
			TutorShare:  tutorShare,
			AdminShare:  adminShare,
			Status:      domain.SessionCompleted,
			CompletedAt: &completedAt,
		}); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyPaidOut
			}
			return err
		}

		bID := b.ID
		aID := adminID
		if err := s.wallet.ApplyTx(tx, &domain.WalletTransaction{
			UserID:      b.TutorID,
			Type:        domain.TxCredit,
			Amount:      tutorShare,
			Category:    domain.CategoryPayout,
			Description: fmt.Sprintf("Cohort payout for %s (%d students)", b.CourseTitle, enrolled),
			BookingID:   &bID,
			AdminID:     &aID,
		}); err != nil {
			return err
		}
		if err := s.tutors.AddEarningsTx(tx, b.TutorID, tutorShare); err != nil {
			return err
		}

		if _, err := s.bookings.ForceCompleteTx(tx, b.ID, completedAt); err != nil {
			return err
		}

		paid = tutorShare
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	slog.Info("cohort paid out", "booking_id", b.ID, "tutor_id", b.TutorID, "amount", paid)
	return paid, nil
}

func (s *Service) authorizeParticipant(ctx context.Context, b *domain.Booking, requesterID int64) error {
	if b.SessionType == domain.SessionOneOnOne {
		if b.StudentID != requesterID {
			return ErrForbidden
		}
		return nil
	}

	member, err := s.bookings.IsGroupMember(ctx, b.ID, requesterID)
	if err != nil {
		return err
	}
	if !member {
		return ErrForbidden
	}
	return nil
}
