package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"edukaster/internal/domain"
	"edukaster/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	bookings  BookingStore
	tutors    TutorStore
	users     UserStore
	notifier  Notifier
	scheduler ReminderScheduler
	txr       TxRunner

	reminderLead time.Duration
	now          func() time.Time
}

func NewService(
	bookings BookingStore,
	tutors TutorStore,
	users UserStore,
	notifier Notifier,
	scheduler ReminderScheduler,
	txr TxRunner,
	reminderLeadMin int,
) *Service {
	if reminderLeadMin <= 0 {
		reminderLeadMin = 120
	}
	return &Service{
		bookings:     bookings,
		tutors:       tutors,
		users:        users,
		notifier:     notifier,
		scheduler:    scheduler,
		txr:          txr,
		reminderLead: time.Duration(reminderLeadMin) * time.Minute,
		now:          time.Now,
	}
}

// ApproveResult reports the approval plus any notification deliveries
// that failed. Failures never roll the approval back.
type ApproveResult struct {
	Booking              *domain.Booking `json:"booking"`
	NotificationFailures []string        `json:"notification_failures,omitempty"`
	ReminderScheduled    bool            `json:"reminder_scheduled"`
}

// ApproveBooking is the single authority moving a paid booking from
// pending to confirmed. Individual approvals credit the tutor's
// earnings counter by their configured fee; group approvals only
// notify.
func (s *Service) ApproveBooking(ctx context.Context, bookingID int64, meetingLink string) (*ApproveResult, error) {
	if meetingLink == "" {
		return nil, ErrValidation
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.AdminConfirmed {
		return nil, ErrAlreadyApproved
	}
	if b.Status != domain.BookingPending || b.PaymentStatus != domain.PaymentPaid {
		return nil, ErrNotApprovable
	}

	err = s.txr.RunInTx(ctx, func(tx *gorm.DB) error {
		approved, err := s.bookings.ApproveTx(tx, b.ID, meetingLink)
		if err != nil {
			return err
		}
		if !approved {
			return ErrAlreadyApproved
		}

		if b.SessionType == domain.SessionOneOnOne {
			profile, err := s.tutors.GetTutorProfileTx(tx, b.TutorID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil
				}
				return err
			}
			if profile.TutorFee.IsPositive() {
				return s.tutors.AddEarningsTx(tx, b.TutorID, profile.TutorFee)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.AdminConfirmed = true
	b.Status = domain.BookingConfirmed
	b.MeetingLink = meetingLink

	result := &ApproveResult{Booking: b}
	result.NotificationFailures = s.fanOut(ctx, b)
	result.ReminderScheduled = s.scheduleReminder(b)
	return result, nil
}

// fanOut notifies every participant exactly once per recipient and
// collects delivery failures for the caller.
func (s *Service) fanOut(ctx context.Context, b *domain.Booking) []string {
	recipients, failures := s.recipients(ctx, b)

	bookingID := b.ID
	body := fmt.Sprintf("Your %s session has been confirmed. The meeting link is now available.", b.CourseTitle)
	for i := range recipients {
		u := &recipients[i]
		if err := s.notifier.Notify(ctx, u, domain.NotifyBookingApproved, "Booking confirmed", body, &bookingID); err != nil {
			slog.Warn("approval notification failed", "booking_id", b.ID, "user_id", u.ID, "err", err)
			failures = append(failures, fmt.Sprintf("user %d: %v", u.ID, err))
		}
	}
	return failures
}

func (s *Service) recipients(ctx context.Context, b *domain.Booking) ([]domain.User, []string) {
	var recipients []domain.User
	var failures []string
	seen := make(map[int64]bool)

	add := func(u *domain.User) {
		if u != nil && !seen[u.ID] {
			seen[u.ID] = true
			recipients = append(recipients, *u)
		}
	}

	if b.SessionType == domain.SessionGroup {
		roster, err := s.bookings.GroupRoster(ctx, b.ID)
		if err != nil {
			failures = append(failures, fmt.Sprintf("roster: %v", err))
		}
		for i := range roster {
			add(&roster[i])
		}
	} else if b.StudentID != 0 {
		student, err := s.users.GetByID(ctx, b.StudentID)
		if err != nil {
			failures = append(failures, fmt.Sprintf("user %d: %v", b.StudentID, err))
		} else {
			add(student)
		}
	}

	tutor, err := s.users.GetByID(ctx, b.TutorID)
	if err != nil {
		failures = append(failures, fmt.Sprintf("user %d: %v", b.TutorID, err))
	} else {
		add(tutor)
	}
	return recipients, failures
}

// scheduleReminder arms the pre-session reminder; sessions starting
// too soon are silently skipped.
func (s *Service) scheduleReminder(b *domain.Booking) bool {
	if s.scheduler == nil {
		return false
	}

	at := b.ScheduledDate.Add(-s.reminderLead)
	booking := *b
	return s.scheduler.Schedule(b.ID, at, func() {
		s.sendReminder(&booking)
	})
}

func (s *Service) sendReminder(b *domain.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bookingID := b.ID
	body := fmt.Sprintf("Your %s session starts at %s.", b.CourseTitle, b.ScheduledDate.Format(time.Kitchen))
	recipients, _ := s.recipients(ctx, b)
	for i := range recipients {
		if err := s.notifier.Notify(ctx, &recipients[i], domain.NotifyBookingReminder, "Upcoming session", body, &bookingID); err != nil {
			slog.Warn("reminder notification failed", "booking_id", b.ID, "user_id", recipients[i].ID, "err", err)
		}
	}
}
