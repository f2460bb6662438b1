package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"edukaster/internal/domain"
	"edukaster/internal/modules/payment"
	sessionpkg "edukaster/internal/modules/session"
	"edukaster/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// English Proficiency cohorts have a fixed per-seat price and run for
// six weeks.
var groupSeatPrice = decimal.NewFromInt(140000)

const groupDurationMinutes = 42 * 24 * 60

const defaultDurationMinutes = 60

type Service struct {
	bookings BookingStore
	sessions SessionStore
	wallet   WalletStore
	users    UserStore
	intents  IntentStore
	gateway  Gateway
	notifier Notifier
	txr      TxRunner

	callbackBaseURL string
	now             func() time.Time
}

func NewService(
	bookings BookingStore,
	sessions SessionStore,
	wallet WalletStore,
	users UserStore,
	intents IntentStore,
	gateway Gateway,
	notifier Notifier,
	txr TxRunner,
	callbackBaseURL string,
) *Service {
	return &Service{
		bookings:        bookings,
		sessions:        sessions,
		wallet:          wallet,
		users:           users,
		intents:         intents,
		gateway:         gateway,
		notifier:        notifier,
		txr:             txr,
		callbackBaseURL: callbackBaseURL,
		now:             time.Now,
	}
}

// CreateBooking validates the request, resolves the price and runs one
// of the two payment paths. Wallet bookings materialize immediately;
// gateway bookings only exist after the verification callback.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error) {
	if err := s.normalize(&req); err != nil {
		return nil, err
	}

	tutor, err := s.users.GetByID(ctx, req.TutorID)
	if err != nil || tutor.Role != domain.RoleTutor {
		return nil, ErrTutorNotFound
	}
	profile, err := s.users.GetTutorProfile(ctx, req.TutorID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	amount, err := s.resolveAmount(req, profile)
	if err != nil {
		return nil, err
	}

	if req.SessionType == domain.SessionOneOnOne {
		if err := s.checkSlot(ctx, req, nil); err != nil {
			return nil, err
		}
	} else if err := s.checkNotEnrolled(ctx, req); err != nil {
		return nil, err
	}

	switch req.PaymentMethod {
	case domain.PayWithWallet:
		b, err := s.createWalletBooking(ctx, req, profile, amount)
		if err != nil {
			return nil, err
		}
		s.notifyAdmins(ctx, b)
		return &CreateBookingResult{Booking: b}, nil

	case domain.PayWithPaystack:
		return s.initGatewayBooking(ctx, req, amount)

	default:
		return nil, ErrValidation
	}
}

func (s *Service) normalize(req *CreateBookingRequest) error {
	if req.TutorID == 0 || req.StudentID == 0 || req.CourseTitle == "" || req.ScheduledDate.IsZero() {
		return ErrValidation
	}
	if req.SessionType == "" {
		req.SessionType = domain.SessionOneOnOne
		if req.CourseTitle == domain.GroupCourseTitle {
			req.SessionType = domain.SessionGroup
		}
	}
	switch req.SessionType {
	case domain.SessionOneOnOne:
		if req.Duration <= 0 {
			req.Duration = defaultDurationMinutes
		}
	case domain.SessionGroup:
		req.Duration = groupDurationMinutes
	default:
		return ErrValidation
	}
	return nil
}

func (s *Service) resolveAmount(req CreateBookingRequest, profile *domain.TutorProfile) (decimal.Decimal, error) {
	if req.SessionType == domain.SessionGroup {
		return groupSeatPrice, nil
	}

	if profile != nil && profile.HasCustomFees() {
		return profile.TotalFee(), nil
	}
	if req.Amount.IsPositive() {
		return req.Amount, nil
	}
	return decimal.Zero, ErrInvalidFee
}

// checkSlot reruns the availability overlap predicate against the
// tutor's active bookings. With a nil tx it is a pre-write fast fail;
// inside the wallet transaction it closes the check-then-act race
// together with the database constraint.
func (s *Service) checkSlot(ctx context.Context, req CreateBookingRequest, tx *gorm.DB) error {
	end := req.ScheduledDate.Add(time.Duration(req.Duration) * time.Minute)

	var active []domain.Booking
	var err error
	if tx != nil {
		active, err = s.bookings.ListActiveByTutorUntilTx(tx, req.TutorID, end)
	} else {
		active, err = s.bookings.ListActiveByTutorUntil(ctx, req.TutorID, end)
	}
	if err != nil {
		return err
	}

	for _, b := range active {
		if b.SessionType != domain.SessionOneOnOne {
			continue
		}
		if req.ScheduledDate.Before(b.End()) && b.ScheduledDate.Before(end) {
			return ErrSlotUnavailable
		}
	}
	return nil
}

// checkNotEnrolled fails a repeat cohort join before any money moves.
// The gateway path has no in-transaction guard until the verify
// callback lands, so without this check the card would already be
// charged when the duplicate is detected.
func (s *Service) checkNotEnrolled(ctx context.Context, req CreateBookingRequest) error {
	open, err := s.bookings.FindOpenGroup(ctx, req.TutorID, req.CourseTitle)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	member, err := s.bookings.IsGroupMember(ctx, open.ID, req.StudentID)
	if err != nil {
		return err
	}
	if member {
		return ErrAlreadyEnrolled
	}
	return nil
}

func (s *Service) createWalletBooking(ctx context.Context, req CreateBookingRequest, profile *domain.TutorProfile, amount decimal.Decimal) (*domain.Booking, error) {
	var created *domain.Booking
	err := s.txr.RunInTx(ctx, func(tx *gorm.DB) error {
		if req.SessionType == domain.SessionGroup {
			b, err := s.joinOrCreateGroupTx(tx, req, amount)
			if err != nil {
				return err
			}
			created = b
			return s.debitStudentTx(tx, req.StudentID, amount, b)
		}

		if err := s.checkSlot(ctx, req, tx); err != nil {
			return err
		}

		b := s.newBooking(req, amount, domain.PayWithWallet, nil)
		if err := s.bookings.CreateTx(tx, b); err != nil {
			if errors.Is(err, repository.ErrSlotTaken) {
				return ErrSlotUnavailable
			}
			return err
		}
		if err := s.debitStudentTx(tx, req.StudentID, amount, b); err != nil {
			return err
		}

		tutorShare, adminShare := sessionpkg.ComputeShares(amount, profile)
		if err := s.sessions.CreateTx(tx, &domain.Session{
			BookingID:  b.ID,
			TutorID:    b.TutorID,
			StudentID:  b.StudentID,
			Amount:     amount,
			TutorShare: tutorShare,
			AdminShare: adminShare,
			Status:     domain.SessionScheduled,
		}); err != nil {
			return err
		}

		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// joinOrCreateGroupTx resolves the single open cohort for the tutor,
// creating it when absent, and enrolls the student. The membership
// insert is the atomic add-if-absent: a duplicate join fails before
// any money moves.
func (s *Service) joinOrCreateGroupTx(tx *gorm.DB, req CreateBookingRequest, amount decimal.Decimal) (*domain.Booking, error) {
	open, err := s.bookings.FindOpenGroupTx(tx, req.TutorID, req.CourseTitle)
	if errors.Is(err, repository.ErrNotFound) {
		open = s.newBooking(req, amount, req.PaymentMethod, nil)
		open.StudentID = 0
		if err := s.bookings.CreateTx(tx, open); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if err := s.bookings.AddGroupStudentTx(tx, open.ID, req.StudentID); err != nil {
		if errors.Is(err, repository.ErrAlreadyEnrolled) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}
	return open, nil
}

func (s *Service) debitStudentTx(tx *gorm.DB, studentID int64, amount decimal.Decimal, b *domain.Booking) error {
	bookingID := b.ID
	err := s.wallet.ApplyTx(tx, &domain.WalletTransaction{
		UserID:      studentID,
		Type:        domain.TxDebit,
		Amount:      amount,
		Category:    domain.CategoryBooking,
		Description: fmt.Sprintf("Booking for %s", b.CourseTitle),
		BookingID:   &bookingID,
	})
	if errors.Is(err, repository.ErrInsufficientFunds) {
		return ErrInsufficientFunds
	}
	return err
}

func (s *Service) newBooking(req CreateBookingRequest, amount decimal.Decimal, method domain.PaymentMethod, reference *string) *domain.Booking {
	return &domain.Booking{
		TutorID:           req.TutorID,
		StudentID:         req.StudentID,
		CourseTitle:       req.CourseTitle,
		SessionType:       req.SessionType,
		ScheduledDate:     req.ScheduledDate,
		Duration:          req.Duration,
		Amount:            amount,
		PaymentMethod:     method,
		PaymentStatus:     domain.PaymentPaid,
		Status:            domain.BookingPending,
		PaystackReference: reference,
		UploadedFile:      req.UploadedFile,
	}
}

func (s *Service) initGatewayBooking(ctx context.Context, req CreateBookingRequest, amount decimal.Decimal) (*CreateBookingResult, error) {
	student, err := s.users.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}

	reference := payment.NewReference()
	payload := map[string]any{
		"tutor_id":       req.TutorID,
		"student_id":     req.StudentID,
		"course_title":   req.CourseTitle,
		"scheduled_date": req.ScheduledDate.Format(time.RFC3339),
		"duration":       req.Duration,
		"session_type":   string(req.SessionType),
		"redirect_url":   req.RedirectURL,
	}
	if req.UploadedFile.Filename != "" {
		payload["file_name"] = req.UploadedFile.Filename
		payload["file_original"] = req.UploadedFile.OriginalName
		payload["file_mime"] = req.UploadedFile.MimeType
		payload["file_size"] = req.UploadedFile.Size
		payload["file_url"] = req.UploadedFile.URL
	}

	if err := s.intents.Create(ctx, &domain.PaymentIntent{
		Reference: reference,
		UserID:    req.StudentID,
		Purpose:   domain.PurposeBooking,
		Amount:    amount,
		Payload:   payload,
	}); err != nil {
		return nil, err
	}

	callbackURL := s.callbackBaseURL + "/api/bookings/verify/" + reference
	authURL, err := s.gateway.Initialize(ctx, student.Email, amount, reference, callbackURL, payload)
	if err != nil {
		return nil, err
	}

	return &CreateBookingResult{AuthorizationURL: authURL, Reference: reference}, nil
}

// VerifyPayment handles the gateway redirect. It is safe to call any
// number of times for the same reference: only the caller that flips
// the intent creates records, later calls short-circuit to the
// existing booking.
func (s *Service) VerifyPayment(ctx context.Context, reference string) (*VerifyOutcome, error) {
	intent, err := s.intents.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if intent.Purpose != domain.PurposeBooking {
		return nil, ErrNotFound
	}

	outcome := &VerifyOutcome{
		Reference:   reference,
		Amount:      intent.Amount,
		RedirectURL: stringField(intent.Payload, "redirect_url"),
	}

	if intent.Status == domain.IntentVerified {
		outcome.Status = "success"
		outcome.Booking, _ = s.bookings.GetByReference(ctx, reference)
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

	var created *domain.Booking
	status := "success"
	err = s.txr.RunInTx(ctx, func(tx *gorm.DB) error {
		flipped, err := s.intents.MarkVerifiedTx(tx, reference)
		if err != nil {
			return err
		}
		if !flipped {
			return nil
		}

		req, err := s.requestFromIntent(intent)
		if err != nil {
			return err
		}

		if req.SessionType == domain.SessionGroup {
			b, err := s.joinOrCreateGroupTx(tx, req, intent.Amount)
			if err != nil {
				// The student enrolled through another payment before
				// this callback landed. The card is already charged, so
				// park the money in the wallet.
				if errors.Is(err, ErrAlreadyEnrolled) {
					status = "refunded"
					return s.refundToWalletTx(tx, intent, "Refund: already enrolled in this cohort")
				}
				return err
			}
			created = b
			return nil
		}

		// Slot got taken while the student was on the payment page:
		// money is already collected, so refund it to the wallet
		// instead of double-booking the tutor.
		if err := s.checkSlot(ctx, req, tx); err != nil {
			if errors.Is(err, ErrSlotUnavailable) {
				status = "refunded"
				return s.refundToWalletTx(tx, intent, "Refund: slot no longer available")
			}
			return err
		}

		ref := reference
		b := s.newBooking(req, intent.Amount, domain.PayWithPaystack, &ref)
		if err := s.bookings.CreateTx(tx, b); err != nil {
			if errors.Is(err, repository.ErrSlotTaken) {
				status = "refunded"
				return s.refundToWalletTx(tx, intent, "Refund: slot no longer available")
			}
			return err
		}

		profile, err := s.users.GetTutorProfile(ctx, req.TutorID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		tutorShare, adminShare := sessionpkg.ComputeShares(intent.Amount, profile)
		if err := s.sessions.CreateTx(tx, &domain.Session{
			BookingID:  b.ID,
			TutorID:    b.TutorID,
			StudentID:  b.StudentID,
			Amount:     intent.Amount,
			TutorShare: tutorShare,
			AdminShare: adminShare,
			Status:     domain.SessionScheduled,
		}); err != nil {
			return err
		}

		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created != nil {
		s.notifyAdmins(ctx, created)
	} else if status == "success" {
		// Lost the flip race: another callback already built the booking.
		created, _ = s.bookings.GetByReference(ctx, reference)
	}

	outcome.Status = status
	outcome.Booking = created
	return outcome, nil
}

func (s *Service) refundToWalletTx(tx *gorm.DB, intent *domain.PaymentIntent, description string) error {
	return s.wallet.ApplyTx(tx, &domain.WalletTransaction{
		UserID:      intent.UserID,
		Type:        domain.TxCredit,
		Amount:      intent.Amount,
		Category:    domain.CategoryRefund,
		Description: description,
		Metadata:    map[string]any{"reference": intent.Reference},
	})
}

func (s *Service) requestFromIntent(intent *domain.PaymentIntent) (CreateBookingRequest, error) {
	scheduled, err := time.Parse(time.RFC3339, stringField(intent.Payload, "scheduled_date"))
	if err != nil {
		return CreateBookingRequest{}, fmt.Errorf("corrupt intent payload %s: %w", intent.Reference, err)
	}

	req := CreateBookingRequest{
		TutorID:       int64Field(intent.Payload, "tutor_id"),
		StudentID:     int64Field(intent.Payload, "student_id"),
		CourseTitle:   stringField(intent.Payload, "course_title"),
		ScheduledDate: scheduled,
		Duration:      int(int64Field(intent.Payload, "duration")),
		SessionType:   domain.SessionType(stringField(intent.Payload, "session_type")),
		PaymentMethod: domain.PayWithPaystack,
		UploadedFile: domain.UploadedFile{
			Filename:     stringField(intent.Payload, "file_name"),
			OriginalName: stringField(intent.Payload, "file_original"),
			MimeType:     stringField(intent.Payload, "file_mime"),
			Size:         int64Field(intent.Payload, "file_size"),
			URL:          stringField(intent.Payload, "file_url"),
		},
	}
	return req, nil
}

func (s *Service) notifyAdmins(ctx context.Context, b *domain.Booking) {
	if s.notifier == nil {
		return
	}
	admins, err := s.users.ListAdmins(ctx)
	if err != nil {
		slog.Warn("list admins for notification", "err", err)
		return
	}
	bookingID := b.ID
	for i := range admins {
		if err := s.notifier.Notify(ctx, &admins[i], domain.NotifyBookingRequested,
			"New booking request",
			fmt.Sprintf("Booking #%d for %s awaits approval", b.ID, b.CourseTitle),
			&bookingID); err != nil {
			slog.Warn("admin notification failed", "admin_id", admins[i].ID, "err", err)
		}
	}
}

// GetBooking returns participant-scoped details. The meeting link is
// exposed only once the admin has confirmed the booking.
func (s *Service) GetBooking(ctx context.Context, id, requesterID int64, role string) (*BookingDetails, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	allowed := role == string(domain.RoleAdmin) || b.TutorID == requesterID || b.StudentID == requesterID
	if !allowed && b.SessionType == domain.SessionGroup {
		allowed, err = s.bookings.IsGroupMember(ctx, b.ID, requesterID)
		if err != nil {
			return nil, err
		}
	}
	if !allowed {
		return nil, ErrForbidden
	}

	details := &BookingDetails{Booking: b}
	if b.AdminConfirmed {
		details.MeetingLink = b.MeetingLink
	}
	if b.SessionType == domain.SessionGroup {
		details.Roster, err = s.bookings.GroupRoster(ctx, b.ID)
		if err != nil {
			return nil, err
		}
	}
	return details, nil
}

func (s *Service) ListPending(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.ListPending(ctx)
}

func (s *Service) ListForTutor(ctx context.Context, tutorID int64) ([]domain.Booking, error) {
	return s.bookings.ListConfirmedByTutor(ctx, tutorID)
}

func (s *Service) ListForStudent(ctx context.Context, studentID int64) ([]domain.Booking, error) {
	return s.bookings.ListUpcomingByStudent(ctx, studentID, s.now())
}

func (s *Service) ListTodayForTutor(ctx context.Context, tutorID int64) ([]domain.Booking, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.bookings.ListByTutorBetween(ctx, tutorID, dayStart, dayStart.AddDate(0, 0, 1))
}

func stringField(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func int64Field(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
