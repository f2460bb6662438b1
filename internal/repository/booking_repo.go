package repository

import (
	"context"
	"time"

	"edukaster/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.CreateTx(r.db.WithContext(ctx), b)
}

func (r *BookingRepository) CreateTx(tx *gorm.DB, b *domain.Booking) error {
	if err := tx.Create(b).Error; err != nil {
		if isExclusionError(err) {
			return ErrSlotTaken
		}
		if isUniqueConstraintError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &b, nil
}

func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Where("paystack_reference = ?", reference).First(&b).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &b, nil
}

func (r *BookingRepository) GetByIDTx(tx *gorm.DB, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &b, nil
}

// ListActiveByTutorUntil returns pending and confirmed bookings for a
// tutor starting before the given instant. Callers run the half-open
// overlap test in Go so the query stays portable across drivers.
func (r *BookingRepository) ListActiveByTutorUntil(ctx context.Context, tutorID int64, until time.Time) ([]domain.Booking, error) {
	return r.listActiveByTutorUntil(r.db.WithContext(ctx), tutorID, until)
}

func (r *BookingRepository) ListActiveByTutorUntilTx(tx *gorm.DB, tutorID int64, until time.Time) ([]domain.Booking, error) {
	return r.listActiveByTutorUntil(tx, tutorID, until)
}

func (r *BookingRepository) listActiveByTutorUntil(tx *gorm.DB, tutorID int64, until time.Time) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := tx.
		Where("tutor_id = ? AND status IN ? AND scheduled_date < ?",
			tutorID, []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed}, until).
		Order("scheduled_date").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindOpenGroup returns the single open group booking for a tutor and
// course, or ErrNotFound when none is open.
func (r *BookingRepository) FindOpenGroup(ctx context.Context, tutorID int64, courseTitle string) (*domain.Booking, error) {
	return r.findOpenGroup(r.db.WithContext(ctx), tutorID, courseTitle)
}

// FindOpenGroupTx is the locking variant used inside the enrollment
// transaction.
func (r *BookingRepository) FindOpenGroupTx(tx *gorm.DB, tutorID int64, courseTitle string) (*domain.Booking, error) {
	return r.findOpenGroup(tx.Clauses(clause.Locking{Strength: "UPDATE"}), tutorID, courseTitle)
}

func (r *BookingRepository) findOpenGroup(tx *gorm.DB, tutorID int64, courseTitle string) (*domain.Booking, error) {
	var b domain.Booking
	err := tx.
		Where("tutor_id = ? AND course_title = ? AND session_type = ? AND status IN ?",
			tutorID, courseTitle, domain.SessionGroup,
			[]domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed}).
		First(&b).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &b, nil
}

// AddGroupStudentTx inserts a cohort membership row. The unique
// (booking_id, student_id) index turns a repeat join into
// ErrAlreadyEnrolled.
func (r *BookingRepository) AddGroupStudentTx(tx *gorm.DB, bookingID, studentID int64) error {
	m := domain.BookingStudent{BookingID: bookingID, StudentID: studentID}
	if err := tx.Create(&m).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrAlreadyEnrolled
		}
		return err
	}
	return nil
}

func (r *BookingRepository) CountGroupStudentsTx(tx *gorm.DB, bookingID int64) (int64, error) {
	var cnt int64
	err := tx.Model(&domain.BookingStudent{}).Where("booking_id = ?", bookingID).Count(&cnt).Error
	return cnt, err
}

// GroupRoster returns the users enrolled in a group booking.
func (r *BookingRepository) GroupRoster(ctx context.Context, bookingID int64) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Joins("JOIN booking_students bs ON bs.student_id = users.id").
		Where("bs.booking_id = ?", bookingID).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *BookingRepository) IsGroupMember(ctx context.Context, bookingID, studentID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.BookingStudent{}).
		Where("booking_id = ? AND student_id = ?", bookingID, studentID).
		Count(&cnt).Error
	return cnt > 0, err
}

// ApproveTx flips a paid pending booking to confirmed. The conditional
// update makes concurrent approvals race on rows affected instead of on
// a read-then-write.
func (r *BookingRepository) ApproveTx(tx *gorm.DB, id int64, meetingLink string) (bool, error) {
	res := tx.Model(&domain.Booking{}).
		Where("id = ? AND admin_confirmed = ? AND status = ? AND payment_status = ?",
			id, false, domain.BookingPending, domain.PaymentPaid).
		Updates(map[string]any{
			"admin_confirmed": true,
			"status":          domain.BookingConfirmed,
			"meeting_link":    meetingLink,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CompleteTx marks a confirmed booking completed, exactly once.
func (r *BookingRepository) CompleteTx(tx *gorm.DB, id int64, completedAt time.Time) (bool, error) {
	res := tx.Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, domain.BookingConfirmed).
		Updates(map[string]any{
			"status":       domain.BookingCompleted,
			"completed_at": completedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ForceCompleteTx completes a booking from any non-terminal state.
// Rating uses it: a rated session is complete by definition.
func (r *BookingRepository) ForceCompleteTx(tx *gorm.DB, id int64, completedAt time.Time) (bool, error) {
	res := tx.Model(&domain.Booking{}).
		Where("id = ? AND status NOT IN ?", id,
			[]domain.BookingStatus{domain.BookingCompleted, domain.BookingCancelled}).
		Updates(map[string]any{
			"status":       domain.BookingCompleted,
			"completed_at": completedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *BookingRepository) RateTx(tx *gorm.DB, id int64, rating int, review string) error {
	return tx.Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{"rating": rating, "review": review}).Error
}

func (r *BookingRepository) ListPending(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND payment_status = ?", domain.BookingPending, domain.PaymentPaid).
		Order("scheduled_date").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) ListConfirmedByTutor(ctx context.Context, tutorID int64) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).
		Where("tutor_id = ? AND status = ?", tutorID, domain.BookingConfirmed).
		Order("scheduled_date").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListUpcomingByStudent covers both direct bookings and group cohorts
// the student joined.
func (r *BookingRepository) ListUpcomingByStudent(ctx context.Context, studentID int64, now time.Time) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_date >= ? AND (student_id = ? OR id IN (?))",
			domain.BookingConfirmed, now, studentID,
			r.db.Model(&domain.BookingStudent{}).Select("booking_id").Where("student_id = ?", studentID)).
		Order("scheduled_date").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) ListByTutorBetween(ctx context.Context, tutorID int64, from, to time.Time) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).
		Where("tutor_id = ? AND status = ? AND scheduled_date >= ? AND scheduled_date < ?",
			tutorID, domain.BookingConfirmed, from, to).
		Order("scheduled_date").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
