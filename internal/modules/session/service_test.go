package session

import (
	"context"
	"testing"
	"time"

	"edukaster/internal/domain"
	"edukaster/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingStore) IsGroupMember(ctx context.Context, bookingID, studentID int64) (bool, error) {
	args := m.Called(ctx, bookingID, studentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) CompleteTx(tx *gorm.DB, id int64, completedAt time.Time) (bool, error) {
	args := m.Called(tx, id, completedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) ForceCompleteTx(tx *gorm.DB, id int64, completedAt time.Time) (bool, error) {
	args := m.Called(tx, id, completedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) RateTx(tx *gorm.DB, id int64, rating int, review string) error {
	args := m.Called(tx, id, rating, review)
	return args.Error(0)
}

func (m *MockBookingStore) CountGroupStudentsTx(tx *gorm.DB, bookingID int64) (int64, error) {
	args := m.Called(tx, bookingID)
	return args.Get(0).(int64), args.Error(1)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) CreateTx(tx *gorm.DB, s *domain.Session) error {
	args := m.Called(tx, s)
	return args.Error(0)
}

func (m *MockSessionStore) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Session, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionStore) CompleteTx(tx *gorm.DB, bookingID int64, tutorShare, adminShare decimal.Decimal, completedAt time.Time) (bool, error) {
	args := m.Called(tx, bookingID, tutorShare, adminShare, completedAt)
	return args.Bool(0), args.Error(1)
}

type MockWalletStore struct {
	mock.Mock
}

func (m *MockWalletStore) ApplyTx(tx *gorm.DB, entry *domain.WalletTransaction) error {
	args := m.Called(tx, entry)
	return args.Error(0)
}

type MockTutorStore struct {
	mock.Mock
}

func (m *MockTutorStore) GetTutorProfileTx(tx *gorm.DB, tutorID int64) (*domain.TutorProfile, error) {
	args := m.Called(tx, tutorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TutorProfile), args.Error(1)
}

func (m *MockTutorStore) AddEarningsTx(tx *gorm.DB, tutorID int64, amount decimal.Decimal) error {
	args := m.Called(tx, tutorID, amount)
	return args.Error(0)
}

func (m *MockTutorStore) UpdateRatingTx(tx *gorm.DB, tutorID int64, rating float64, totalRatings int64) error {
	args := m.Called(tx, tutorID, rating, totalRatings)
	return args.Error(0)
}

type fakeTxRunner struct{}

func (fakeTxRunner) RunInTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newFixture() (*MockBookingStore, *MockSessionStore, *MockWalletStore, *MockTutorStore, *Service) {
	bookings := new(MockBookingStore)
	sessions := new(MockSessionStore)
	wallet := new(MockWalletStore)
	tutors := new(MockTutorStore)
	svc := NewService(bookings, sessions, wallet, tutors, fakeTxRunner{})
	return bookings, sessions, wallet, tutors, svc
}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:            10,
		TutorID:       2,
		StudentID:     1,
		CourseTitle:   "Calculus",
		SessionType:   domain.SessionOneOnOne,
		Status:        domain.BookingConfirmed,
		PaymentStatus: domain.PaymentPaid,
		Amount:        d(5000),
	}
}

func TestCompleteBooking_PaysTutorOnce(t *testing.T) {
	bookings, sessions, wallet, tutors, svc := newFixture()

	bookings.On("GetByID", mock.Anything, int64(10)).Return(confirmedBooking(), nil)
	bookings.On("CompleteTx", mock.Anything, int64(10), mock.Anything).Return(true, nil)
	tutors.On("GetTutorProfileTx", mock.Anything, int64(2)).Return(&domain.TutorProfile{
		UserID: 2, TutorFee: d(4000), AdminFee: d(1000),
	}, nil)
	sessions.On("CompleteTx", mock.Anything, int64(10), d(4000), d(1000), mock.Anything).Return(true, nil)
	wallet.On("ApplyTx", mock.Anything, mock.MatchedBy(func(e *domain.WalletTransaction) bool {
		return e.UserID == 2 &&
			e.Type == domain.TxCredit &&
			e.Category == domain.CategoryPayout &&
			e.Amount.Equal(d(4000))
	})).Return(nil)
	tutors.On("AddEarningsTx", mock.Anything, int64(2), d(4000)).Return(nil)

	err := svc.CompleteBooking(context.Background(), 10, 1)
	require.NoError(t, err)

	wallet.AssertNumberOfCalls(t, "ApplyTx", 1)
	tutors.AssertExpectations(t)
}

func TestCompleteBooking_AlreadyCompleted(t *testing.T) {
	bookings, _, wallet, _, svc := newFixture()

	b := confirmedBooking()
	b.Status = domain.BookingCompleted
	bookings.On("GetByID", mock.Anything, int64(10)).Return(b, nil)

	err := svc.CompleteBooking(context.Background(), 10, 1)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	wallet.AssertNotCalled(t, "ApplyTx", mock.Anything, mock.Anything)
}

func TestCompleteBooking_RaceLosesToConditionalUpdate(t *testing.T) {
	bookings, _, wallet, _, svc := newFixture()

	bookings.On("GetByID", mock.Anything, int64(10)).Return(confirmedBooking(), nil)
	bookings.On("CompleteTx", mock.Anything, int64(10), mock.Anything).Return(false, nil)

	err := svc.CompleteBooking(context.Background(), 10, 1)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	wallet.AssertNotCalled(t, "ApplyTx", mock.Anything, mock.Anything)
}

func TestCompleteBooking_Forbidden(t *testing.T) {
	bookings, _, _, _, svc := newFixture()

	bookings.On("GetByID", mock.Anything, int64(10)).Return(confirmedBooking(), nil)

	err := svc.CompleteBooking(context.Background(), 10, 999)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCompleteBooking_GroupHasNoPayout(t *testing.T) {
	bookings, sessions, wallet, _, svc := newFixture()

	b := confirmedBooking()
	b.SessionType = domain.SessionGroup
	b.StudentID = 0
	bookings.On("GetByID", mock.Anything, int64(10)).Return(b, nil)
	bookings.On("IsGroupMember", mock.Anything, int64(10), int64(1)).Return(true, nil)
	bookings.On("CompleteTx", mock.Anything, int64(10), mock.Anything).Return(true, nil)

	err := svc.CompleteBooking(context.Background(), 10, 1)
	require.NoError(t, err)

	wallet.AssertNotCalled(t, "ApplyTx", mock.Anything, mock.Anything)
	sessions.AssertNotCalled(t, "CompleteTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRateBooking_UpdatesIncrementalMean(t *testing.T) {
	bookings, _, wallet, tutors, svc := newFixture()

	bookings.On("GetByID", mock.Anything, int64(10)).Return(confirmedBooking(), nil)
	bookings.On("RateTx", mock.Anything, int64(10), 5, "great").Return(nil)
	bookings.On("ForceCompleteTx", mock.Anything, int64(10), mock.Anything).Return(true, nil)
	tutors.On("GetTutorProfileTx", mock.Anything, int64(2)).Return(&domain.TutorProfile{
		UserID: 2, Rating: 4.0, TotalRatings: 2,
	}, nil)
	tutors.On("UpdateRatingTx", mock.Anything, int64(2), mock.MatchedBy(func(avg float64) bool {
		return avg > 4.33 && avg < 4.34
	}), int64(3)).Return(nil)

	err := svc.RateBooking(context.Background(), 10, 1, 5, "great")
	require.NoError(t, err)

	wallet.AssertNotCalled(t, "ApplyTx", mock.Anything, mock.Anything)
	tutors.AssertExpectations(t)
}

func TestRateBooking_InvalidRating(t *testing.T) {
	_, _, _, _, svc := newFixture()

	assert.ErrorIs(t, svc.RateBooking(context.Background(), 10, 1, 0, ""), ErrInvalidRating)
	assert.ErrorIs(t, svc.RateBooking(context.Background(), 10, 1, 6, ""), ErrInvalidRating)
}

func TestRateBooking_OnlyStudentMayRate(t *testing.T) {
	bookings, _, _, _, svc := newFixture()

	bookings.On("GetByID", mock.Anything, int64(10)).Return(confirmedBooking(), nil)

	err := svc.RateBooking(context.Background(), 10, 42, 5, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGroupPayout_CreditsPerSeatTotalOnce(t *testing.T) {
	bookings, sessions, wallet, tutors, svc := newFixture()

	b := confirmedBooking()
	b.SessionType = domain.SessionGroup
	b.StudentID = 0
	b.CourseTitle = domain.GroupCourseTitle
	b.Amount = d(140000)
	bookings.On("GetByID", mock.Anything, int64(10)).Return(b, nil)
	bookings.On("CountGroupStudentsTx", mock.Anything, int64(10)).Return(int64(3), nil)
	tutors.On("GetTutorProfileTx", mock.Anything, int64(2)).Return(&domain.TutorProfile{UserID: 2}, nil)
	sessions.On("CreateTx", mock.Anything, mock.MatchedBy(func(s *domain.Session) bool {
		return s.BookingID == 10 &&
			s.Amount.Equal(d(420000)) &&
			s.TutorShare.Equal(d(336000)) &&
			s.AdminShare.Equal(d(84000))
	})).Return(nil)
	wallet.On("ApplyTx", mock.Anything, mock.MatchedBy(func(e *domain.WalletTransaction) bool {
		return e.UserID == 2 && e.Amount.Equal(d(336000)) && e.AdminID != nil && *e.AdminID == 77
	})).Return(nil)
	tutors.On("AddEarningsTx", mock.Anything, int64(2), mock.Anything).Return(nil)
	bookings.On("ForceCompleteTx", mock.Anything, int64(10), mock.Anything).Return(true, nil)

	paid, err := svc.GroupPayout(context.Background(), 10, 77)
	require.NoError(t, err)
	assert.True(t, paid.Equal(d(336000)))
}

func TestGroupPayout_SecondCallFails(t *testing.T) {
	bookings, sessions, wallet, tutors, svc := newFixture()

	b := confirmedBooking()
	b.SessionType = domain.SessionGroup
	bookings.On("GetByID", mock.Anything, int64(10)).Return(b, nil)
	bookings.On("CountGroupStudentsTx", mock.Anything, int64(10)).Return(int64(3), nil)
	tutors.On("GetTutorProfileTx", mock.Anything, int64(2)).Return(&domain.TutorProfile{UserID: 2}, nil)
	sessions.On("CreateTx", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.GroupPayout(context.Background(), 10, 77)
	assert.ErrorIs(t, err, ErrAlreadyPaidOut)
	wallet.AssertNotCalled(t, "ApplyTx", mock.Anything, mock.Anything)
}

func TestGroupPayout_RejectsIndividualBooking(t *testing.T) {
	bookings, _, _, _, svc := newFixture()

	bookings.On("GetByID", mock.Anything, int64(10)).Return(confirmedBooking(), nil)

	_, err := svc.GroupPayout(context.Background(), 10, 77)
	assert.ErrorIs(t, err, ErrNotGroup)
}
