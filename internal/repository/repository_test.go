package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"edukaster/internal/database"
	"edukaster/internal/domain"

	"github.com/shopspring/decimal"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, role domain.Role, balance int64) *domain.User {
	t.Helper()
	u := &domain.User{
		Name:          "Test User",
		Email:         fmt.Sprintf("user_%d_%s@example.com", time.Now().UnixNano(), role),
		Role:          role,
		WalletBalance: decimal.NewFromInt(balance),
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return u
}

func TestWalletLedgerReplayMatchesBalance(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWalletRepository(db)
	u := createUser(t, db, domain.RoleStudent, 0)

	steps := []struct {
		txType   domain.TxType
		category domain.TxCategory
		amount   int64
	}{
		{domain.TxCredit, domain.CategoryFunding, 5000},
		{domain.TxDebit, domain.CategoryBooking, 1500},
		{domain.TxCredit, domain.CategoryRefund, 300},
	}
	for _, s := range steps {
		entry := &domain.WalletTransaction{
			UserID:   u.ID,
			Type:     s.txType,
			Category: s.category,
			Amount:   decimal.NewFromInt(s.amount),
		}
		if err := repo.ApplyTx(db, entry); err != nil {
			t.Fatalf("ApplyTx(%s %d) returned error: %v", s.txType, s.amount, err)
		}
	}

	var fresh domain.User
	if err := db.First(&fresh, u.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if !fresh.WalletBalance.Equal(decimal.NewFromInt(3800)) {
		t.Fatalf("expected balance 3800, got %s", fresh.WalletBalance)
	}

	txns, total, err := repo.ListByUser(context.Background(), u.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if total != 3 || len(txns) != 3 {
		t.Fatalf("expected 3 ledger rows, got total=%d len=%d", total, len(txns))
	}

	// newest first: replay oldest to newest and chain before/after
	replayed := decimal.Zero
	for i := len(txns) - 1; i >= 0; i-- {
		e := txns[i]
		if !e.BalanceBefore.Equal(replayed) {
			t.Fatalf("row %d: balance_before %s, replay says %s", e.ID, e.BalanceBefore, replayed)
		}
		if e.Type == domain.TxCredit {
			replayed = replayed.Add(e.Amount)
		} else {
			replayed = replayed.Sub(e.Amount)
		}
		if !e.BalanceAfter.Equal(replayed) {
			t.Fatalf("row %d: balance_after %s, replay says %s", e.ID, e.BalanceAfter, replayed)
		}
	}
	if !replayed.Equal(fresh.WalletBalance) {
		t.Fatalf("replayed ledger gives %s, cached balance is %s", replayed, fresh.WalletBalance)
	}
}

func TestWalletOverdraftRejectedWithoutWrites(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWalletRepository(db)
	u := createUser(t, db, domain.RoleStudent, 100)

	err := repo.ApplyTx(db, &domain.WalletTransaction{
		UserID:   u.ID,
		Type:     domain.TxDebit,
		Category: domain.CategoryBooking,
		Amount:   decimal.NewFromInt(500),
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	var fresh domain.User
	if err := db.First(&fresh, u.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if !fresh.WalletBalance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance changed on rejected debit: %s", fresh.WalletBalance)
	}

	_, total, err := repo.ListByUser(context.Background(), u.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if total != 0 {
		t.Fatalf("rejected debit left %d ledger rows", total)
	}
}

func createGroupBooking(t *testing.T, db *gorm.DB, tutorID int64) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		TutorID:       tutorID,
		CourseTitle:   domain.GroupCourseTitle,
		SessionType:   domain.SessionGroup,
		ScheduledDate: time.Now().Add(24 * time.Hour),
		Duration:      42 * 24 * 60,
		Amount:        decimal.NewFromInt(140000),
		PaymentMethod: domain.PayWithWallet,
		PaymentStatus: domain.PaymentPaid,
		Status:        domain.BookingPending,
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("failed to create group booking: %v", err)
	}
	return b
}

func TestGroupEnrollmentIsAddIfAbsent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookingRepository(db)

	tutor := createUser(t, db, domain.RoleTutor, 0)
	alice := createUser(t, db, domain.RoleStudent, 0)
	bob := createUser(t, db, domain.RoleStudent, 0)
	b := createGroupBooking(t, db, tutor.ID)

	if err := repo.AddGroupStudentTx(db, b.ID, alice.ID); err != nil {
		t.Fatalf("first enrollment returned error: %v", err)
	}
	if err := repo.AddGroupStudentTx(db, b.ID, bob.ID); err != nil {
		t.Fatalf("second student enrollment returned error: %v", err)
	}

	err := repo.AddGroupStudentTx(db, b.ID, alice.ID)
	if !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled on re-join, got %v", err)
	}

	count, err := repo.CountGroupStudentsTx(db, b.ID)
	if err != nil {
		t.Fatalf("CountGroupStudentsTx returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 enrolled students, got %d", count)
	}

	member, err := repo.IsGroupMember(context.Background(), b.ID, alice.ID)
	if err != nil || !member {
		t.Fatalf("expected alice to be a member, got member=%v err=%v", member, err)
	}
	stranger, err := repo.IsGroupMember(context.Background(), b.ID, 9999)
	if err != nil || stranger {
		t.Fatalf("expected stranger not to be a member, got member=%v err=%v", stranger, err)
	}

	roster, err := repo.GroupRoster(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("GroupRoster returned error: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("expected roster of 2, got %d", len(roster))
	}
}

func createPaidBooking(t *testing.T, db *gorm.DB, tutorID, studentID int64) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		TutorID:       tutorID,
		StudentID:     studentID,
		CourseTitle:   "Calculus",
		SessionType:   domain.SessionOneOnOne,
		ScheduledDate: time.Now().Add(24 * time.Hour),
		Duration:      60,
		Amount:        decimal.NewFromInt(5000),
		PaymentMethod: domain.PayWithWallet,
		PaymentStatus: domain.PaymentPaid,
		Status:        domain.BookingPending,
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("failed to create booking: %v", err)
	}
	return b
}

func TestApproveFlipsExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookingRepository(db)

	tutor := createUser(t, db, domain.RoleTutor, 0)
	student := createUser(t, db, domain.RoleStudent, 0)
	b := createPaidBooking(t, db, tutor.ID, student.ID)

	ok, err := repo.ApproveTx(db, b.ID, "https://meet.example.com/x")
	if err != nil || !ok {
		t.Fatalf("first approval: ok=%v err=%v", ok, err)
	}

	ok, err = repo.ApproveTx(db, b.ID, "https://meet.example.com/y")
	if err != nil {
		t.Fatalf("second approval returned error: %v", err)
	}
	if ok {
		t.Fatal("second approval flipped the booking again")
	}

	fresh, err := repo.GetByID(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if !fresh.AdminConfirmed || fresh.Status != domain.BookingConfirmed {
		t.Fatalf("booking not confirmed: admin_confirmed=%v status=%s", fresh.AdminConfirmed, fresh.Status)
	}
	if fresh.MeetingLink != "https://meet.example.com/x" {
		t.Fatalf("losing approval overwrote the meeting link: %s", fresh.MeetingLink)
	}
}

func TestCompleteRequiresConfirmedBooking(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookingRepository(db)

	tutor := createUser(t, db, domain.RoleTutor, 0)
	student := createUser(t, db, domain.RoleStudent, 0)
	b := createPaidBooking(t, db, tutor.ID, student.ID)
	now := time.Now()

	ok, err := repo.CompleteTx(db, b.ID, now)
	if err != nil {
		t.Fatalf("CompleteTx returned error: %v", err)
	}
	if ok {
		t.Fatal("completed a booking that was never confirmed")
	}

	if _, err := repo.ApproveTx(db, b.ID, "https://meet.example.com/x"); err != nil {
		t.Fatalf("approval returned error: %v", err)
	}
	ok, err = repo.CompleteTx(db, b.ID, now)
	if err != nil || !ok {
		t.Fatalf("completion after approval: ok=%v err=%v", ok, err)
	}

	ok, err = repo.ForceCompleteTx(db, b.ID, now)
	if err != nil {
		t.Fatalf("ForceCompleteTx returned error: %v", err)
	}
	if ok {
		t.Fatal("force-complete touched an already completed booking")
	}
}

func TestSessionSettlesExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)

	tutor := createUser(t, db, domain.RoleTutor, 0)
	student := createUser(t, db, domain.RoleStudent, 0)
	b := createPaidBooking(t, db, tutor.ID, student.ID)

	s := &domain.Session{
		BookingID: b.ID,
		TutorID:   tutor.ID,
		StudentID: student.ID,
		Amount:    decimal.NewFromInt(5000),
		Status:    domain.SessionScheduled,
	}
	if err := repo.CreateTx(db, s); err != nil {
		t.Fatalf("CreateTx returned error: %v", err)
	}

	err := repo.CreateTx(db, &domain.Session{
		BookingID: b.ID,
		TutorID:   tutor.ID,
		StudentID: student.ID,
		Amount:    decimal.NewFromInt(5000),
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for second settlement row, got %v", err)
	}

	now := time.Now()
	ok, err := repo.CompleteTx(db, b.ID, decimal.NewFromInt(4000), decimal.NewFromInt(1000), now)
	if err != nil || !ok {
		t.Fatalf("first settlement: ok=%v err=%v", ok, err)
	}
	ok, err = repo.CompleteTx(db, b.ID, decimal.NewFromInt(4000), decimal.NewFromInt(1000), now)
	if err != nil {
		t.Fatalf("second settlement returned error: %v", err)
	}
	if ok {
		t.Fatal("settlement ran twice for the same booking")
	}
}

func TestPaymentIntentVerifiesExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentIntentRepository(db)
	ctx := context.Background()

	pi := &domain.PaymentIntent{
		Reference: "EDU_1_test",
		UserID:    1,
		Purpose:   domain.PurposeFunding,
		Amount:    decimal.NewFromInt(2000),
		Status:    domain.IntentInitialized,
	}
	if err := repo.Create(ctx, pi); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	err := repo.Create(ctx, &domain.PaymentIntent{
		Reference: "EDU_1_test",
		UserID:    1,
		Purpose:   domain.PurposeFunding,
		Amount:    decimal.NewFromInt(2000),
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for reused reference, got %v", err)
	}

	ok, err := repo.MarkVerifiedTx(db, "EDU_1_test")
	if err != nil || !ok {
		t.Fatalf("first verification: ok=%v err=%v", ok, err)
	}
	ok, err = repo.MarkVerifiedTx(db, "EDU_1_test")
	if err != nil {
		t.Fatalf("second verification returned error: %v", err)
	}
	if ok {
		t.Fatal("intent flipped to verified twice")
	}
}
