package main

import (
	"log"
	"os"
	"time"

	"edukaster/internal/database"
	"edukaster/internal/domain"

	"github.com/shopspring/decimal"
)

// Seeds a local database with demo users for manual testing.
func main() {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "edukaster.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed: ", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("migration failed: ", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM wallet_transactions")
	db.Exec("DELETE FROM payment_intents")
	db.Exec("DELETE FROM sessions")
	db.Exec("DELETE FROM booking_students")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM availability_rules")
	db.Exec("DELETE FROM tutor_profiles")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")

	admin := domain.User{Name: "Admin", Email: "admin@edukaster.app", Role: domain.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("create admin: ", err)
	}

	students := []domain.User{
		{Name: "Amina Bekova", Email: "amina@student.test", Role: domain.RoleStudent, WalletBalance: decimal.NewFromInt(20000)},
		{Name: "Daniyar Omarov", Email: "daniyar@student.test", Role: domain.RoleStudent, WalletBalance: decimal.NewFromInt(150000)},
		{Name: "Aizhan Seit", Email: "aizhan@student.test", Role: domain.RoleStudent},
	}
	if err := db.Create(&students).Error; err != nil {
		log.Fatal("create students: ", err)
	}

	tutors := []struct {
		user     domain.User
		tutorFee int64
		adminFee int64
		days     []string
	}{
		// custom fees configured by the admin
		{domain.User{Name: "Marat Aliyev", Email: "marat@tutor.test", Role: domain.RoleTutor}, 4000, 1000,
			[]string{"Monday", "Wednesday", "Friday"}},
		// default 80/20 split applies
		{domain.User{Name: "Saule Nurtas", Email: "saule@tutor.test", Role: domain.RoleTutor}, 0, 0,
			[]string{"Tuesday", "Thursday", "Saturday"}},
	}
	var tutorIDs []int64
	for _, t := range tutors {
		u := t.user
		if err := db.Create(&u).Error; err != nil {
			log.Fatal("create tutor: ", err)
		}
		profile := domain.TutorProfile{
			UserID:   u.ID,
			TutorFee: decimal.NewFromInt(t.tutorFee),
			AdminFee: decimal.NewFromInt(t.adminFee),
		}
		if err := db.Create(&profile).Error; err != nil {
			log.Fatal("create tutor profile: ", err)
		}
		for _, day := range t.days {
			rule := domain.AvailabilityRule{
				TutorID:  u.ID,
				Day:      day,
				From:     "9:00",
				To:       "6:00",
				AmpmFrom: "AM",
				AmpmTo:   "PM",
				Active:   true,
			}
			if err := db.Create(&rule).Error; err != nil {
				log.Fatal("create availability rule: ", err)
			}
		}
		tutorIDs = append(tutorIDs, u.ID)
		log.Printf("tutor %s ready (fee %d + %d)", u.Name, t.tutorFee, t.adminFee)
	}

	log.Println("Seeding a confirmed booking...")
	booking := domain.Booking{
		TutorID:       tutorIDs[0],
		StudentID:     students[0].ID,
		CourseTitle:   "Calculus",
		SessionType:   domain.SessionOneOnOne,
		ScheduledDate: time.Now().Add(48 * time.Hour).Truncate(time.Hour),
		Duration:      60,
		Amount:        decimal.NewFromInt(5000),
		PaymentMethod: domain.PayWithWallet,
		PaymentStatus: domain.PaymentPaid,
		Status:        domain.BookingPending,
	}
	if err := db.Create(&booking).Error; err != nil {
		log.Fatal("create booking: ", err)
	}

	log.Println("Done.")
}
