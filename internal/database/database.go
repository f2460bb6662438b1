package database

import (
	"log/slog"
	"strings"

	"edukaster/internal/domain"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// registers the pure-Go "sqlite" database/sql driver
	_ "modernc.org/sqlite"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		slog.Info("connecting to postgres")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	slog.Info("using sqlite for local development", "dsn", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.TutorProfile{},
		&domain.AvailabilityRule{},
		&domain.Booking{},
		&domain.BookingStudent{},
		&domain.Session{},
		&domain.WalletTransaction{},
		&domain.PaymentIntent{},
		&domain.Notification{},
	); err != nil {
		return err
	}

	installTutorOverlapConstraint(db)
	return nil
}

// installTutorOverlapConstraint adds a postgres exclusion constraint
// rejecting overlapping active bookings per tutor. Best effort: on
// sqlite the transactional re-check in the booking service is the only
// overlap guard.
func installTutorOverlapConstraint(db *gorm.DB) {
	if db.Dialector.Name() != "postgres" {
		return
	}

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`ALTER TABLE bookings ADD CONSTRAINT idx_no_tutor_overlap
EXCLUDE USING gist (
    tutor_id WITH =,
    tstzrange(scheduled_date, scheduled_date + (duration || ' minutes')::interval, '[)') WITH &&
) WHERE (status IN ('pending', 'confirmed') AND session_type = '1on1')`,
	}
	for _, q := range stmts {
		if err := db.Exec(q).Error; err != nil {
			if !strings.Contains(strings.ToLower(err.Error()), "already exists") {
				slog.Warn("overlap constraint not installed", "err", err)
			}
		}
	}
}
