package availability

import (
	"context"
	"time"

	"edukaster/internal/domain"
)

// RuleSource provides a tutor's weekly availability template.
type RuleSource interface {
	ListActiveByTutor(ctx context.Context, tutorID int64) ([]domain.AvailabilityRule, error)
	Replace(ctx context.Context, tutorID int64, rules []domain.AvailabilityRule) error
}

// BookingSource provides the active bookings that occupy slots.
type BookingSource interface {
	ListActiveByTutorUntil(ctx context.Context, tutorID int64, until time.Time) ([]domain.Booking, error)
}
