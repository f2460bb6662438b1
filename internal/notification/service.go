package notification

import (
	"context"
	"fmt"
	"log/slog"

	"edukaster/internal/domain"
)

// Service records notification intents and fans them out to the
// configured channels. Channel failures are logged and reported to the
// caller but never abort the operation that triggered them.
type Service struct {
	store   Store
	pusher  Pusher
	emailer Emailer
}

func NewService(store Store, pusher Pusher, emailer Emailer) *Service {
	return &Service{store: store, pusher: pusher, emailer: emailer}
}

// Notify persists the intent and attempts delivery on every available
// channel. The returned error describes delivery problems only; the
// intent itself is already durable when the error is non-nil, unless
// the store write failed.
func (s *Service) Notify(ctx context.Context, user *domain.User, kind domain.NotificationKind, title, body string, bookingID *int64) error {
	n := &domain.Notification{
		UserID:    user.ID,
		Kind:      kind,
		Title:     title,
		Body:      body,
		BookingID: bookingID,
	}
	if err := s.store.Create(ctx, n); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}

	var firstErr error
	if s.pusher != nil && user.PushToken != "" {
		if err := s.pusher.Push(ctx, user.PushToken, title, body); err != nil {
			slog.Warn("push delivery failed", "user_id", user.ID, "err", err)
			firstErr = err
		}
	}
	if s.emailer != nil && user.Email != "" {
		if err := s.emailer.Email(ctx, user.Email, title, body); err != nil {
			slog.Warn("email delivery failed", "user_id", user.ID, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
