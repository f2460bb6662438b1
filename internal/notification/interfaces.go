package notification

import (
	"context"

	"edukaster/internal/domain"
)

// Pusher delivers a push message to a device token.
type Pusher interface {
	Push(ctx context.Context, token, title, body string) error
}

// Emailer delivers a plain email.
type Emailer interface {
	Email(ctx context.Context, address, subject, body string) error
}

// Store persists notification intents.
type Store interface {
	Create(ctx context.Context, n *domain.Notification) error
}
