package booking

import (
	"time"

	"edukaster/internal/domain"

	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	TutorID       int64                `json:"tutor_id" binding:"required"`
	CourseTitle   string               `json:"course_title" binding:"required"`
	ScheduledDate time.Time            `json:"scheduled_date" binding:"required"`
	Duration      int                  `json:"duration"`
	SessionType   domain.SessionType   `json:"session_type"`
	PaymentMethod domain.PaymentMethod `json:"payment_method" binding:"required"`
	Amount        decimal.Decimal      `json:"amount"`
	RedirectURL   string               `json:"redirect_url"`
	UploadedFile  domain.UploadedFile  `json:"uploaded_file"`

	// Set from the auth context, not the body.
	StudentID int64 `json:"-"`
}

// CreateBookingResult is either a materialized booking (wallet path) or
// a gateway redirect (gateway path).
type CreateBookingResult struct {
	Booking          *domain.Booking `json:"booking,omitempty"`
	AuthorizationURL string          `json:"authorization_url,omitempty"`
	Reference        string          `json:"reference,omitempty"`
}

// VerifyOutcome drives the post-payment redirect.
type VerifyOutcome struct {
	Status      string
	Amount      decimal.Decimal
	Reference   string
	RedirectURL string
	Booking     *domain.Booking
}

type BookingDetails struct {
	*domain.Booking
	MeetingLink string        `json:"meeting_link,omitempty"`
	Roster      []domain.User `json:"roster,omitempty"`
}
