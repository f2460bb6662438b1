package booking

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrTutorNotFound     = errors.New("tutor not found")
	ErrNotFound          = errors.New("booking not found")
	ErrForbidden         = errors.New("not a participant of this booking")
	ErrInvalidFee        = errors.New("tutor has no valid fee configured")
	ErrSlotUnavailable   = errors.New("time slot is not available")
	ErrAlreadyEnrolled   = errors.New("already enrolled in this cohort")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
)
