package session

import "errors"

var (
	ErrNotFound         = errors.New("booking not found")
	ErrForbidden        = errors.New("not a participant of this booking")
	ErrNotConfirmed     = errors.New("booking is not confirmed")
	ErrAlreadyCompleted = errors.New("booking already completed")
	ErrAlreadyPaidOut   = errors.New("cohort already paid out")
	ErrNotGroup         = errors.New("booking is not a group cohort")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
)
