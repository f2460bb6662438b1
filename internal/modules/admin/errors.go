package admin

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("booking not found")
	ErrAlreadyApproved = errors.New("booking already approved")
	ErrNotApprovable   = errors.New("booking is not awaiting approval")
)
