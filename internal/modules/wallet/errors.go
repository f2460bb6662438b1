package wallet

import "errors"

var (
	ErrValidation     = errors.New("invalid wallet request")
	ErrMinimumFunding = errors.New("funding amount below minimum")
	ErrNotFound       = errors.New("not found")
	ErrStudentOnly    = errors.New("wallet operation allowed for students only")
)
