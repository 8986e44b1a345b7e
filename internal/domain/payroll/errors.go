package payroll

import "errors"

var (
	ErrRecordNotFound   = errors.New("payroll record not found")
	ErrEmployeeNotFound = errors.New("payroll employee not found")
	ErrInvalidInput     = errors.New("invalid payroll input")
	ErrVersionConflict  = errors.New("payroll record was modified concurrently")
	ErrNoRecipient      = errors.New("payroll record has no employee email")
)
