package circular

import "errors"

var (
	ErrCircularNotFound = errors.New("circular not found")
	ErrInvalidInput     = errors.New("invalid circular input")
	ErrAlreadyPublished = errors.New("circular is already published")
	ErrNoRecipients     = errors.New("no matching employees with an email address")
	ErrDelivery         = errors.New("circular delivery failed")
)
