package leave

import "errors"

var (
	ErrLeaveNotFound    = errors.New("leave not found")
	ErrInvalidLeaveType = errors.New("invalid leave type")
	ErrInvalidStatus    = errors.New("invalid leave status")
	ErrInvalidRange     = errors.New("end date before start date")
	ErrInvalidInput     = errors.New("invalid leave input")
)
