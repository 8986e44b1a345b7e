package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrManagerNotFound  = errors.New("manager not found")
	ErrEmailTaken       = errors.New("employee email already exists")
	ErrInvalidInput     = errors.New("invalid employee input")
)
