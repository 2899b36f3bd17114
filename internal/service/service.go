package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidToken = errors.New("invalid token")
	ErrTimeout      = errors.New("timeout")

	ErrNotFound     = errors.New("record not found")
	ErrExists       = errors.New("record exists")
	ErrInvalidInput = errors.New("invalid input")
	ErrCannotMove   = errors.New("cannot move further")

	ErrUnknownCollection = errors.New("unknown collection")
)

// InvalidInputError reports a rejected field of a write.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return e.Field + " " + e.Reason
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}
