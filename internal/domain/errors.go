package domain

import "errors"

var (
	ErrValidation = errors.New("validation failed")
	ErrConnection = errors.New("store connection failed")
	ErrStorage    = errors.New("store write failed")
	ErrUpstream   = errors.New("upstream service failed")
)

// ValidationError carries the message shown to the user for a rejected slot.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return "invalid " + e.Field + ": " + e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }
