package errors

import "errors"

var (
	ErrInteractionNotFound = errors.New("interaction not found")
	ErrInvalidInteraction  = errors.New("invalid interaction input")
)
