package errors

import "errors"

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrInvalidTask  = errors.New("invalid task input")
	ErrTaskNotOpen  = errors.New("task is not open")
)
