package errors

import "errors"

var (
	ErrOpportunityNotFound = errors.New("opportunity not found")
	ErrInvalidOpportunity  = errors.New("invalid opportunity input")
	ErrInvalidTransition   = errors.New("invalid stage transition")
	ErrOpportunityClosed   = errors.New("opportunity already closed")
	ErrLostReasonRequired  = errors.New("lost reason required")
)
