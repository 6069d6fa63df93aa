package errors

import "errors"

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrInvalidOrganization  = errors.New("invalid organization input")
	ErrOrganizationInactive = errors.New("organization is inactive")
)
