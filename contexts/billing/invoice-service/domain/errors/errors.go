package errors

import "errors"

var (
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrInvalidInvoice   = errors.New("invalid invoice input")
	ErrInvalidInvoiceOp = errors.New("operation not allowed in current invoice status")
)
