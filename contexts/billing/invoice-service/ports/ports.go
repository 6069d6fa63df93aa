package ports

import (
	"context"
	"time"
)

type LineItem struct {
	Description string
	Quantity    float64
	UnitPrice   float64
}

func (li LineItem) Amount() float64 {
	return li.Quantity * li.UnitPrice
}

type Invoice struct {
	InvoiceID     string
	OrgID         string
	OpportunityID string
	Number        string
	LineItems     []LineItem
	Subtotal      float64
	Tax           float64
	Total         float64
	Status        string
	IssuedAt      *time.Time
	DueAt         *time.Time
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CreateInvoiceInput struct {
	OrgID         string
	OpportunityID string
	LineItems     []LineItem
}

type InvoiceFilter struct {
	OrgID  string
	Status string
}

type Repository interface {
	CreateInvoice(ctx context.Context, invoice Invoice) error
	GetInvoice(ctx context.Context, invoiceID string) (Invoice, error)
	GetInvoiceByOpportunity(ctx context.Context, opportunityID string) (Invoice, error)
	UpdateInvoice(ctx context.Context, invoice Invoice) error
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]Invoice, error)
	NextInvoiceNumber(ctx context.Context) (int64, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
