package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	domainerrors "relish/contexts/billing/invoice-service/domain/errors"
	"relish/contexts/billing/invoice-service/ports"
)

const (
	StatusDraft  = "draft"
	StatusIssued = "issued"
	StatusPaid   = "paid"
	StatusVoid   = "void"

	// Net-30 payment terms, standard for food-service accounts.
	defaultPaymentTerm = 30 * 24 * time.Hour
)

type Service struct {
	Invoices ports.Repository
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	TaxRate  float64
	Logger   *slog.Logger
}

func (s Service) Create(ctx context.Context, input ports.CreateInvoiceInput) (ports.Invoice, error) {
	orgID := strings.TrimSpace(input.OrgID)
	if orgID == "" || len(input.LineItems) == 0 {
		return ports.Invoice{}, domainerrors.ErrInvalidInvoice
	}
	items, err := normalizeLineItems(input.LineItems)
	if err != nil {
		return ports.Invoice{}, err
	}

	invoiceID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Invoice{}, err
	}
	sequence, err := s.Invoices.NextInvoiceNumber(ctx)
	if err != nil {
		return ports.Invoice{}, err
	}

	now := s.Clock.Now().UTC()
	invoice := ports.Invoice{
		InvoiceID:     invoiceID,
		OrgID:         orgID,
		OpportunityID: strings.TrimSpace(input.OpportunityID),
		Number:        fmt.Sprintf("INV-%06d", sequence),
		LineItems:     items,
		Status:        StatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	invoice.Subtotal, invoice.Tax, invoice.Total = s.totals(items)

	if err := s.Invoices.CreateInvoice(ctx, invoice); err != nil {
		return ports.Invoice{}, err
	}

	s.logger().Info("invoice drafted",
		"event", "invoice_drafted",
		"module", "billing/invoice-service",
		"layer", "application",
		"invoice_id", invoice.InvoiceID,
		"number", invoice.Number,
		"org_id", invoice.OrgID,
	)
	return invoice, nil
}

// DraftFromOpportunity is the consumer entry point for opportunity.won.
// Redelivered events hit the existing-invoice check and return the prior
// draft, so one opportunity never yields two invoices.
func (s Service) DraftFromOpportunity(ctx context.Context, orgID, opportunityID, title string, monthlyValue float64) (ports.Invoice, error) {
	opportunityID = strings.TrimSpace(opportunityID)
	if opportunityID == "" {
		return ports.Invoice{}, domainerrors.ErrInvalidInvoice
	}

	existing, err := s.Invoices.GetInvoiceByOpportunity(ctx, opportunityID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domainerrors.ErrInvoiceNotFound) {
		return ports.Invoice{}, err
	}

	description := strings.TrimSpace(title)
	if description == "" {
		description = "Monthly supply agreement"
	}
	return s.Create(ctx, ports.CreateInvoiceInput{
		OrgID:         orgID,
		OpportunityID: opportunityID,
		LineItems: []ports.LineItem{
			{Description: description + " (first month)", Quantity: 1, UnitPrice: monthlyValue},
		},
	})
}

func (s Service) Get(ctx context.Context, invoiceID string) (ports.Invoice, error) {
	return s.Invoices.GetInvoice(ctx, strings.TrimSpace(invoiceID))
}

// UpdateLineItems replaces the line items of a draft and recomputes totals.
func (s Service) UpdateLineItems(ctx context.Context, invoiceID string, lineItems []ports.LineItem) (ports.Invoice, error) {
	invoice, err := s.Invoices.GetInvoice(ctx, strings.TrimSpace(invoiceID))
	if err != nil {
		return ports.Invoice{}, err
	}
	if invoice.Status != StatusDraft {
		return ports.Invoice{}, domainerrors.ErrInvalidInvoiceOp
	}
	if len(lineItems) == 0 {
		return ports.Invoice{}, domainerrors.ErrInvalidInvoice
	}
	items, err := normalizeLineItems(lineItems)
	if err != nil {
		return ports.Invoice{}, err
	}

	invoice.LineItems = items
	invoice.Subtotal, invoice.Tax, invoice.Total = s.totals(items)
	invoice.UpdatedAt = s.Clock.Now().UTC()

	if err := s.Invoices.UpdateInvoice(ctx, invoice); err != nil {
		return ports.Invoice{}, err
	}
	return invoice, nil
}

func (s Service) Issue(ctx context.Context, invoiceID string) (ports.Invoice, error) {
	invoice, err := s.Invoices.GetInvoice(ctx, strings.TrimSpace(invoiceID))
	if err != nil {
		return ports.Invoice{}, err
	}
	if invoice.Status != StatusDraft {
		return ports.Invoice{}, domainerrors.ErrInvalidInvoiceOp
	}

	now := s.Clock.Now().UTC()
	due := now.Add(defaultPaymentTerm)
	invoice.Status = StatusIssued
	invoice.IssuedAt = &now
	invoice.DueAt = &due
	invoice.UpdatedAt = now

	if err := s.Invoices.UpdateInvoice(ctx, invoice); err != nil {
		return ports.Invoice{}, err
	}

	s.logger().Info("invoice issued",
		"event", "invoice_issued",
		"module", "billing/invoice-service",
		"layer", "application",
		"invoice_id", invoice.InvoiceID,
		"number", invoice.Number,
		"total", invoice.Total,
	)
	return invoice, nil
}

func (s Service) MarkPaid(ctx context.Context, invoiceID string) (ports.Invoice, error) {
	invoice, err := s.Invoices.GetInvoice(ctx, strings.TrimSpace(invoiceID))
	if err != nil {
		return ports.Invoice{}, err
	}
	if invoice.Status != StatusIssued {
		return ports.Invoice{}, domainerrors.ErrInvalidInvoiceOp
	}

	now := s.Clock.Now().UTC()
	invoice.Status = StatusPaid
	invoice.PaidAt = &now
	invoice.UpdatedAt = now

	if err := s.Invoices.UpdateInvoice(ctx, invoice); err != nil {
		return ports.Invoice{}, err
	}
	return invoice, nil
}

func (s Service) Void(ctx context.Context, invoiceID string) (ports.Invoice, error) {
	invoice, err := s.Invoices.GetInvoice(ctx, strings.TrimSpace(invoiceID))
	if err != nil {
		return ports.Invoice{}, err
	}
	if invoice.Status != StatusDraft && invoice.Status != StatusIssued {
		return ports.Invoice{}, domainerrors.ErrInvalidInvoiceOp
	}

	invoice.Status = StatusVoid
	invoice.UpdatedAt = s.Clock.Now().UTC()

	if err := s.Invoices.UpdateInvoice(ctx, invoice); err != nil {
		return ports.Invoice{}, err
	}
	return invoice, nil
}

func (s Service) List(ctx context.Context, filter ports.InvoiceFilter) ([]ports.Invoice, error) {
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	if status != "" && status != StatusDraft && status != StatusIssued && status != StatusPaid && status != StatusVoid {
		return nil, domainerrors.ErrInvalidInvoice
	}
	filter.Status = status
	return s.Invoices.ListInvoices(ctx, filter)
}

func (s Service) totals(items []ports.LineItem) (subtotal, tax, total float64) {
	for _, item := range items {
		subtotal += item.Amount()
	}
	subtotal = roundCents(subtotal)
	tax = roundCents(subtotal * s.TaxRate)
	total = roundCents(subtotal + tax)
	return subtotal, tax, total
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func normalizeLineItems(items []ports.LineItem) ([]ports.LineItem, error) {
	result := make([]ports.LineItem, 0, len(items))
	for _, item := range items {
		description := strings.TrimSpace(item.Description)
		if description == "" || item.Quantity <= 0 || item.UnitPrice < 0 {
			return nil, domainerrors.ErrInvalidInvoice
		}
		result = append(result, ports.LineItem{
			Description: description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return result, nil
}

func roundCents(value float64) float64 {
	return math.Round(value*100) / 100
}
