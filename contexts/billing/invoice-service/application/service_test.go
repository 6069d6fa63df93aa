package application

import (
	"context"
	"testing"

	"relish/contexts/billing/invoice-service/adapters/memory"
	domainerrors "relish/contexts/billing/invoice-service/domain/errors"
	"relish/contexts/billing/invoice-service/ports"
)

func newService(taxRate float64) Service {
	store := memory.NewStore(nil)
	return Service{Invoices: store, Clock: store, IDGen: store, TaxRate: taxRate}
}

func draftInvoice(t *testing.T, service Service) ports.Invoice {
	t.Helper()
	invoice, err := service.Create(context.Background(), ports.CreateInvoiceInput{
		OrgID: "org_1",
		LineItems: []ports.LineItem{
			{Description: "Cold brew concentrate, 12x1L", Quantity: 4, UnitPrice: 55},
			{Description: "Delivery", Quantity: 1, UnitPrice: 15},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return invoice
}

func TestCreateInvoiceComputesTotals(t *testing.T) {
	service := newService(0.1)

	invoice := draftInvoice(t, service)
	if invoice.Subtotal != 235 {
		t.Fatalf("subtotal wrong: %v", invoice.Subtotal)
	}
	if invoice.Tax != 23.5 {
		t.Fatalf("tax wrong: %v", invoice.Tax)
	}
	if invoice.Total != 258.5 {
		t.Fatalf("total wrong: %v", invoice.Total)
	}
	if invoice.Status != StatusDraft {
		t.Fatalf("new invoice should be a draft, got %s", invoice.Status)
	}
}

func TestInvoiceNumbersAreSequential(t *testing.T) {
	service := newService(0)

	first := draftInvoice(t, service)
	second := draftInvoice(t, service)
	if first.Number != "INV-000001" || second.Number != "INV-000002" {
		t.Fatalf("numbering wrong: %s, %s", first.Number, second.Number)
	}
}

func TestIssueSetsDueDate(t *testing.T) {
	service := newService(0)
	invoice := draftInvoice(t, service)

	issued, err := service.Issue(context.Background(), invoice.InvoiceID)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if issued.Status != StatusIssued || issued.IssuedAt == nil || issued.DueAt == nil {
		t.Fatalf("issue state wrong: %+v", issued)
	}
	if !issued.DueAt.After(*issued.IssuedAt) {
		t.Fatalf("due date must be after issue date")
	}

	if _, err := service.Issue(context.Background(), invoice.InvoiceID); err != domainerrors.ErrInvalidInvoiceOp {
		t.Fatalf("expected op error on double issue, got %v", err)
	}
}

func TestPaymentRequiresIssuedInvoice(t *testing.T) {
	service := newService(0)
	invoice := draftInvoice(t, service)

	if _, err := service.MarkPaid(context.Background(), invoice.InvoiceID); err != domainerrors.ErrInvalidInvoiceOp {
		t.Fatalf("expected op error on paying a draft, got %v", err)
	}

	if _, err := service.Issue(context.Background(), invoice.InvoiceID); err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	paid, err := service.MarkPaid(context.Background(), invoice.InvoiceID)
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if paid.Status != StatusPaid || paid.PaidAt == nil {
		t.Fatalf("payment not recorded: %+v", paid)
	}
}

func TestPaidInvoiceCannotBeVoided(t *testing.T) {
	service := newService(0)
	invoice := draftInvoice(t, service)

	if _, err := service.Issue(context.Background(), invoice.InvoiceID); err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := service.MarkPaid(context.Background(), invoice.InvoiceID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if _, err := service.Void(context.Background(), invoice.InvoiceID); err != domainerrors.ErrInvalidInvoiceOp {
		t.Fatalf("expected op error, got %v", err)
	}
}

func TestLineItemEditsLimitedToDrafts(t *testing.T) {
	service := newService(0)
	invoice := draftInvoice(t, service)

	updated, err := service.UpdateLineItems(context.Background(), invoice.InvoiceID, []ports.LineItem{
		{Description: "Cold brew concentrate, 12x1L", Quantity: 6, UnitPrice: 52},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Subtotal != 312 {
		t.Fatalf("totals not recomputed: %v", updated.Subtotal)
	}

	if _, err := service.Issue(context.Background(), invoice.InvoiceID); err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := service.UpdateLineItems(context.Background(), invoice.InvoiceID, []ports.LineItem{
		{Description: "Something else", Quantity: 1, UnitPrice: 1},
	}); err != domainerrors.ErrInvalidInvoiceOp {
		t.Fatalf("expected op error on editing issued invoice, got %v", err)
	}
}

func TestDraftFromOpportunityIsIdempotent(t *testing.T) {
	service := newService(0)

	first, err := service.DraftFromOpportunity(context.Background(), "org_1", "opp_1", "Standing order", 1800)
	if err != nil {
		t.Fatalf("draft failed: %v", err)
	}
	second, err := service.DraftFromOpportunity(context.Background(), "org_1", "opp_1", "Standing order", 1800)
	if err != nil {
		t.Fatalf("redelivery draft failed: %v", err)
	}
	if first.InvoiceID != second.InvoiceID {
		t.Fatalf("duplicate invoice for one opportunity: %s vs %s", first.InvoiceID, second.InvoiceID)
	}

	invoices, err := service.List(context.Background(), ports.InvoiceFilter{OrgID: "org_1"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(invoices) != 1 {
		t.Fatalf("expected 1 invoice, got %d", len(invoices))
	}
	if invoices[0].Total != 1800 {
		t.Fatalf("drafted total wrong: %v", invoices[0].Total)
	}
}
