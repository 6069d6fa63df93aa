package workers

import (
	"context"
	"testing"
	"time"

	"relish/contexts/billing/invoice-service/adapters/memory"
	"relish/contexts/billing/invoice-service/application"
	"relish/contexts/billing/invoice-service/ports"
	"relish/internal/shared/events"
)

func wonEvent(t *testing.T, eventID, opportunityID string) events.Envelope {
	t.Helper()
	envelope, err := events.New(eventID, TopicOpportunityWon, "crm/opportunity-service", opportunityID, time.Now().UTC(), map[string]any{
		"opportunity_id":    opportunityID,
		"org_id":            "org_1",
		"title":             "Standing produce order",
		"est_monthly_value": 2400.0,
	})
	if err != nil {
		t.Fatalf("envelope failed: %v", err)
	}
	return envelope
}

func TestHandleDraftsInvoiceForWonOpportunity(t *testing.T) {
	store := memory.NewStore(nil)
	service := application.Service{Invoices: store, Clock: store, IDGen: store}
	consumer := OpportunityWonConsumer{Service: service}

	if err := consumer.Handle(context.Background(), wonEvent(t, "evt_1", "opp_1")); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	invoice, err := store.GetInvoiceByOpportunity(context.Background(), "opp_1")
	if err != nil {
		t.Fatalf("invoice missing: %v", err)
	}
	if invoice.Status != application.StatusDraft || invoice.Total != 2400 {
		t.Fatalf("draft wrong: %+v", invoice)
	}
}

func TestHandleRedeliveryDraftsOnce(t *testing.T) {
	store := memory.NewStore(nil)
	service := application.Service{Invoices: store, Clock: store, IDGen: store}
	consumer := OpportunityWonConsumer{Service: service}

	// Same opportunity, two delivery attempts with distinct event IDs.
	if err := consumer.Handle(context.Background(), wonEvent(t, "evt_1", "opp_1")); err != nil {
		t.Fatalf("first handle failed: %v", err)
	}
	if err := consumer.Handle(context.Background(), wonEvent(t, "evt_2", "opp_1")); err != nil {
		t.Fatalf("second handle failed: %v", err)
	}

	invoices, err := service.List(context.Background(), ports.InvoiceFilter{OrgID: "org_1"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(invoices) != 1 {
		t.Fatalf("redelivery created a duplicate, got %d invoices", len(invoices))
	}
}
