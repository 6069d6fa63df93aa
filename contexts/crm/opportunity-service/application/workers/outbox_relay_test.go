package workers

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"relish/contexts/crm/opportunity-service/adapters/memory"
	"relish/contexts/crm/opportunity-service/domain/entities"
	"relish/contexts/crm/opportunity-service/ports"
	"relish/internal/shared/events"
	"relish/internal/shared/outbox"
)

type capturePublisher struct {
	published []events.Envelope
}

func (p *capturePublisher) Publish(_ context.Context, _ string, event events.Envelope) error {
	p.published = append(p.published, event)
	return nil
}

func seedWonOpportunity(t *testing.T, store *memory.Store, oppID string) {
	t.Helper()
	now := time.Now().UTC()
	opp := ports.Opportunity{
		OpportunityID: oppID,
		OrgID:         "org_1",
		OwnerUserID:   "user_rep_1",
		Title:         "Standing order",
		Stage:         entities.StageNegotiation,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := store.CreateOpportunity(context.Background(), opp); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	opp.Stage = entities.StageWon
	envelope, err := events.New("evt_"+oppID, "opportunity.won", "crm/opportunity-service", oppID, now, map[string]string{"opportunity_id": oppID})
	if err != nil {
		t.Fatalf("envelope failed: %v", err)
	}
	payload, err := envelope.Marshal()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	err = store.RecordTransition(context.Background(), opp, ports.StageChange{
		ChangeID:      "change_" + oppID,
		OpportunityID: oppID,
		FromStage:     entities.StageNegotiation,
		ToStage:       entities.StageWon,
		ChangedAt:     now,
	}, &outbox.Message{
		OutboxID:     envelope.EventID,
		EventType:    "opportunity.won",
		PartitionKey: oppID,
		Payload:      payload,
		Status:       outbox.StatusPending,
		CreatedAt:    now,
	})
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
}

func TestRelayOncePublishesAndMarks(t *testing.T) {
	store := memory.NewStore(nil)
	seedWonOpportunity(t, store, "opp_1")
	seedWonOpportunity(t, store, "opp_2")

	publisher := &capturePublisher{}
	relay := OutboxRelay{Outbox: store, Clock: store, Publisher: publisher}

	if err := relay.RelayOnce(context.Background()); err != nil {
		t.Fatalf("relay failed: %v", err)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("expected 2 events, got %d", len(publisher.published))
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("rows left pending: %d", len(pending))
	}
}

func TestRelayOnceDoesNotRepublish(t *testing.T) {
	store := memory.NewStore(nil)
	seedWonOpportunity(t, store, "opp_1")

	publisher := &capturePublisher{}
	relay := OutboxRelay{Outbox: store, Clock: store, Publisher: publisher, Limiter: rate.NewLimiter(rate.Inf, 1)}

	for i := 0; i < 3; i++ {
		if err := relay.RelayOnce(context.Background()); err != nil {
			t.Fatalf("relay %d failed: %v", i, err)
		}
	}
	if len(publisher.published) != 1 {
		t.Fatalf("relay republished, got %d events", len(publisher.published))
	}
}
