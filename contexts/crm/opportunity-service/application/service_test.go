package application

import (
	"context"
	"testing"

	"relish/contexts/crm/opportunity-service/adapters/memory"
	"relish/contexts/crm/opportunity-service/domain/entities"
	domainerrors "relish/contexts/crm/opportunity-service/domain/errors"
	"relish/contexts/crm/opportunity-service/ports"
	"relish/internal/shared/events"
	"relish/internal/shared/outbox"
)

func newFixture() (Service, *memory.Store) {
	store := memory.NewStore(nil)
	return Service{Opportunities: store, Clock: store, IDGen: store}, store
}

func createLead(t *testing.T, service Service) ports.Opportunity {
	t.Helper()
	opp, err := service.Create(context.Background(), "user_rep_1", ports.CreateOpportunityInput{
		OrgID:           "org_1",
		Title:           "Weekly produce standing order",
		ProductLines:    []string{"leafy greens", "root vegetables"},
		EstMonthlyValue: 2400,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return opp
}

func advance(t *testing.T, service Service, oppID string, stages ...string) ports.Opportunity {
	t.Helper()
	var opp ports.Opportunity
	var err error
	for _, stage := range stages {
		opp, err = service.Advance(context.Background(), oppID, stage, "user_rep_1", "")
		if err != nil {
			t.Fatalf("advance to %s failed: %v", stage, err)
		}
	}
	return opp
}

func TestCreateOpportunityStartsAsLead(t *testing.T) {
	service, _ := newFixture()

	opp := createLead(t, service)
	if opp.Stage != entities.StageLead {
		t.Fatalf("expected lead, got %s", opp.Stage)
	}
	if opp.Probability != entities.DefaultProbability(entities.StageLead) {
		t.Fatalf("probability not defaulted: %d", opp.Probability)
	}
}

func TestAdvanceRejectsStageSkip(t *testing.T) {
	service, _ := newFixture()
	opp := createLead(t, service)

	if _, err := service.Advance(context.Background(), opp.OpportunityID, entities.StageNegotiation, "user_rep_1", ""); err != domainerrors.ErrInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestAdvanceAppendsStageHistory(t *testing.T) {
	service, _ := newFixture()
	opp := createLead(t, service)

	advance(t, service, opp.OpportunityID, entities.StageQualified, entities.StageSampling)

	history, err := service.History(context.Background(), opp.OpportunityID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(history))
	}
	if history[0].FromStage != entities.StageLead || history[0].ToStage != entities.StageQualified {
		t.Fatalf("first transition wrong: %+v", history[0])
	}
	if history[1].ToStage != entities.StageSampling {
		t.Fatalf("second transition wrong: %+v", history[1])
	}
}

func TestLosingRequiresReason(t *testing.T) {
	service, _ := newFixture()
	opp := createLead(t, service)

	if _, err := service.Advance(context.Background(), opp.OpportunityID, entities.StageLost, "user_rep_1", ""); err != domainerrors.ErrLostReasonRequired {
		t.Fatalf("expected lost-reason error, got %v", err)
	}

	lost, err := service.Advance(context.Background(), opp.OpportunityID, entities.StageLost, "user_rep_1", "went with incumbent distributor")
	if err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if lost.LostReason == "" || lost.ClosedAt == nil {
		t.Fatalf("loss not recorded: %+v", lost)
	}
}

func TestWinningWritesOutboxMessage(t *testing.T) {
	service, store := newFixture()
	opp := createLead(t, service)

	won := advance(t, service, opp.OpportunityID,
		entities.StageQualified, entities.StageSampling, entities.StageNegotiation, entities.StageWon)
	if won.ClosedAt == nil || won.Probability != 100 {
		t.Fatalf("win not recorded: %+v", won)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("outbox list failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 outbox row, got %d", len(pending))
	}
	msg := pending[0]
	if msg.EventType != TopicOpportunityWon || msg.Status != outbox.StatusPending {
		t.Fatalf("unexpected outbox row: %+v", msg)
	}
	envelope, err := events.Unmarshal(msg.Payload)
	if err != nil {
		t.Fatalf("payload is not an envelope: %v", err)
	}
	if envelope.PartitionKey != opp.OpportunityID {
		t.Fatalf("partition key wrong: %s", envelope.PartitionKey)
	}
}

func TestClosedOpportunityIsFrozen(t *testing.T) {
	service, _ := newFixture()
	opp := createLead(t, service)
	advance(t, service, opp.OpportunityID,
		entities.StageQualified, entities.StageSampling, entities.StageNegotiation, entities.StageWon)

	if _, err := service.Update(context.Background(), opp.OpportunityID, ports.UpdateOpportunityInput{Title: "New title"}); err != domainerrors.ErrOpportunityClosed {
		t.Fatalf("expected closed error on update, got %v", err)
	}
	if _, err := service.Advance(context.Background(), opp.OpportunityID, entities.StageLost, "user_rep_1", "oops"); err != domainerrors.ErrOpportunityClosed {
		t.Fatalf("expected closed error on advance, got %v", err)
	}
}

func TestPipelineSummaryGroupsByStage(t *testing.T) {
	service, _ := newFixture()

	first := createLead(t, service)
	createLead(t, service)
	advance(t, service, first.OpportunityID, entities.StageQualified)

	summary, err := service.Summary(context.Background(), "user_rep_1")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	byStage := make(map[string]ports.StageSummary, len(summary))
	for _, row := range summary {
		byStage[row.Stage] = row
	}
	if byStage[entities.StageLead].Count != 1 || byStage[entities.StageQualified].Count != 1 {
		t.Fatalf("summary wrong: %+v", summary)
	}
	if byStage[entities.StageQualified].Value != 2400 {
		t.Fatalf("stage value wrong: %+v", byStage[entities.StageQualified])
	}
}
