package workers

import (
	"context"
	"encoding/json"
	"log/slog"

	"relish/contexts/billing/invoice-service/application"
	"relish/internal/shared/events"
)

const TopicOpportunityWon = "opportunity.won"

type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler func(context.Context, events.Envelope) error) error
}

type opportunityWonPayload struct {
	OpportunityID   string  `json:"opportunity_id"`
	OrgID           string  `json:"org_id"`
	Title           string  `json:"title"`
	EstMonthlyValue float64 `json:"est_monthly_value"`
}

// OpportunityWonConsumer drafts an invoice for every won opportunity.
// Drafting is idempotent per opportunity, so redeliveries are harmless.
type OpportunityWonConsumer struct {
	Service    application.Service
	Subscriber Subscriber
	Logger     *slog.Logger
}

func (w OpportunityWonConsumer) Run(ctx context.Context) error {
	return w.Subscriber.Subscribe(ctx, TopicOpportunityWon, w.Handle)
}

func (w OpportunityWonConsumer) Handle(ctx context.Context, event events.Envelope) error {
	var payload opportunityWonPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		w.logger().Error("won event payload undecodable",
			"event", "invoice_consumer_bad_payload",
			"module", "billing/invoice-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return nil
	}

	invoice, err := w.Service.DraftFromOpportunity(ctx, payload.OrgID, payload.OpportunityID, payload.Title, payload.EstMonthlyValue)
	if err != nil {
		return err
	}

	w.logger().Info("invoice ready for won opportunity",
		"event", "invoice_consumer_drafted",
		"module", "billing/invoice-service",
		"layer", "worker",
		"invoice_id", invoice.InvoiceID,
		"opportunity_id", payload.OpportunityID,
	)
	return nil
}

func (w OpportunityWonConsumer) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
