package workers

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"relish/contexts/crm/opportunity-service/ports"
	"relish/internal/shared/events"
)

const defaultBatchSize = 50

type Publisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

// OutboxRelay drains pending outbox rows onto the bus in creation order.
// Publishing is paced by the limiter so a backlog burst after downtime does
// not flood consumers.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Clock     ports.Clock
	Publisher Publisher
	Limiter   *rate.Limiter
	Interval  time.Duration
	BatchSize int
	Logger    *slog.Logger
}

func (w OutboxRelay) Run(ctx context.Context) error {
	interval := w.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.RelayOnce(ctx); err != nil {
				w.logger().Error("outbox relay pass failed",
					"event", "outbox_relay_error",
					"module", "crm/opportunity-service",
					"layer", "worker",
					"error", err.Error(),
				)
			}
		}
	}
}

func (w OutboxRelay) RelayOnce(ctx context.Context) error {
	batch := w.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}

	pending, err := w.Outbox.ListPendingOutbox(ctx, batch)
	if err != nil {
		return err
	}
	for _, msg := range pending {
		if w.Limiter != nil {
			if err := w.Limiter.Wait(ctx); err != nil {
				return err
			}
		}

		envelope, err := events.Unmarshal(msg.Payload)
		if err != nil {
			// A row that cannot be decoded would wedge the relay
			// forever; mark it published and move on.
			w.logger().Error("dropping undecodable outbox row",
				"event", "outbox_relay_bad_payload",
				"module", "crm/opportunity-service",
				"layer", "worker",
				"outbox_id", msg.OutboxID,
				"error", err.Error(),
			)
			if err := w.Outbox.MarkOutboxPublished(ctx, msg.OutboxID, w.Clock.Now().UTC()); err != nil {
				return err
			}
			continue
		}

		if err := w.Publisher.Publish(ctx, msg.EventType, envelope); err != nil {
			return err
		}
		if err := w.Outbox.MarkOutboxPublished(ctx, msg.OutboxID, w.Clock.Now().UTC()); err != nil {
			return err
		}

		w.logger().Info("outbox message relayed",
			"event", "outbox_relayed",
			"module", "crm/opportunity-service",
			"layer", "worker",
			"outbox_id", msg.OutboxID,
			"event_type", msg.EventType,
		)
	}
	return nil
}

func (w OutboxRelay) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
