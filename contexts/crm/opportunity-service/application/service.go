package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"relish/contexts/crm/opportunity-service/domain/entities"
	domainerrors "relish/contexts/crm/opportunity-service/domain/errors"
	"relish/contexts/crm/opportunity-service/ports"
	"relish/internal/shared/events"
	"relish/internal/shared/outbox"
)

const TopicOpportunityWon = "opportunity.won"

type opportunityWonPayload struct {
	OpportunityID   string     `json:"opportunity_id"`
	OrgID           string     `json:"org_id"`
	OwnerUserID     string     `json:"owner_user_id"`
	Title           string     `json:"title"`
	ProductLines    []string   `json:"product_lines,omitempty"`
	EstMonthlyValue float64    `json:"est_monthly_value"`
	ClosedAt        *time.Time `json:"closed_at"`
}

type Service struct {
	Opportunities ports.Repository
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

func (s Service) Create(ctx context.Context, ownerUserID string, input ports.CreateOpportunityInput) (ports.Opportunity, error) {
	orgID := strings.TrimSpace(input.OrgID)
	title := strings.TrimSpace(input.Title)
	if orgID == "" || title == "" || input.EstMonthlyValue < 0 {
		return ports.Opportunity{}, domainerrors.ErrInvalidOpportunity
	}

	opportunityID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Opportunity{}, err
	}
	now := s.Clock.Now().UTC()
	opp := ports.Opportunity{
		OpportunityID:   opportunityID,
		OrgID:           orgID,
		ContactID:       strings.TrimSpace(input.ContactID),
		OwnerUserID:     strings.TrimSpace(ownerUserID),
		Title:           title,
		ProductLines:    trimAll(input.ProductLines),
		EstMonthlyValue: input.EstMonthlyValue,
		Stage:           entities.StageLead,
		Probability:     entities.DefaultProbability(entities.StageLead),
		ExpectedCloseAt: input.ExpectedCloseAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Opportunities.CreateOpportunity(ctx, opp); err != nil {
		return ports.Opportunity{}, err
	}

	s.logger().Info("opportunity created",
		"event", "opportunity_created",
		"module", "crm/opportunity-service",
		"layer", "application",
		"opportunity_id", opp.OpportunityID,
		"org_id", opp.OrgID,
	)
	return opp, nil
}

func (s Service) Get(ctx context.Context, opportunityID string) (ports.Opportunity, error) {
	return s.Opportunities.GetOpportunity(ctx, strings.TrimSpace(opportunityID))
}

func (s Service) Update(ctx context.Context, opportunityID string, input ports.UpdateOpportunityInput) (ports.Opportunity, error) {
	opp, err := s.Opportunities.GetOpportunity(ctx, strings.TrimSpace(opportunityID))
	if err != nil {
		return ports.Opportunity{}, err
	}
	if entities.IsTerminalStage(opp.Stage) {
		return ports.Opportunity{}, domainerrors.ErrOpportunityClosed
	}

	if contactID := strings.TrimSpace(input.ContactID); contactID != "" {
		opp.ContactID = contactID
	}
	if title := strings.TrimSpace(input.Title); title != "" {
		opp.Title = title
	}
	if len(input.ProductLines) > 0 {
		opp.ProductLines = trimAll(input.ProductLines)
	}
	if input.EstMonthlyValue != nil {
		if *input.EstMonthlyValue < 0 {
			return ports.Opportunity{}, domainerrors.ErrInvalidOpportunity
		}
		opp.EstMonthlyValue = *input.EstMonthlyValue
	}
	if input.Probability != nil {
		if *input.Probability < 0 || *input.Probability > 100 {
			return ports.Opportunity{}, domainerrors.ErrInvalidOpportunity
		}
		opp.Probability = *input.Probability
	}
	if input.ExpectedCloseAt != nil {
		opp.ExpectedCloseAt = input.ExpectedCloseAt
	}
	opp.UpdatedAt = s.Clock.Now().UTC()

	if err := s.Opportunities.UpdateOpportunity(ctx, opp); err != nil {
		return ports.Opportunity{}, err
	}
	return opp, nil
}

// Advance moves an opportunity to the next stage. Winning writes the
// opportunity.won outbox message in the same transaction as the stage
// change; losing requires a reason.
func (s Service) Advance(ctx context.Context, opportunityID, toStage, changedBy, note string) (ports.Opportunity, error) {
	opp, err := s.Opportunities.GetOpportunity(ctx, strings.TrimSpace(opportunityID))
	if err != nil {
		return ports.Opportunity{}, err
	}

	toStage = strings.ToLower(strings.TrimSpace(toStage))
	if !entities.IsKnownStage(toStage) {
		return ports.Opportunity{}, domainerrors.ErrInvalidTransition
	}
	if entities.IsTerminalStage(opp.Stage) {
		return ports.Opportunity{}, domainerrors.ErrOpportunityClosed
	}
	if !entities.CanTransition(opp.Stage, toStage) {
		return ports.Opportunity{}, domainerrors.ErrInvalidTransition
	}
	if toStage == entities.StageLost && strings.TrimSpace(note) == "" {
		return ports.Opportunity{}, domainerrors.ErrLostReasonRequired
	}

	now := s.Clock.Now().UTC()
	fromStage := opp.Stage
	opp.Stage = toStage
	opp.Probability = entities.DefaultProbability(toStage)
	opp.UpdatedAt = now
	if entities.IsTerminalStage(toStage) {
		opp.ClosedAt = &now
	}
	if toStage == entities.StageLost {
		opp.LostReason = strings.TrimSpace(note)
	}

	changeID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Opportunity{}, err
	}
	change := ports.StageChange{
		ChangeID:      changeID,
		OpportunityID: opp.OpportunityID,
		FromStage:     fromStage,
		ToStage:       toStage,
		ChangedBy:     strings.TrimSpace(changedBy),
		Note:          strings.TrimSpace(note),
		ChangedAt:     now,
	}

	var msg *outbox.Message
	if toStage == entities.StageWon {
		envelope, err := events.New(uuid.NewString(), TopicOpportunityWon, "crm/opportunity-service", opp.OpportunityID, now, opportunityWonPayload{
			OpportunityID:   opp.OpportunityID,
			OrgID:           opp.OrgID,
			OwnerUserID:     opp.OwnerUserID,
			Title:           opp.Title,
			ProductLines:    opp.ProductLines,
			EstMonthlyValue: opp.EstMonthlyValue,
			ClosedAt:        opp.ClosedAt,
		})
		if err != nil {
			return ports.Opportunity{}, err
		}
		payload, err := envelope.Marshal()
		if err != nil {
			return ports.Opportunity{}, err
		}
		msg = &outbox.Message{
			OutboxID:     envelope.EventID,
			EventType:    TopicOpportunityWon,
			PartitionKey: opp.OpportunityID,
			Payload:      payload,
			Status:       outbox.StatusPending,
			CreatedAt:    now,
		}
	}

	if err := s.Opportunities.RecordTransition(ctx, opp, change, msg); err != nil {
		return ports.Opportunity{}, err
	}

	s.logger().Info("opportunity stage changed",
		"event", "opportunity_stage_changed",
		"module", "crm/opportunity-service",
		"layer", "application",
		"opportunity_id", opp.OpportunityID,
		"from_stage", fromStage,
		"to_stage", toStage,
	)
	return opp, nil
}

func (s Service) List(ctx context.Context, filter ports.OpportunityFilter) ([]ports.Opportunity, error) {
	if filter.Stage != "" && !entities.IsKnownStage(filter.Stage) {
		return nil, domainerrors.ErrInvalidOpportunity
	}
	return s.Opportunities.ListOpportunities(ctx, filter)
}

func (s Service) History(ctx context.Context, opportunityID string) ([]ports.StageChange, error) {
	if _, err := s.Opportunities.GetOpportunity(ctx, strings.TrimSpace(opportunityID)); err != nil {
		return nil, err
	}
	return s.Opportunities.ListStageHistory(ctx, strings.TrimSpace(opportunityID))
}

func (s Service) Summary(ctx context.Context, ownerUserID string) ([]ports.StageSummary, error) {
	return s.Opportunities.PipelineSummary(ctx, strings.TrimSpace(ownerUserID))
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func trimAll(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
