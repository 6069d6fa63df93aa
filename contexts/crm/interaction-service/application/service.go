package application

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "relish/contexts/crm/interaction-service/domain/errors"
	"relish/contexts/crm/interaction-service/ports"
)

const (
	TypeCall          = "call"
	TypeEmail         = "email"
	TypeVisit         = "visit"
	TypeTasting       = "tasting"
	TypeDeliveryIssue = "delivery_issue"
)

var knownTypes = map[string]bool{
	TypeCall:          true,
	TypeEmail:         true,
	TypeVisit:         true,
	TypeTasting:       true,
	TypeDeliveryIssue: true,
}

type Service struct {
	Interactions ports.Repository
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Logger       *slog.Logger
}

func (s Service) Create(ctx context.Context, userID string, input ports.CreateInteractionInput) (ports.Interaction, error) {
	orgID := strings.TrimSpace(input.OrgID)
	kind := strings.ToLower(strings.TrimSpace(input.Type))
	subject := strings.TrimSpace(input.Subject)
	if orgID == "" || subject == "" || !knownTypes[kind] {
		return ports.Interaction{}, domainerrors.ErrInvalidInteraction
	}
	if input.FollowUpAt != nil && input.FollowUpAt.Before(input.OccurredAt) {
		return ports.Interaction{}, domainerrors.ErrInvalidInteraction
	}

	interactionID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Interaction{}, err
	}
	now := s.Clock.Now().UTC()
	occurredAt := input.OccurredAt.UTC()
	if input.OccurredAt.IsZero() {
		occurredAt = now
	}
	interaction := ports.Interaction{
		InteractionID: interactionID,
		OrgID:         orgID,
		ContactID:     strings.TrimSpace(input.ContactID),
		UserID:        strings.TrimSpace(userID),
		Type:          kind,
		Subject:       subject,
		Notes:         strings.TrimSpace(input.Notes),
		OccurredAt:    occurredAt,
		FollowUpAt:    input.FollowUpAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Interactions.CreateInteraction(ctx, interaction); err != nil {
		return ports.Interaction{}, err
	}

	s.logger().Info("interaction logged",
		"event", "interaction_logged",
		"module", "crm/interaction-service",
		"layer", "application",
		"interaction_id", interaction.InteractionID,
		"org_id", interaction.OrgID,
		"type", interaction.Type,
	)
	return interaction, nil
}

func (s Service) Get(ctx context.Context, interactionID string) (ports.Interaction, error) {
	return s.Interactions.GetInteraction(ctx, strings.TrimSpace(interactionID))
}

// UpdateNotes amends the notes and follow-up of an existing touchpoint.
// The type and occurred-at are part of the record's history and stay fixed.
func (s Service) UpdateNotes(ctx context.Context, interactionID string, input ports.UpdateInteractionInput) (ports.Interaction, error) {
	interaction, err := s.Interactions.GetInteraction(ctx, strings.TrimSpace(interactionID))
	if err != nil {
		return ports.Interaction{}, err
	}

	if subject := strings.TrimSpace(input.Subject); subject != "" {
		interaction.Subject = subject
	}
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		interaction.Notes = notes
	}
	if input.FollowUpAt != nil {
		if input.FollowUpAt.IsZero() {
			interaction.FollowUpAt = nil
		} else {
			if input.FollowUpAt.Before(interaction.OccurredAt) {
				return ports.Interaction{}, domainerrors.ErrInvalidInteraction
			}
			followUp := input.FollowUpAt.UTC()
			interaction.FollowUpAt = &followUp
		}
	}
	interaction.UpdatedAt = s.Clock.Now().UTC()

	if err := s.Interactions.UpdateInteraction(ctx, interaction); err != nil {
		return ports.Interaction{}, err
	}
	return interaction, nil
}

func (s Service) Delete(ctx context.Context, interactionID string) error {
	return s.Interactions.DeleteInteraction(ctx, strings.TrimSpace(interactionID))
}

func (s Service) ListByOrg(ctx context.Context, orgID, kind string) ([]ports.Interaction, error) {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return nil, domainerrors.ErrInvalidInteraction
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind != "" && !knownTypes[kind] {
		return nil, domainerrors.ErrInvalidInteraction
	}
	return s.Interactions.ListInteractions(ctx, ports.InteractionFilter{OrgID: orgID, Type: kind})
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
