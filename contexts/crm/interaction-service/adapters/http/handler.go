package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"relish/contexts/crm/interaction-service/application"
	domainerrors "relish/contexts/crm/interaction-service/domain/errors"
	"relish/contexts/crm/interaction-service/ports"
	httptransport "relish/contexts/crm/interaction-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateInteractionHandler(ctx context.Context, userID string, req httptransport.CreateInteractionRequest) (httptransport.InteractionResponse, error) {
	occurredAt, err := parseTime(req.OccurredAt)
	if err != nil {
		return httptransport.InteractionResponse{}, domainerrors.ErrInvalidInteraction
	}
	var followUpAt *time.Time
	if req.FollowUpAt != "" {
		parsed, err := parseTime(req.FollowUpAt)
		if err != nil {
			return httptransport.InteractionResponse{}, domainerrors.ErrInvalidInteraction
		}
		followUpAt = &parsed
	}

	interaction, err := h.Service.Create(ctx, userID, ports.CreateInteractionInput{
		OrgID:      req.OrgID,
		ContactID:  req.ContactID,
		Type:       req.Type,
		Subject:    req.Subject,
		Notes:      req.Notes,
		OccurredAt: occurredAt,
		FollowUpAt: followUpAt,
	})
	if err != nil {
		return httptransport.InteractionResponse{}, err
	}
	return httptransport.InteractionResponse{Interaction: mapInteraction(interaction)}, nil
}

func (h Handler) GetInteractionHandler(ctx context.Context, interactionID string) (httptransport.InteractionResponse, error) {
	interaction, err := h.Service.Get(ctx, interactionID)
	if err != nil {
		return httptransport.InteractionResponse{}, err
	}
	return httptransport.InteractionResponse{Interaction: mapInteraction(interaction)}, nil
}

func (h Handler) UpdateInteractionHandler(ctx context.Context, interactionID string, req httptransport.UpdateInteractionRequest) (httptransport.InteractionResponse, error) {
	input := ports.UpdateInteractionInput{
		Subject: req.Subject,
		Notes:   req.Notes,
	}
	if req.FollowUpAt != nil {
		// An explicit empty string clears the follow-up.
		if *req.FollowUpAt == "" {
			input.FollowUpAt = &time.Time{}
		} else {
			parsed, err := parseTime(*req.FollowUpAt)
			if err != nil {
				return httptransport.InteractionResponse{}, domainerrors.ErrInvalidInteraction
			}
			input.FollowUpAt = &parsed
		}
	}

	interaction, err := h.Service.UpdateNotes(ctx, interactionID, input)
	if err != nil {
		return httptransport.InteractionResponse{}, err
	}
	return httptransport.InteractionResponse{Interaction: mapInteraction(interaction)}, nil
}

func (h Handler) DeleteInteractionHandler(ctx context.Context, interactionID string) error {
	return h.Service.Delete(ctx, interactionID)
}

func (h Handler) ListInteractionsByOrgHandler(ctx context.Context, orgID, kind string) (httptransport.ListInteractionsResponse, error) {
	items, err := h.Service.ListByOrg(ctx, orgID, kind)
	if err != nil {
		return httptransport.ListInteractionsResponse{}, err
	}
	result := make([]httptransport.InteractionDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapInteraction(item))
	}
	return httptransport.ListInteractionsResponse{Items: result}, nil
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}

func mapInteraction(item ports.Interaction) httptransport.InteractionDTO {
	dto := httptransport.InteractionDTO{
		InteractionID: item.InteractionID,
		OrgID:         item.OrgID,
		ContactID:     item.ContactID,
		UserID:        item.UserID,
		Type:          item.Type,
		Subject:       item.Subject,
		Notes:         item.Notes,
		OccurredAt:    item.OccurredAt.Format(time.RFC3339),
		CreatedAt:     item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     item.UpdatedAt.Format(time.RFC3339),
	}
	if item.FollowUpAt != nil {
		dto.FollowUpAt = item.FollowUpAt.Format(time.RFC3339)
	}
	return dto
}
