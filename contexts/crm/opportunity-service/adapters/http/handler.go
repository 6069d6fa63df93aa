package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"relish/contexts/crm/opportunity-service/application"
	domainerrors "relish/contexts/crm/opportunity-service/domain/errors"
	"relish/contexts/crm/opportunity-service/ports"
	httptransport "relish/contexts/crm/opportunity-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateOpportunityHandler(ctx context.Context, ownerUserID string, req httptransport.CreateOpportunityRequest) (httptransport.OpportunityResponse, error) {
	expectedCloseAt, err := parseOptionalTime(req.ExpectedCloseAt)
	if err != nil {
		return httptransport.OpportunityResponse{}, domainerrors.ErrInvalidOpportunity
	}

	opp, err := h.Service.Create(ctx, ownerUserID, ports.CreateOpportunityInput{
		OrgID:           req.OrgID,
		ContactID:       req.ContactID,
		Title:           req.Title,
		ProductLines:    req.ProductLines,
		EstMonthlyValue: req.EstMonthlyValue,
		ExpectedCloseAt: expectedCloseAt,
	})
	if err != nil {
		return httptransport.OpportunityResponse{}, err
	}
	return httptransport.OpportunityResponse{Opportunity: mapOpportunity(opp)}, nil
}

func (h Handler) GetOpportunityHandler(ctx context.Context, opportunityID string) (httptransport.OpportunityResponse, error) {
	opp, err := h.Service.Get(ctx, opportunityID)
	if err != nil {
		return httptransport.OpportunityResponse{}, err
	}
	return httptransport.OpportunityResponse{Opportunity: mapOpportunity(opp)}, nil
}

func (h Handler) UpdateOpportunityHandler(ctx context.Context, opportunityID string, req httptransport.UpdateOpportunityRequest) (httptransport.OpportunityResponse, error) {
	expectedCloseAt, err := parseOptionalTime(req.ExpectedCloseAt)
	if err != nil {
		return httptransport.OpportunityResponse{}, domainerrors.ErrInvalidOpportunity
	}

	opp, err := h.Service.Update(ctx, opportunityID, ports.UpdateOpportunityInput{
		ContactID:       req.ContactID,
		Title:           req.Title,
		ProductLines:    req.ProductLines,
		EstMonthlyValue: req.EstMonthlyValue,
		Probability:     req.Probability,
		ExpectedCloseAt: expectedCloseAt,
	})
	if err != nil {
		return httptransport.OpportunityResponse{}, err
	}
	return httptransport.OpportunityResponse{Opportunity: mapOpportunity(opp)}, nil
}

func (h Handler) AdvanceOpportunityHandler(ctx context.Context, opportunityID, changedBy string, req httptransport.AdvanceOpportunityRequest) (httptransport.OpportunityResponse, error) {
	opp, err := h.Service.Advance(ctx, opportunityID, req.Stage, changedBy, req.Note)
	if err != nil {
		return httptransport.OpportunityResponse{}, err
	}
	return httptransport.OpportunityResponse{Opportunity: mapOpportunity(opp)}, nil
}

func (h Handler) ListOpportunitiesHandler(ctx context.Context, filter ports.OpportunityFilter) (httptransport.ListOpportunitiesResponse, error) {
	items, err := h.Service.List(ctx, filter)
	if err != nil {
		return httptransport.ListOpportunitiesResponse{}, err
	}
	result := make([]httptransport.OpportunityDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapOpportunity(item))
	}
	return httptransport.ListOpportunitiesResponse{Items: result}, nil
}

func (h Handler) StageHistoryHandler(ctx context.Context, opportunityID string) (httptransport.StageHistoryResponse, error) {
	items, err := h.Service.History(ctx, opportunityID)
	if err != nil {
		return httptransport.StageHistoryResponse{}, err
	}
	result := make([]httptransport.StageChangeDTO, 0, len(items))
	for _, item := range items {
		result = append(result, httptransport.StageChangeDTO{
			ChangeID:  item.ChangeID,
			FromStage: item.FromStage,
			ToStage:   item.ToStage,
			ChangedBy: item.ChangedBy,
			Note:      item.Note,
			ChangedAt: item.ChangedAt.Format(time.RFC3339),
		})
	}
	return httptransport.StageHistoryResponse{Items: result}, nil
}

func (h Handler) PipelineSummaryHandler(ctx context.Context, ownerUserID string) (httptransport.PipelineSummaryResponse, error) {
	items, err := h.Service.Summary(ctx, ownerUserID)
	if err != nil {
		return httptransport.PipelineSummaryResponse{}, err
	}
	result := make([]httptransport.StageSummaryDTO, 0, len(items))
	for _, item := range items {
		result = append(result, httptransport.StageSummaryDTO{
			Stage: item.Stage,
			Count: item.Count,
			Value: item.Value,
		})
	}
	return httptransport.PipelineSummaryResponse{Items: result}, nil
}

func parseOptionalTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func mapOpportunity(item ports.Opportunity) httptransport.OpportunityDTO {
	dto := httptransport.OpportunityDTO{
		OpportunityID:   item.OpportunityID,
		OrgID:           item.OrgID,
		ContactID:       item.ContactID,
		OwnerUserID:     item.OwnerUserID,
		Title:           item.Title,
		ProductLines:    item.ProductLines,
		EstMonthlyValue: item.EstMonthlyValue,
		Stage:           item.Stage,
		Probability:     item.Probability,
		LostReason:      item.LostReason,
		CreatedAt:       item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       item.UpdatedAt.Format(time.RFC3339),
	}
	if item.ExpectedCloseAt != nil {
		dto.ExpectedCloseAt = item.ExpectedCloseAt.Format(time.RFC3339)
	}
	if item.ClosedAt != nil {
		dto.ClosedAt = item.ClosedAt.Format(time.RFC3339)
	}
	return dto
}
