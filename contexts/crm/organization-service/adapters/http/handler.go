package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"relish/contexts/crm/organization-service/application"
	"relish/contexts/crm/organization-service/ports"
	httptransport "relish/contexts/crm/organization-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateOrganizationHandler(ctx context.Context, ownerUserID string, req httptransport.CreateOrganizationRequest) (httptransport.OrganizationResponse, error) {
	org, err := h.Service.Create(ctx, ownerUserID, ports.CreateOrganizationInput{
		Name:        req.Name,
		Segment:     req.Segment,
		Cuisine:     req.Cuisine,
		AddressLine: req.AddressLine,
		City:        req.City,
		Region:      req.Region,
		Phone:       req.Phone,
		Website:     req.Website,
		Notes:       req.Notes,
	})
	if err != nil {
		return httptransport.OrganizationResponse{}, err
	}
	return httptransport.OrganizationResponse{Organization: mapOrganization(org)}, nil
}

func (h Handler) GetOrganizationHandler(ctx context.Context, orgID string) (httptransport.OrganizationResponse, error) {
	org, err := h.Service.Get(ctx, orgID)
	if err != nil {
		return httptransport.OrganizationResponse{}, err
	}
	return httptransport.OrganizationResponse{Organization: mapOrganization(org)}, nil
}

func (h Handler) UpdateOrganizationHandler(ctx context.Context, orgID string, req httptransport.UpdateOrganizationRequest) (httptransport.OrganizationResponse, error) {
	org, err := h.Service.Update(ctx, orgID, ports.UpdateOrganizationInput{
		Name:        req.Name,
		Segment:     req.Segment,
		Cuisine:     req.Cuisine,
		AddressLine: req.AddressLine,
		City:        req.City,
		Region:      req.Region,
		Phone:       req.Phone,
		Website:     req.Website,
		Status:      req.Status,
		OwnerUserID: req.OwnerUserID,
		Notes:       req.Notes,
	})
	if err != nil {
		return httptransport.OrganizationResponse{}, err
	}
	return httptransport.OrganizationResponse{Organization: mapOrganization(org)}, nil
}

func (h Handler) DeactivateOrganizationHandler(ctx context.Context, orgID string) (httptransport.OrganizationResponse, error) {
	org, err := h.Service.Deactivate(ctx, orgID)
	if err != nil {
		return httptransport.OrganizationResponse{}, err
	}
	return httptransport.OrganizationResponse{Organization: mapOrganization(org)}, nil
}

func (h Handler) ListOrganizationsHandler(ctx context.Context, filter ports.OrganizationFilter) (httptransport.ListOrganizationsResponse, error) {
	items, err := h.Service.List(ctx, filter)
	if err != nil {
		return httptransport.ListOrganizationsResponse{}, err
	}
	result := make([]httptransport.OrganizationDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapOrganization(item))
	}
	return httptransport.ListOrganizationsResponse{Items: result}, nil
}

func mapOrganization(item ports.Organization) httptransport.OrganizationDTO {
	return httptransport.OrganizationDTO{
		OrgID:       item.OrgID,
		Name:        item.Name,
		Segment:     item.Segment,
		Cuisine:     item.Cuisine,
		AddressLine: item.AddressLine,
		City:        item.City,
		Region:      item.Region,
		Phone:       item.Phone,
		Website:     item.Website,
		Status:      item.Status,
		OwnerUserID: item.OwnerUserID,
		Notes:       item.Notes,
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.Format(time.RFC3339),
	}
}
