package application

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "relish/contexts/crm/organization-service/domain/errors"
	"relish/contexts/crm/organization-service/ports"
)

const (
	StatusProspect = "prospect"
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Service struct {
	Orgs   ports.Repository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (s Service) Create(ctx context.Context, ownerUserID string, input ports.CreateOrganizationInput) (ports.Organization, error) {
	name := strings.TrimSpace(input.Name)
	segment := strings.ToLower(strings.TrimSpace(input.Segment))
	if name == "" || len(name) > 200 || !IsSupportedSegment(segment) {
		return ports.Organization{}, domainerrors.ErrInvalidOrganization
	}

	orgID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Organization{}, err
	}
	now := s.Clock.Now().UTC()
	org := ports.Organization{
		OrgID:       orgID,
		Name:        name,
		Segment:     segment,
		Cuisine:     strings.TrimSpace(input.Cuisine),
		AddressLine: strings.TrimSpace(input.AddressLine),
		City:        strings.TrimSpace(input.City),
		Region:      strings.TrimSpace(input.Region),
		Phone:       strings.TrimSpace(input.Phone),
		Website:     strings.TrimSpace(input.Website),
		Status:      StatusProspect,
		OwnerUserID: strings.TrimSpace(ownerUserID),
		Notes:       strings.TrimSpace(input.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Orgs.CreateOrganization(ctx, org); err != nil {
		return ports.Organization{}, err
	}

	s.logger().Info("organization created",
		"event", "organization_created",
		"module", "crm/organization-service",
		"layer", "application",
		"org_id", org.OrgID,
		"segment", org.Segment,
	)
	return org, nil
}

func (s Service) Get(ctx context.Context, orgID string) (ports.Organization, error) {
	return s.Orgs.GetOrganization(ctx, strings.TrimSpace(orgID))
}

func (s Service) Update(ctx context.Context, orgID string, input ports.UpdateOrganizationInput) (ports.Organization, error) {
	org, err := s.Orgs.GetOrganization(ctx, strings.TrimSpace(orgID))
	if err != nil {
		return ports.Organization{}, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		if len(name) > 200 {
			return ports.Organization{}, domainerrors.ErrInvalidOrganization
		}
		org.Name = name
	}
	if segment := strings.ToLower(strings.TrimSpace(input.Segment)); segment != "" {
		if !IsSupportedSegment(segment) {
			return ports.Organization{}, domainerrors.ErrInvalidOrganization
		}
		org.Segment = segment
	}
	if status := strings.ToLower(strings.TrimSpace(input.Status)); status != "" {
		if !IsSupportedStatus(status) {
			return ports.Organization{}, domainerrors.ErrInvalidOrganization
		}
		org.Status = status
	}
	if owner := strings.TrimSpace(input.OwnerUserID); owner != "" {
		org.OwnerUserID = owner
	}
	org.Cuisine = orDefault(input.Cuisine, org.Cuisine)
	org.AddressLine = orDefault(input.AddressLine, org.AddressLine)
	org.City = orDefault(input.City, org.City)
	org.Region = orDefault(input.Region, org.Region)
	org.Phone = orDefault(input.Phone, org.Phone)
	org.Website = orDefault(input.Website, org.Website)
	org.Notes = orDefault(input.Notes, org.Notes)
	org.UpdatedAt = s.Clock.Now().UTC()

	if err := s.Orgs.UpdateOrganization(ctx, org); err != nil {
		return ports.Organization{}, err
	}
	return org, nil
}

// Deactivate is the delete operation: accounts keep their history, so removal
// is a status change.
func (s Service) Deactivate(ctx context.Context, orgID string) (ports.Organization, error) {
	org, err := s.Orgs.GetOrganization(ctx, strings.TrimSpace(orgID))
	if err != nil {
		return ports.Organization{}, err
	}
	if org.Status == StatusInactive {
		return org, nil
	}
	org.Status = StatusInactive
	org.UpdatedAt = s.Clock.Now().UTC()
	if err := s.Orgs.UpdateOrganization(ctx, org); err != nil {
		return ports.Organization{}, err
	}

	s.logger().Info("organization deactivated",
		"event", "organization_deactivated",
		"module", "crm/organization-service",
		"layer", "application",
		"org_id", org.OrgID,
	)
	return org, nil
}

func (s Service) List(ctx context.Context, filter ports.OrganizationFilter) ([]ports.Organization, error) {
	filter.Segment = strings.ToLower(strings.TrimSpace(filter.Segment))
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	if filter.Segment != "" && !IsSupportedSegment(filter.Segment) {
		return nil, domainerrors.ErrInvalidOrganization
	}
	if filter.Status != "" && !IsSupportedStatus(filter.Status) {
		return nil, domainerrors.ErrInvalidOrganization
	}
	return s.Orgs.ListOrganizations(ctx, filter)
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func IsSupportedSegment(value string) bool {
	switch value {
	case "restaurant", "cafe", "caterer", "distributor", "grocer":
		return true
	default:
		return false
	}
}

func IsSupportedStatus(value string) bool {
	switch value {
	case StatusProspect, StatusActive, StatusInactive:
		return true
	default:
		return false
	}
}

func orDefault(value string, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
