package ports

import (
	"context"
	"time"
)

type Organization struct {
	OrgID       string
	Name        string
	Segment     string
	Cuisine     string
	AddressLine string
	City        string
	Region      string
	Phone       string
	Website     string
	Status      string
	OwnerUserID string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateOrganizationInput struct {
	Name        string
	Segment     string
	Cuisine     string
	AddressLine string
	City        string
	Region      string
	Phone       string
	Website     string
	Notes       string
}

type UpdateOrganizationInput struct {
	Name        string
	Segment     string
	Cuisine     string
	AddressLine string
	City        string
	Region      string
	Phone       string
	Website     string
	Status      string
	OwnerUserID string
	Notes       string
}

type OrganizationFilter struct {
	Segment     string
	Status      string
	OwnerUserID string
	City        string
	NameQuery   string
}

type Repository interface {
	CreateOrganization(ctx context.Context, org Organization) error
	GetOrganization(ctx context.Context, orgID string) (Organization, error)
	UpdateOrganization(ctx context.Context, org Organization) error
	ListOrganizations(ctx context.Context, filter OrganizationFilter) ([]Organization, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
