package ports

import (
	"context"
	"time"
)

type Contact struct {
	ContactID string
	OrgID     string
	FirstName string
	LastName  string
	Title     string
	Email     string
	Phone     string
	IsPrimary bool
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateContactInput struct {
	OrgID     string
	FirstName string
	LastName  string
	Title     string
	Email     string
	Phone     string
	IsPrimary bool
	Notes     string
}

type UpdateContactInput struct {
	FirstName string
	LastName  string
	Title     string
	Email     string
	Phone     string
	IsPrimary *bool
	Notes     string
}

type Repository interface {
	CreateContact(ctx context.Context, contact Contact) error
	GetContact(ctx context.Context, contactID string) (Contact, error)
	UpdateContact(ctx context.Context, contact Contact) error
	DeleteContact(ctx context.Context, contactID string) error
	ListContactsByOrg(ctx context.Context, orgID string) ([]Contact, error)
	ClearPrimary(ctx context.Context, orgID string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
