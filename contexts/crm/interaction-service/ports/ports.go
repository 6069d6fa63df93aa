package ports

import (
	"context"
	"time"
)

type Interaction struct {
	InteractionID string
	OrgID         string
	ContactID     string
	UserID        string
	Type          string
	Subject       string
	Notes         string
	OccurredAt    time.Time
	FollowUpAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CreateInteractionInput struct {
	OrgID      string
	ContactID  string
	Type       string
	Subject    string
	Notes      string
	OccurredAt time.Time
	FollowUpAt *time.Time
}

type UpdateInteractionInput struct {
	Subject    string
	Notes      string
	FollowUpAt *time.Time
}

type InteractionFilter struct {
	OrgID string
	Type  string
}

type Repository interface {
	CreateInteraction(ctx context.Context, interaction Interaction) error
	GetInteraction(ctx context.Context, interactionID string) (Interaction, error)
	UpdateInteraction(ctx context.Context, interaction Interaction) error
	DeleteInteraction(ctx context.Context, interactionID string) error
	ListInteractions(ctx context.Context, filter InteractionFilter) ([]Interaction, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
