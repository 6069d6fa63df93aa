package ports

import (
	"context"
	"time"

	"relish/internal/shared/outbox"
)

type Opportunity struct {
	OpportunityID   string
	OrgID           string
	ContactID       string
	OwnerUserID     string
	Title           string
	ProductLines    []string
	EstMonthlyValue float64
	Stage           string
	Probability     int
	ExpectedCloseAt *time.Time
	ClosedAt        *time.Time
	LostReason      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type StageChange struct {
	ChangeID      string
	OpportunityID string
	FromStage     string
	ToStage       string
	ChangedBy     string
	Note          string
	ChangedAt     time.Time
}

type CreateOpportunityInput struct {
	OrgID           string
	ContactID       string
	Title           string
	ProductLines    []string
	EstMonthlyValue float64
	ExpectedCloseAt *time.Time
}

type UpdateOpportunityInput struct {
	ContactID       string
	Title           string
	ProductLines    []string
	EstMonthlyValue *float64
	Probability     *int
	ExpectedCloseAt *time.Time
}

type OpportunityFilter struct {
	Stage       string
	OwnerUserID string
	OrgID       string
}

type StageSummary struct {
	Stage string
	Count int
	Value float64
}

type Repository interface {
	CreateOpportunity(ctx context.Context, opp Opportunity) error
	GetOpportunity(ctx context.Context, opportunityID string) (Opportunity, error)
	UpdateOpportunity(ctx context.Context, opp Opportunity) error
	ListOpportunities(ctx context.Context, filter OpportunityFilter) ([]Opportunity, error)
	ListStageHistory(ctx context.Context, opportunityID string) ([]StageChange, error)
	PipelineSummary(ctx context.Context, ownerUserID string) ([]StageSummary, error)

	// RecordTransition persists the updated opportunity, the stage-history
	// row and, when msg is non-nil, the outbox message in one transaction.
	RecordTransition(ctx context.Context, opp Opportunity, change StageChange, msg *outbox.Message) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, at time.Time) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
