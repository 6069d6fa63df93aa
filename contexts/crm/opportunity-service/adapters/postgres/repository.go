package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainerrors "relish/contexts/crm/opportunity-service/domain/errors"
	"relish/contexts/crm/opportunity-service/ports"
	"relish/internal/shared/outbox"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateOpportunity(ctx context.Context, opp ports.Opportunity) error {
	row := opportunityModelFromPort(opp)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidOpportunity
		}
		return err
	}
	return nil
}

func (r *Repository) GetOpportunity(ctx context.Context, opportunityID string) (ports.Opportunity, error) {
	var row opportunityModel
	err := r.db.WithContext(ctx).
		Where("opportunity_id = ?", strings.TrimSpace(opportunityID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Opportunity{}, domainerrors.ErrOpportunityNotFound
		}
		return ports.Opportunity{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) UpdateOpportunity(ctx context.Context, opp ports.Opportunity) error {
	row := opportunityModelFromPort(opp)
	result := r.db.WithContext(ctx).
		Model(&opportunityModel{}).
		Where("opportunity_id = ?", row.OpportunityID).
		Updates(opportunityColumns(row))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOpportunityNotFound
	}
	return nil
}

func (r *Repository) ListOpportunities(ctx context.Context, filter ports.OpportunityFilter) ([]ports.Opportunity, error) {
	tx := r.db.WithContext(ctx).Model(&opportunityModel{})
	if filter.Stage != "" {
		tx = tx.Where("stage = ?", filter.Stage)
	}
	if filter.OwnerUserID != "" {
		tx = tx.Where("owner_user_id = ?", filter.OwnerUserID)
	}
	if filter.OrgID != "" {
		tx = tx.Where("org_id = ?", filter.OrgID)
	}

	var rows []opportunityModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]ports.Opportunity, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) ListStageHistory(ctx context.Context, opportunityID string) ([]ports.StageChange, error) {
	var rows []stageChangeModel
	err := r.db.WithContext(ctx).
		Where("opportunity_id = ?", strings.TrimSpace(opportunityID)).
		Order("changed_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]ports.StageChange, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) PipelineSummary(ctx context.Context, ownerUserID string) ([]ports.StageSummary, error) {
	tx := r.db.WithContext(ctx).
		Model(&opportunityModel{}).
		Select("stage, COUNT(*) AS count, COALESCE(SUM(est_monthly_value), 0) AS value").
		Group("stage").
		Order("stage ASC")
	if ownerUserID != "" {
		tx = tx.Where("owner_user_id = ?", ownerUserID)
	}

	var rows []struct {
		Stage string
		Count int
		Value float64
	}
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]ports.StageSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.StageSummary{Stage: row.Stage, Count: row.Count, Value: row.Value})
	}
	return items, nil
}

func (r *Repository) RecordTransition(ctx context.Context, opp ports.Opportunity, change ports.StageChange, msg *outbox.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := opportunityModelFromPort(opp)
		result := tx.Model(&opportunityModel{}).
			Where("opportunity_id = ?", row.OpportunityID).
			Updates(opportunityColumns(row))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrOpportunityNotFound
		}

		historyRow := stageChangeModelFromPort(change)
		if err := tx.Create(&historyRow).Error; err != nil {
			return err
		}

		if msg != nil {
			outboxRow := outboxModelFromMessage(*msg)
			if err := tx.Create(&outboxRow).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error) {
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]outbox.Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toMessage())
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":       outbox.StatusPublished,
			"published_at": at.UTC(),
		}).
		Error
}

type opportunityModel struct {
	OpportunityID   string     `gorm:"column:opportunity_id;primaryKey"`
	OrgID           string     `gorm:"column:org_id"`
	ContactID       string     `gorm:"column:contact_id"`
	OwnerUserID     string     `gorm:"column:owner_user_id"`
	Title           string     `gorm:"column:title"`
	ProductLines    string     `gorm:"column:product_lines"`
	EstMonthlyValue float64    `gorm:"column:est_monthly_value"`
	Stage           string     `gorm:"column:stage"`
	Probability     int        `gorm:"column:probability"`
	ExpectedCloseAt *time.Time `gorm:"column:expected_close_at"`
	ClosedAt        *time.Time `gorm:"column:closed_at"`
	LostReason      string     `gorm:"column:lost_reason"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (opportunityModel) TableName() string {
	return "opportunities"
}

func opportunityColumns(row opportunityModel) map[string]any {
	return map[string]any{
		"contact_id":        row.ContactID,
		"title":             row.Title,
		"product_lines":     row.ProductLines,
		"est_monthly_value": row.EstMonthlyValue,
		"stage":             row.Stage,
		"probability":       row.Probability,
		"expected_close_at": row.ExpectedCloseAt,
		"closed_at":         row.ClosedAt,
		"lost_reason":       row.LostReason,
		"updated_at":        row.UpdatedAt,
	}
}

func opportunityModelFromPort(item ports.Opportunity) opportunityModel {
	return opportunityModel{
		OpportunityID:   strings.TrimSpace(item.OpportunityID),
		OrgID:           strings.TrimSpace(item.OrgID),
		ContactID:       strings.TrimSpace(item.ContactID),
		OwnerUserID:     strings.TrimSpace(item.OwnerUserID),
		Title:           strings.TrimSpace(item.Title),
		ProductLines:    strings.Join(item.ProductLines, "\n"),
		EstMonthlyValue: item.EstMonthlyValue,
		Stage:           strings.TrimSpace(item.Stage),
		Probability:     item.Probability,
		ExpectedCloseAt: item.ExpectedCloseAt,
		ClosedAt:        item.ClosedAt,
		LostReason:      strings.TrimSpace(item.LostReason),
		CreatedAt:       item.CreatedAt.UTC(),
		UpdatedAt:       item.UpdatedAt.UTC(),
	}
}

func (m opportunityModel) toPort() ports.Opportunity {
	var productLines []string
	if m.ProductLines != "" {
		productLines = strings.Split(m.ProductLines, "\n")
	}
	return ports.Opportunity{
		OpportunityID:   m.OpportunityID,
		OrgID:           m.OrgID,
		ContactID:       m.ContactID,
		OwnerUserID:     m.OwnerUserID,
		Title:           m.Title,
		ProductLines:    productLines,
		EstMonthlyValue: m.EstMonthlyValue,
		Stage:           m.Stage,
		Probability:     m.Probability,
		ExpectedCloseAt: m.ExpectedCloseAt,
		ClosedAt:        m.ClosedAt,
		LostReason:      m.LostReason,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

type stageChangeModel struct {
	ChangeID      string    `gorm:"column:change_id;primaryKey"`
	OpportunityID string    `gorm:"column:opportunity_id"`
	FromStage     string    `gorm:"column:from_stage"`
	ToStage       string    `gorm:"column:to_stage"`
	ChangedBy     string    `gorm:"column:changed_by"`
	Note          string    `gorm:"column:note"`
	ChangedAt     time.Time `gorm:"column:changed_at"`
}

func (stageChangeModel) TableName() string {
	return "opportunity_stage_history"
}

func stageChangeModelFromPort(item ports.StageChange) stageChangeModel {
	return stageChangeModel{
		ChangeID:      item.ChangeID,
		OpportunityID: item.OpportunityID,
		FromStage:     item.FromStage,
		ToStage:       item.ToStage,
		ChangedBy:     item.ChangedBy,
		Note:          item.Note,
		ChangedAt:     item.ChangedAt.UTC(),
	}
}

func (m stageChangeModel) toPort() ports.StageChange {
	return ports.StageChange{
		ChangeID:      m.ChangeID,
		OpportunityID: m.OpportunityID,
		FromStage:     m.FromStage,
		ToStage:       m.ToStage,
		ChangedBy:     m.ChangedBy,
		Note:          m.Note,
		ChangedAt:     m.ChangedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "opportunity_outbox"
}

func outboxModelFromMessage(msg outbox.Message) outboxModel {
	return outboxModel{
		OutboxID:     msg.OutboxID,
		EventType:    msg.EventType,
		PartitionKey: msg.PartitionKey,
		Payload:      msg.Payload,
		Status:       msg.Status,
		CreatedAt:    msg.CreatedAt.UTC(),
		PublishedAt:  msg.PublishedAt,
	}
}

func (m outboxModel) toMessage() outbox.Message {
	return outbox.Message{
		OutboxID:     m.OutboxID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      m.Payload,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt.UTC(),
		PublishedAt:  m.PublishedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
