package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainerrors "relish/contexts/crm/interaction-service/domain/errors"
	"relish/contexts/crm/interaction-service/ports"
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

func (r *Repository) CreateInteraction(ctx context.Context, interaction ports.Interaction) error {
	row := interactionModelFromPort(interaction)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidInteraction
		}
		return err
	}
	return nil
}

func (r *Repository) GetInteraction(ctx context.Context, interactionID string) (ports.Interaction, error) {
	var row interactionModel
	err := r.db.WithContext(ctx).
		Where("interaction_id = ?", strings.TrimSpace(interactionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Interaction{}, domainerrors.ErrInteractionNotFound
		}
		return ports.Interaction{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) UpdateInteraction(ctx context.Context, interaction ports.Interaction) error {
	row := interactionModelFromPort(interaction)
	result := r.db.WithContext(ctx).
		Model(&interactionModel{}).
		Where("interaction_id = ?", row.InteractionID).
		Updates(map[string]any{
			"subject":      row.Subject,
			"notes":        row.Notes,
			"follow_up_at": row.FollowUpAt,
			"updated_at":   row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInteractionNotFound
	}
	return nil
}

func (r *Repository) DeleteInteraction(ctx context.Context, interactionID string) error {
	result := r.db.WithContext(ctx).
		Where("interaction_id = ?", strings.TrimSpace(interactionID)).
		Delete(&interactionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInteractionNotFound
	}
	return nil
}

func (r *Repository) ListInteractions(ctx context.Context, filter ports.InteractionFilter) ([]ports.Interaction, error) {
	tx := r.db.WithContext(ctx).Model(&interactionModel{})
	if filter.OrgID != "" {
		tx = tx.Where("org_id = ?", filter.OrgID)
	}
	if filter.Type != "" {
		tx = tx.Where("type = ?", filter.Type)
	}

	var rows []interactionModel
	if err := tx.Order("occurred_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]ports.Interaction, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

type interactionModel struct {
	InteractionID string     `gorm:"column:interaction_id;primaryKey"`
	OrgID         string     `gorm:"column:org_id"`
	ContactID     string     `gorm:"column:contact_id"`
	UserID        string     `gorm:"column:user_id"`
	Type          string     `gorm:"column:type"`
	Subject       string     `gorm:"column:subject"`
	Notes         string     `gorm:"column:notes"`
	OccurredAt    time.Time  `gorm:"column:occurred_at"`
	FollowUpAt    *time.Time `gorm:"column:follow_up_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (interactionModel) TableName() string {
	return "interactions"
}

func interactionModelFromPort(item ports.Interaction) interactionModel {
	return interactionModel{
		InteractionID: strings.TrimSpace(item.InteractionID),
		OrgID:         strings.TrimSpace(item.OrgID),
		ContactID:     strings.TrimSpace(item.ContactID),
		UserID:        strings.TrimSpace(item.UserID),
		Type:          strings.TrimSpace(item.Type),
		Subject:       strings.TrimSpace(item.Subject),
		Notes:         strings.TrimSpace(item.Notes),
		OccurredAt:    item.OccurredAt.UTC(),
		FollowUpAt:    item.FollowUpAt,
		CreatedAt:     item.CreatedAt.UTC(),
		UpdatedAt:     item.UpdatedAt.UTC(),
	}
}

func (m interactionModel) toPort() ports.Interaction {
	return ports.Interaction{
		InteractionID: m.InteractionID,
		OrgID:         m.OrgID,
		ContactID:     m.ContactID,
		UserID:        m.UserID,
		Type:          m.Type,
		Subject:       m.Subject,
		Notes:         m.Notes,
		OccurredAt:    m.OccurredAt.UTC(),
		FollowUpAt:    m.FollowUpAt,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
