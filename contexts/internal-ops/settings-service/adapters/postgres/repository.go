package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainerrors "relish/contexts/internal-ops/settings-service/domain/errors"
	"relish/contexts/internal-ops/settings-service/ports"
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

func (r *Repository) GetSettings(ctx context.Context, userID string) (ports.Settings, error) {
	var row settingsModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Settings{}, domainerrors.ErrSettingsNotFound
		}
		return ports.Settings{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) SaveSettings(ctx context.Context, settings ports.Settings) error {
	row := settingsModelFromPort(settings)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(&row).
		Error
}

type settingsModel struct {
	UserID              string    `gorm:"column:user_id;primaryKey"`
	Timezone            string    `gorm:"column:timezone"`
	Currency            string    `gorm:"column:currency"`
	EmailTaskReminders  bool      `gorm:"column:email_task_reminders"`
	EmailDealUpdates    bool      `gorm:"column:email_deal_updates"`
	DefaultPipelineView string    `gorm:"column:default_pipeline_view"`
	UpdatedAt           time.Time `gorm:"column:updated_at"`
}

func (settingsModel) TableName() string {
	return "user_settings"
}

func settingsModelFromPort(item ports.Settings) settingsModel {
	return settingsModel{
		UserID:              strings.TrimSpace(item.UserID),
		Timezone:            strings.TrimSpace(item.Timezone),
		Currency:            strings.TrimSpace(item.Currency),
		EmailTaskReminders:  item.EmailTaskReminders,
		EmailDealUpdates:    item.EmailDealUpdates,
		DefaultPipelineView: strings.TrimSpace(item.DefaultPipelineView),
		UpdatedAt:           item.UpdatedAt.UTC(),
	}
}

func (m settingsModel) toPort() ports.Settings {
	return ports.Settings{
		UserID:              m.UserID,
		Timezone:            m.Timezone,
		Currency:            m.Currency,
		EmailTaskReminders:  m.EmailTaskReminders,
		EmailDealUpdates:    m.EmailDealUpdates,
		DefaultPipelineView: m.DefaultPipelineView,
		UpdatedAt:           m.UpdatedAt.UTC(),
	}
}
