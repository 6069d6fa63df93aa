package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainerrors "relish/contexts/crm/organization-service/domain/errors"
	"relish/contexts/crm/organization-service/ports"
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

func (r *Repository) CreateOrganization(ctx context.Context, org ports.Organization) error {
	row := organizationModelFromPort(org)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidOrganization
		}
		return err
	}
	return nil
}

func (r *Repository) GetOrganization(ctx context.Context, orgID string) (ports.Organization, error) {
	var row organizationModel
	err := r.db.WithContext(ctx).
		Where("org_id = ?", strings.TrimSpace(orgID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Organization{}, domainerrors.ErrOrganizationNotFound
		}
		return ports.Organization{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) UpdateOrganization(ctx context.Context, org ports.Organization) error {
	row := organizationModelFromPort(org)
	result := r.db.WithContext(ctx).
		Model(&organizationModel{}).
		Where("org_id = ?", row.OrgID).
		Updates(map[string]any{
			"name":          row.Name,
			"segment":       row.Segment,
			"cuisine":       row.Cuisine,
			"address_line":  row.AddressLine,
			"city":          row.City,
			"region":        row.Region,
			"phone":         row.Phone,
			"website":       row.Website,
			"status":        row.Status,
			"owner_user_id": row.OwnerUserID,
			"notes":         row.Notes,
			"updated_at":    row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOrganizationNotFound
	}
	return nil
}

func (r *Repository) ListOrganizations(ctx context.Context, filter ports.OrganizationFilter) ([]ports.Organization, error) {
	tx := r.db.WithContext(ctx).Model(&organizationModel{})
	if filter.Segment != "" {
		tx = tx.Where("segment = ?", filter.Segment)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.OwnerUserID != "" {
		tx = tx.Where("owner_user_id = ?", filter.OwnerUserID)
	}
	if filter.City != "" {
		tx = tx.Where("LOWER(city) = LOWER(?)", filter.City)
	}
	if filter.NameQuery != "" {
		tx = tx.Where("name ILIKE ?", "%"+filter.NameQuery+"%")
	}

	var rows []organizationModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]ports.Organization, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

type organizationModel struct {
	OrgID       string    `gorm:"column:org_id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Segment     string    `gorm:"column:segment"`
	Cuisine     string    `gorm:"column:cuisine"`
	AddressLine string    `gorm:"column:address_line"`
	City        string    `gorm:"column:city"`
	Region      string    `gorm:"column:region"`
	Phone       string    `gorm:"column:phone"`
	Website     string    `gorm:"column:website"`
	Status      string    `gorm:"column:status"`
	OwnerUserID string    `gorm:"column:owner_user_id"`
	Notes       string    `gorm:"column:notes"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (organizationModel) TableName() string {
	return "organizations"
}

func organizationModelFromPort(item ports.Organization) organizationModel {
	return organizationModel{
		OrgID:       strings.TrimSpace(item.OrgID),
		Name:        strings.TrimSpace(item.Name),
		Segment:     strings.TrimSpace(item.Segment),
		Cuisine:     strings.TrimSpace(item.Cuisine),
		AddressLine: strings.TrimSpace(item.AddressLine),
		City:        strings.TrimSpace(item.City),
		Region:      strings.TrimSpace(item.Region),
		Phone:       strings.TrimSpace(item.Phone),
		Website:     strings.TrimSpace(item.Website),
		Status:      strings.TrimSpace(item.Status),
		OwnerUserID: strings.TrimSpace(item.OwnerUserID),
		Notes:       strings.TrimSpace(item.Notes),
		CreatedAt:   item.CreatedAt.UTC(),
		UpdatedAt:   item.UpdatedAt.UTC(),
	}
}

func (m organizationModel) toPort() ports.Organization {
	return ports.Organization{
		OrgID:       m.OrgID,
		Name:        m.Name,
		Segment:     m.Segment,
		Cuisine:     m.Cuisine,
		AddressLine: m.AddressLine,
		City:        m.City,
		Region:      m.Region,
		Phone:       m.Phone,
		Website:     m.Website,
		Status:      m.Status,
		OwnerUserID: m.OwnerUserID,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
