package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainerrors "relish/contexts/crm/contact-service/domain/errors"
	"relish/contexts/crm/contact-service/ports"
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

func (r *Repository) CreateContact(ctx context.Context, contact ports.Contact) error {
	row := contactModelFromPort(contact)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidContact
		}
		return err
	}
	return nil
}

func (r *Repository) GetContact(ctx context.Context, contactID string) (ports.Contact, error) {
	var row contactModel
	err := r.db.WithContext(ctx).
		Where("contact_id = ?", strings.TrimSpace(contactID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Contact{}, domainerrors.ErrContactNotFound
		}
		return ports.Contact{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) UpdateContact(ctx context.Context, contact ports.Contact) error {
	row := contactModelFromPort(contact)
	result := r.db.WithContext(ctx).
		Model(&contactModel{}).
		Where("contact_id = ?", row.ContactID).
		Updates(map[string]any{
			"first_name": row.FirstName,
			"last_name":  row.LastName,
			"title":      row.Title,
			"email":      row.Email,
			"phone":      row.Phone,
			"is_primary": row.IsPrimary,
			"notes":      row.Notes,
			"updated_at": row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrContactNotFound
	}
	return nil
}

func (r *Repository) DeleteContact(ctx context.Context, contactID string) error {
	result := r.db.WithContext(ctx).
		Where("contact_id = ?", strings.TrimSpace(contactID)).
		Delete(&contactModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrContactNotFound
	}
	return nil
}

func (r *Repository) ListContactsByOrg(ctx context.Context, orgID string) ([]ports.Contact, error) {
	var rows []contactModel
	err := r.db.WithContext(ctx).
		Where("org_id = ?", strings.TrimSpace(orgID)).
		Order("is_primary DESC, created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]ports.Contact, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) ClearPrimary(ctx context.Context, orgID string) error {
	return r.db.WithContext(ctx).
		Model(&contactModel{}).
		Where("org_id = ? AND is_primary", strings.TrimSpace(orgID)).
		Update("is_primary", false).
		Error
}

type contactModel struct {
	ContactID string    `gorm:"column:contact_id;primaryKey"`
	OrgID     string    `gorm:"column:org_id"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	Title     string    `gorm:"column:title"`
	Email     string    `gorm:"column:email"`
	Phone     string    `gorm:"column:phone"`
	IsPrimary bool      `gorm:"column:is_primary"`
	Notes     string    `gorm:"column:notes"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (contactModel) TableName() string {
	return "contacts"
}

func contactModelFromPort(item ports.Contact) contactModel {
	return contactModel{
		ContactID: strings.TrimSpace(item.ContactID),
		OrgID:     strings.TrimSpace(item.OrgID),
		FirstName: strings.TrimSpace(item.FirstName),
		LastName:  strings.TrimSpace(item.LastName),
		Title:     strings.TrimSpace(item.Title),
		Email:     strings.TrimSpace(item.Email),
		Phone:     strings.TrimSpace(item.Phone),
		IsPrimary: item.IsPrimary,
		Notes:     strings.TrimSpace(item.Notes),
		CreatedAt: item.CreatedAt.UTC(),
		UpdatedAt: item.UpdatedAt.UTC(),
	}
}

func (m contactModel) toPort() ports.Contact {
	return ports.Contact{
		ContactID: m.ContactID,
		OrgID:     m.OrgID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Title:     m.Title,
		Email:     m.Email,
		Phone:     m.Phone,
		IsPrimary: m.IsPrimary,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
