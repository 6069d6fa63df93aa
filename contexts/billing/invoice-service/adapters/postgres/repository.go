package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainerrors "relish/contexts/billing/invoice-service/domain/errors"
	"relish/contexts/billing/invoice-service/ports"
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

func (r *Repository) CreateInvoice(ctx context.Context, invoice ports.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := invoiceModelFromPort(invoice)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrInvalidInvoice
			}
			return err
		}
		return replaceLineItems(tx, invoice)
	})
}

func (r *Repository) GetInvoice(ctx context.Context, invoiceID string) (ports.Invoice, error) {
	var row invoiceModel
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", strings.TrimSpace(invoiceID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Invoice{}, domainerrors.ErrInvoiceNotFound
		}
		return ports.Invoice{}, err
	}
	return r.hydrate(ctx, row)
}

func (r *Repository) GetInvoiceByOpportunity(ctx context.Context, opportunityID string) (ports.Invoice, error) {
	var row invoiceModel
	err := r.db.WithContext(ctx).
		Where("opportunity_id = ?", strings.TrimSpace(opportunityID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Invoice{}, domainerrors.ErrInvoiceNotFound
		}
		return ports.Invoice{}, err
	}
	return r.hydrate(ctx, row)
}

func (r *Repository) UpdateInvoice(ctx context.Context, invoice ports.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := invoiceModelFromPort(invoice)
		result := tx.Model(&invoiceModel{}).
			Where("invoice_id = ?", row.InvoiceID).
			Updates(map[string]any{
				"subtotal":   row.Subtotal,
				"tax":        row.Tax,
				"total":      row.Total,
				"status":     row.Status,
				"issued_at":  row.IssuedAt,
				"due_at":     row.DueAt,
				"paid_at":    row.PaidAt,
				"updated_at": row.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrInvoiceNotFound
		}
		return replaceLineItems(tx, invoice)
	})
}

func (r *Repository) ListInvoices(ctx context.Context, filter ports.InvoiceFilter) ([]ports.Invoice, error) {
	tx := r.db.WithContext(ctx).Model(&invoiceModel{})
	if filter.OrgID != "" {
		tx = tx.Where("org_id = ?", filter.OrgID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}

	var rows []invoiceModel
	if err := tx.Order("number ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]ports.Invoice, 0, len(rows))
	for _, row := range rows {
		invoice, err := r.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		items = append(items, invoice)
	}
	return items, nil
}

func (r *Repository) NextInvoiceNumber(ctx context.Context) (int64, error) {
	var number int64
	err := r.db.WithContext(ctx).
		Raw("SELECT nextval('invoice_number_seq')").
		Scan(&number).
		Error
	if err != nil {
		return 0, err
	}
	return number, nil
}

func (r *Repository) hydrate(ctx context.Context, row invoiceModel) (ports.Invoice, error) {
	var itemRows []lineItemModel
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", row.InvoiceID).
		Order("position ASC").
		Find(&itemRows).
		Error
	if err != nil {
		return ports.Invoice{}, err
	}

	invoice := row.toPort()
	invoice.LineItems = make([]ports.LineItem, 0, len(itemRows))
	for _, item := range itemRows {
		invoice.LineItems = append(invoice.LineItems, ports.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return invoice, nil
}

func replaceLineItems(tx *gorm.DB, invoice ports.Invoice) error {
	if err := tx.Where("invoice_id = ?", invoice.InvoiceID).Delete(&lineItemModel{}).Error; err != nil {
		return err
	}
	for i, item := range invoice.LineItems {
		row := lineItemModel{
			InvoiceID:   invoice.InvoiceID,
			Position:    i,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

type invoiceModel struct {
	InvoiceID     string     `gorm:"column:invoice_id;primaryKey"`
	OrgID         string     `gorm:"column:org_id"`
	OpportunityID string     `gorm:"column:opportunity_id"`
	Number        string     `gorm:"column:number"`
	Subtotal      float64    `gorm:"column:subtotal"`
	Tax           float64    `gorm:"column:tax"`
	Total         float64    `gorm:"column:total"`
	Status        string     `gorm:"column:status"`
	IssuedAt      *time.Time `gorm:"column:issued_at"`
	DueAt         *time.Time `gorm:"column:due_at"`
	PaidAt        *time.Time `gorm:"column:paid_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (invoiceModel) TableName() string {
	return "invoices"
}

type lineItemModel struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement"`
	InvoiceID   string  `gorm:"column:invoice_id"`
	Position    int     `gorm:"column:position"`
	Description string  `gorm:"column:description"`
	Quantity    float64 `gorm:"column:quantity"`
	UnitPrice   float64 `gorm:"column:unit_price"`
}

func (lineItemModel) TableName() string {
	return "invoice_line_items"
}

func invoiceModelFromPort(item ports.Invoice) invoiceModel {
	return invoiceModel{
		InvoiceID:     strings.TrimSpace(item.InvoiceID),
		OrgID:         strings.TrimSpace(item.OrgID),
		OpportunityID: strings.TrimSpace(item.OpportunityID),
		Number:        strings.TrimSpace(item.Number),
		Subtotal:      item.Subtotal,
		Tax:           item.Tax,
		Total:         item.Total,
		Status:        strings.TrimSpace(item.Status),
		IssuedAt:      item.IssuedAt,
		DueAt:         item.DueAt,
		PaidAt:        item.PaidAt,
		CreatedAt:     item.CreatedAt.UTC(),
		UpdatedAt:     item.UpdatedAt.UTC(),
	}
}

func (m invoiceModel) toPort() ports.Invoice {
	return ports.Invoice{
		InvoiceID:     m.InvoiceID,
		OrgID:         m.OrgID,
		OpportunityID: m.OpportunityID,
		Number:        m.Number,
		Subtotal:      m.Subtotal,
		Tax:           m.Tax,
		Total:         m.Total,
		Status:        m.Status,
		IssuedAt:      m.IssuedAt,
		DueAt:         m.DueAt,
		PaidAt:        m.PaidAt,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
