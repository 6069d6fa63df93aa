package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"relish/contexts/billing/invoice-service/application"
	"relish/contexts/billing/invoice-service/ports"
	httptransport "relish/contexts/billing/invoice-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateInvoiceHandler(ctx context.Context, req httptransport.CreateInvoiceRequest) (httptransport.InvoiceResponse, error) {
	invoice, err := h.Service.Create(ctx, ports.CreateInvoiceInput{
		OrgID:         req.OrgID,
		OpportunityID: req.OpportunityID,
		LineItems:     lineItemsFromDTO(req.LineItems),
	})
	if err != nil {
		return httptransport.InvoiceResponse{}, err
	}
	return httptransport.InvoiceResponse{Invoice: mapInvoice(invoice)}, nil
}

func (h Handler) GetInvoiceHandler(ctx context.Context, invoiceID string) (httptransport.InvoiceResponse, error) {
	invoice, err := h.Service.Get(ctx, invoiceID)
	if err != nil {
		return httptransport.InvoiceResponse{}, err
	}
	return httptransport.InvoiceResponse{Invoice: mapInvoice(invoice)}, nil
}

func (h Handler) UpdateInvoiceHandler(ctx context.Context, invoiceID string, req httptransport.UpdateInvoiceRequest) (httptransport.InvoiceResponse, error) {
	invoice, err := h.Service.UpdateLineItems(ctx, invoiceID, lineItemsFromDTO(req.LineItems))
	if err != nil {
		return httptransport.InvoiceResponse{}, err
	}
	return httptransport.InvoiceResponse{Invoice: mapInvoice(invoice)}, nil
}

func (h Handler) IssueInvoiceHandler(ctx context.Context, invoiceID string) (httptransport.InvoiceResponse, error) {
	invoice, err := h.Service.Issue(ctx, invoiceID)
	if err != nil {
		return httptransport.InvoiceResponse{}, err
	}
	return httptransport.InvoiceResponse{Invoice: mapInvoice(invoice)}, nil
}

func (h Handler) MarkInvoicePaidHandler(ctx context.Context, invoiceID string) (httptransport.InvoiceResponse, error) {
	invoice, err := h.Service.MarkPaid(ctx, invoiceID)
	if err != nil {
		return httptransport.InvoiceResponse{}, err
	}
	return httptransport.InvoiceResponse{Invoice: mapInvoice(invoice)}, nil
}

func (h Handler) VoidInvoiceHandler(ctx context.Context, invoiceID string) (httptransport.InvoiceResponse, error) {
	invoice, err := h.Service.Void(ctx, invoiceID)
	if err != nil {
		return httptransport.InvoiceResponse{}, err
	}
	return httptransport.InvoiceResponse{Invoice: mapInvoice(invoice)}, nil
}

func (h Handler) ListInvoicesHandler(ctx context.Context, filter ports.InvoiceFilter) (httptransport.ListInvoicesResponse, error) {
	items, err := h.Service.List(ctx, filter)
	if err != nil {
		return httptransport.ListInvoicesResponse{}, err
	}
	result := make([]httptransport.InvoiceDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapInvoice(item))
	}
	return httptransport.ListInvoicesResponse{Items: result}, nil
}

func lineItemsFromDTO(items []httptransport.LineItemDTO) []ports.LineItem {
	result := make([]ports.LineItem, 0, len(items))
	for _, item := range items {
		result = append(result, ports.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return result
}

func mapInvoice(item ports.Invoice) httptransport.InvoiceDTO {
	lineItems := make([]httptransport.LineItemDTO, 0, len(item.LineItems))
	for _, li := range item.LineItems {
		lineItems = append(lineItems, httptransport.LineItemDTO{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			Amount:      li.Amount(),
		})
	}

	dto := httptransport.InvoiceDTO{
		InvoiceID:     item.InvoiceID,
		OrgID:         item.OrgID,
		OpportunityID: item.OpportunityID,
		Number:        item.Number,
		LineItems:     lineItems,
		Subtotal:      item.Subtotal,
		Tax:           item.Tax,
		Total:         item.Total,
		Status:        item.Status,
		CreatedAt:     item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     item.UpdatedAt.Format(time.RFC3339),
	}
	if item.IssuedAt != nil {
		dto.IssuedAt = item.IssuedAt.Format(time.RFC3339)
	}
	if item.DueAt != nil {
		dto.DueAt = item.DueAt.Format(time.RFC3339)
	}
	if item.PaidAt != nil {
		dto.PaidAt = item.PaidAt.Format(time.RFC3339)
	}
	return dto
}
